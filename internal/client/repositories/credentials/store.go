package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/docuchat/internal/client/models"
	"github.com/dmitrijs2005/docuchat/internal/dbx"
)

// Store exposes typed access to the persisted auth material on top of the
// key/value repository. Multi-key writes (the token pair, pair+profile)
// run in a single transaction so the both-or-neither token invariant
// holds across process crashes.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Tokens returns the persisted token pair. A pair with any missing half is
// reported as absent (zero value).
func (s *Store) Tokens(ctx context.Context) (models.TokenPair, error) {
	repo := NewSQLiteRepository(s.db)

	access, err := repo.Get(ctx, KeyAccessToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := repo.Get(ctx, KeyRefreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}

	pair := models.TokenPair{AccessToken: string(access), RefreshToken: string(refresh)}
	if !pair.Valid() {
		return models.TokenPair{}, nil
	}
	return pair, nil
}

// SaveTokens persists both halves of the pair in one transaction.
func (s *Store) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	if !pair.Valid() {
		return fmt.Errorf("refusing to save partial token pair")
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessToken, []byte(pair.AccessToken)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyRefreshToken, []byte(pair.RefreshToken))
	})
}

// User returns the cached profile, or nil if none is stored. A cached
// profile that no longer unmarshals is surfaced as an error so the caller
// can wipe the store.
func (s *Store) User(ctx context.Context) (*models.User, error) {
	repo := NewSQLiteRepository(s.db)

	data, err := repo.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("corrupt cached profile: %w", err)
	}
	return &u, nil
}

// SaveUser caches the profile as JSON.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	repo := NewSQLiteRepository(s.db)
	return repo.Set(ctx, KeyUser, data)
}

// Clear wipes tokens and profile as a unit. Used on logout and on
// unrecoverable refresh failure.
func (s *Store) Clear(ctx context.Context) error {
	repo := NewSQLiteRepository(s.db)
	return repo.Clear(ctx)
}
