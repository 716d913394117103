package credentials

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/docuchat/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestRepository_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	require.NoError(t, r.Set(ctx, "k", []byte("v1")))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	// upsert overwrites
	require.NoError(t, r.Set(ctx, "k", []byte("v2")))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)

	require.NoError(t, r.Delete(ctx, "k"))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRepository_Clear(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "b", []byte("2")))
	require.NoError(t, r.Clear(ctx))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_SaveTokens_BothOrNeither(t *testing.T) {
	ctx := context.Background()
	s := NewStore(setupDB(t))

	err := s.SaveTokens(ctx, models.TokenPair{AccessToken: "only-access"})
	assert.Error(t, err)

	pair := models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}
	require.NoError(t, s.SaveTokens(ctx, pair))

	got, err := s.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair, got)
}

func TestStore_Tokens_PartialPairIsAbsent(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	s := NewStore(db)

	// simulate a half-written pair
	r := NewSQLiteRepository(db)
	require.NoError(t, r.Set(ctx, KeyAccessToken, []byte("a1")))

	got, err := s.Tokens(ctx)
	require.NoError(t, err)
	assert.False(t, got.Valid())
	assert.Empty(t, got.AccessToken)
}

func TestStore_UserRoundTripAndCorrupt(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	s := NewStore(db)

	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	want := &models.User{ID: 7, Email: "alice@example.org", FirstName: "Alice", LastName: "Doe"}
	require.NoError(t, s.SaveUser(ctx, want))

	u, err = s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, u)

	r := NewSQLiteRepository(db)
	require.NoError(t, r.Set(ctx, KeyUser, []byte("{not json")))
	_, err = s.User(ctx)
	assert.Error(t, err)
}

func TestStore_ClearWipesEverything(t *testing.T) {
	ctx := context.Background()
	s := NewStore(setupDB(t))

	require.NoError(t, s.SaveTokens(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, s.SaveUser(ctx, &models.User{ID: 1}))
	require.NoError(t, s.Clear(ctx))

	pair, err := s.Tokens(ctx)
	require.NoError(t, err)
	assert.False(t, pair.Valid())

	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}
