package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/docuchat/internal/client/api"
	"github.com/dmitrijs2005/docuchat/internal/common"
	"github.com/dmitrijs2005/docuchat/internal/logging"
	"golang.org/x/sync/errgroup"
)

// MaxUploadSize is the largest document the backend accepts.
const MaxUploadSize = 10 << 20 // 10 MB

// acceptedExtensions lists the document types the backend can ingest.
var acceptedExtensions = map[string]struct{}{
	".txt":  {},
	".pdf":  {},
	".docx": {},
}

// UploadService validates and uploads documents for retrieval. Validation
// failures are rejected before any network call.
type UploadService struct {
	client      api.Client
	log         logging.Logger
	concurrency int
}

func NewUploadService(client api.Client, log logging.Logger, concurrency int) *UploadService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &UploadService{client: client, log: log, concurrency: concurrency}
}

// ValidateFile checks extension and size without reading the file body.
func (u *UploadService) ValidateFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := acceptedExtensions[ext]; !ok {
		return fmt.Errorf("%w: unsupported file type %q (accepted: .txt, .pdf, .docx)", common.ErrorValidation, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if info.Size() > MaxUploadSize {
		return fmt.Errorf("%w: file larger than 10MB", common.ErrorValidation)
	}
	return nil
}

// Upload validates and uploads a single document.
func (u *UploadService) Upload(ctx context.Context, path string) (api.UploadReceipt, error) {
	if err := u.ValidateFile(path); err != nil {
		return api.UploadReceipt{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return api.UploadReceipt{}, err
	}

	receipt, err := u.client.Upload(ctx, filepath.Base(path), content)
	if err != nil {
		return api.UploadReceipt{}, err
	}

	u.log.Info(ctx, "document uploaded", "file", filepath.Base(path))
	return receipt, nil
}

// UploadAll fans the uploads out concurrently, bounded by the configured
// concurrency. Uploads are independent and order-insensitive; the first
// error cancels the remaining ones.
func (u *UploadService) UploadAll(ctx context.Context, paths []string) error {
	// validate everything up front so no bytes move for a bad batch
	for _, p := range paths {
		if err := u.ValidateFile(p); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for _, path := range paths {
		g.Go(func() error {
			_, err := u.Upload(ctx, path)
			return err
		})
	}
	return g.Wait()
}
