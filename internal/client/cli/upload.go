package cli

import (
	"context"
	"fmt"
)

// Upload validates and uploads one or more documents for retrieval.
// Multiple files are uploaded concurrently.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: upload <file> [file ...]")
		return nil
	}

	if len(args) == 1 {
		receipt, err := a.uploadService.Upload(ctx, args[0])
		if err != nil {
			fmt.Printf("Upload failed: %s\n", err.Error())
			return err
		}
		fmt.Println(receipt.Message)
		return nil
	}

	if err := a.uploadService.UploadAll(ctx, args); err != nil {
		fmt.Printf("Upload failed: %s\n", err.Error())
		return err
	}
	fmt.Printf("Uploaded %d documents\n", len(args))
	return nil
}
