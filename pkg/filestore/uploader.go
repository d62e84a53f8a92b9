package filestore

import (
	"context"
	"fmt"
	"mime/multipart"

	"markethub/pkg/logger"
)

// BatchUploader pushes files to the host one at a time. Uploads are strictly
// sequential so the returned URL order mirrors the input order; position 0
// becomes the listing's primary image.
type BatchUploader struct {
	client *Client
	logger *logger.Logger
}

func NewBatchUploader(client *Client, log *logger.Logger) *BatchUploader {
	return &BatchUploader{client: client, logger: log}
}

func (b *BatchUploader) Upload(ctx context.Context, file *multipart.FileHeader, folder Folder) (string, error) {
	return b.client.Upload(ctx, file, folder)
}

// UploadAll aborts on the first failure and returns the URLs uploaded so far.
// Already-uploaded blobs stay on the host; it has no delete API.
func (b *BatchUploader) UploadAll(ctx context.Context, files []*multipart.FileHeader, folder Folder) ([]string, error) {
	urls := make([]string, 0, len(files))
	for i, file := range files {
		url, err := b.client.Upload(ctx, file, folder)
		if err != nil {
			b.logger.Error("batch upload aborted at item %d/%d: %v", i+1, len(files), err)
			return urls, fmt.Errorf("failed at item %d/%d: %w", i+1, len(files), err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
