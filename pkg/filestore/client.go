package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"markethub/pkg/config"

	"github.com/google/uuid"
)

// Folder is a logical destination on the file host.
type Folder string

const (
	FolderListingImages Folder = "listing-images"
	// Receipts nest under the listing image folder for legacy reasons.
	FolderReceipts Folder = "listing-images/receipts"
)

const uploadPath = "/execute/Fileman/upload_files"

// Client talks to the external file host. The host owns the blobs; it exposes
// an upload call but no delete, so anything uploaded stays uploaded.
type Client struct {
	httpClient *http.Client
	uploadURL  string
	authHeader string
	rootDir    string
	publicBase string
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.FileHostUsername == "" || cfg.FileHostToken == "" {
		return nil, fmt.Errorf("file host credential is not configured")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		uploadURL:  strings.TrimRight(cfg.FileHostURL, "/") + uploadPath,
		authHeader: fmt.Sprintf("%s %s:%s", cfg.FileHostAuthScheme, cfg.FileHostUsername, cfg.FileHostToken),
		rootDir:    strings.TrimRight(cfg.FileHostRootDir, "/"),
		publicBase: strings.TrimRight(cfg.FilePublicBase, "/"),
	}, nil
}

type uploadResponse struct {
	Status int      `json:"status"`
	Errors []string `json:"errors"`
	Data   struct {
		Uploads []struct {
			File string `json:"file"`
		} `json:"uploads"`
	} `json:"data"`
}

// Upload sends a single file to the host and returns its public URL. The
// stored filename is randomized so same-named uploads never clobber each
// other.
func (c *Client) Upload(ctx context.Context, file *multipart.FileHeader, folder Folder) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	storedName := uuid.New().String() + fileExtension(file.Filename)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("dir", c.rootDir+"/"+string(folder)); err != nil {
		return "", fmt.Errorf("failed to build request body: %w", err)
	}
	part, err := writer.CreateFormFile("file-1", storedName)
	if err != nil {
		return "", fmt.Errorf("failed to build request body: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("file host unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("file host returned HTTP %d", resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("file host returned malformed response: %w", err)
	}

	if out.Status != 1 {
		reason := "unknown error"
		if len(out.Errors) > 0 {
			reason = strings.Join(out.Errors, "; ")
		}
		return "", fmt.Errorf("file host rejected upload: %s", reason)
	}

	// The host reports the filename it actually stored; trust it over the
	// one we asked for.
	if len(out.Data.Uploads) > 0 && out.Data.Uploads[0].File != "" {
		storedName = out.Data.Uploads[0].File
	}

	return c.publicBase + "/" + string(folder) + "/" + storedName, nil
}

func fileExtension(filename string) string {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
	}
	return ""
}
