package powerfulcases

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// fetchClient downloads registry-hosted files over HTTP.
type fetchClient struct {
	// baseURL is the registry's base download URL.
	baseURL string

	// httpClient is used for all HTTP requests.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// newFetchClient creates a fetch client.
// The baseURL is normalized by removing any trailing slashes.
func newFetchClient(baseURL string, client HTTPClient, logger Logger) *fetchClient {
	return &fetchClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     logger,
	}
}

// fetchFile downloads {baseURL}/{remotePath} into destPath, creating parent
// directories as needed, and returns the number of bytes written. The file
// is written through a temp file and renamed so a partial fetch never looks
// complete. There is no retry: a failure surfaces to the caller unchanged.
func (c *fetchClient) fetchFile(ctx context.Context, remotePath, destPath string, onProgress func(delta int64)) (int64, error) {
	url := c.baseURL + "/" + strings.TrimLeft(remotePath, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %v: %w", remotePath, err, ErrNetworkError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching %s: status %d: %w", remotePath, resp.StatusCode, ErrNetworkError)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return 0, fmt.Errorf("%w: creating directory for %s: %v", ErrStorageError, destPath, err)
	}

	var reader io.Reader = resp.Body
	if onProgress != nil {
		reader = &progressReader{reader: resp.Body, onProgress: onProgress}
	}

	tmp := destPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("%w: creating %s: %v", ErrStorageError, tmp, err)
	}

	n, err := io.Copy(f, reader)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("writing %s: %v: %w", destPath, err, ErrNetworkError)
	}

	if err := os.Rename(tmp, destPath); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("%w: renaming %s: %v", ErrStorageError, tmp, err)
	}

	if c.logger != nil {
		c.logger.Debug("fetched file", "path", remotePath, "bytes", n)
	}

	return n, nil
}

// progressReader wraps an io.Reader and reports progress as bytes are read.
type progressReader struct {
	reader     io.Reader
	onProgress func(delta int64)
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 && pr.onProgress != nil {
		pr.onProgress(int64(n))
	}
	return
}
