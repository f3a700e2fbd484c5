package box

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	apperrors "box-skill-whisper/internal/app/errors"
)

var errEmptyDownload = errors.New("downloaded file is empty")

// Download is a fetched file on local disk. The caller removes Path.
type Download struct {
	Path string
	Size int64
}

// Fetcher downloads file content into a temp directory.
type Fetcher struct {
	client  *Client
	tempDir string
}

// NewFetcher creates a Fetcher writing into tempDir (os.TempDir when empty).
func NewFetcher(client *Client, tempDir string) *Fetcher {
	return &Fetcher{client: client, tempDir: tempDir}
}

// Fetch downloads fileID with the read token. fileName only contributes its
// extension to the temp file. A 403 from the content endpoint is retried
// once through the file's download_url. Errors are fetch errors.
func (f *Fetcher) Fetch(ctx context.Context, fileID, fileName string, tokens Tokens) (Download, error) {
	token, err := tokens.ForRead()
	if err != nil {
		return Download{}, apperrors.Fetch(err)
	}

	contentURL := fmt.Sprintf("%s/files/%s/content", f.client.baseURL, fileID)
	dl, err := f.download(ctx, contentURL, fileID, fileName, token)

	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusForbidden {
		f.client.logger.Warn("content endpoint refused, trying download_url",
			zap.String("file_id", fileID))
		var url string
		url, err = f.downloadURL(ctx, fileID, token)
		if err == nil {
			dl, err = f.download(ctx, url, fileID, fileName, token)
		}
	}
	if err != nil {
		return Download{}, apperrors.Fetch(err)
	}

	f.client.logger.Info("file downloaded",
		zap.String("file_id", fileID),
		zap.Int64("size_bytes", dl.Size))
	return dl, nil
}

func (f *Fetcher) downloadURL(ctx context.Context, fileID, token string) (string, error) {
	url := fmt.Sprintf("%s/files/%s?fields=download_url", f.client.baseURL, fileID)
	req, err := f.client.newRequest(ctx, http.MethodGet, url, token, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}
	var info struct {
		DownloadURL string `json:"download_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode file info: %w", err)
	}
	if info.DownloadURL == "" {
		return "", errors.New("file info has no download_url")
	}
	return info.DownloadURL, nil
}

func (f *Fetcher) download(ctx context.Context, url, fileID, fileName, token string) (Download, error) {
	req, err := f.client.newRequest(ctx, http.MethodGet, url, token, nil)
	if err != nil {
		return Download{}, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.httpClient.Do(req)
	if err != nil {
		return Download{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Download{}, statusError(resp)
	}

	out, err := os.CreateTemp(f.tempDir, "box_file_"+fileID+"_*"+filepath.Ext(fileName))
	if err != nil {
		return Download{}, fmt.Errorf("create temp file: %w", err)
	}
	size, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && size == 0 {
		err = errEmptyDownload
	}
	if err != nil {
		_ = os.Remove(out.Name())
		return Download{}, err
	}
	return Download{Path: out.Name(), Size: size}, nil
}
