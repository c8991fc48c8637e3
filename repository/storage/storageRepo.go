// Package storagerepo uploads payment-proof images to the object store and
// returns the public URL. Only the URL string is persisted by callers.
package storagerepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ojimcy/mcgp-api/util/httpx"
)

type Repo interface {
	UploadImage(ctx context.Context, localPath string) (string, error)
}

type httpRepo struct {
	uploadURL string
	preset    string
	c         *http.Client
}

func NewHTTP(uploadURL, preset string) Repo {
	return &httpRepo{uploadURL: uploadURL, preset: preset, c: httpx.Client()}
}

type uploadResp struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

func (r *httpRepo) UploadImage(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.WriteField("upload_preset", r.preset); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("image upload failed: status %d: %s", resp.StatusCode, b)
	}

	var out uploadResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", fmt.Errorf("image upload response missing url")
}
