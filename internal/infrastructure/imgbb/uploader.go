// Package imgbb uploads images to the imgbb hosting API.
package imgbb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

const (
	DefaultEndpoint = "https://api.imgbb.com/1/upload"

	// MaxImageSize is the largest image accepted for upload.
	MaxImageSize = 32 << 20
)

type Options struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

type Uploader struct {
	apiKey   string
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

var _ ports.ImageUploader = (*Uploader)(nil)

func New(opts Options, log zerolog.Logger) *Uploader {
	u := &Uploader{
		apiKey:   opts.APIKey,
		endpoint: opts.Endpoint,
		http:     opts.HTTPClient,
		log:      log,
	}
	if u.endpoint == "" {
		u.endpoint = DefaultEndpoint
	}
	if u.http == nil {
		u.http = &http.Client{Timeout: 30 * time.Second}
	}
	return u
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the image as multipart form field "image" and returns its
// hosted display URL. Every failure wraps domain.ErrUploadFailed.
func (u *Uploader) Upload(ctx context.Context, filename string, image io.Reader) (string, error) {
	if u.apiKey == "" {
		return "", fmt.Errorf("%w: no imgbb api key configured", domain.ErrUploadFailed)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	n, err := io.Copy(part, io.LimitReader(image, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: read image: %v", domain.ErrUploadFailed, err)
	}
	if n > MaxImageSize {
		return "", fmt.Errorf("%w: image larger than %d bytes", domain.ErrUploadFailed, MaxImageSize)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	endpoint := u.endpoint + "?" + url.Values{"key": {u.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: status %d: decode: %v", domain.ErrUploadFailed, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrUploadFailed, resp.StatusCode, out.Error.Message)
	}

	hosted := out.Data.DisplayURL
	if hosted == "" {
		hosted = out.Data.URL
	}
	u.log.Debug().Str("file", filename).Int64("bytes", n).Str("url", hosted).Msg("image uploaded")
	return hosted, nil
}
