// Package metadata loads the descriptor of known components and modules.
package metadata

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/models"
)

const (
	DefaultURL     = "http://g.alicdn.com/weex/weex-vue-bundle-tool/info.json"
	DefaultTimeout = 10 * time.Second
)

//go:embed data/info.json
var bundled []byte

// Source yields a descriptor. Implementations never fail.
type Source interface {
	Fetch(ctx context.Context) *models.Descriptor
}

type Fetcher struct {
	URL      string
	Client   *http.Client
	Fallback []byte
}

func NewFetcher(url string, timeout time.Duration) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		URL:      url,
		Client:   &http.Client{Timeout: timeout},
		Fallback: bundled,
	}
}

// Fetch retrieves the remote descriptor, falling back to the bundled
// snapshot on any failure.
func (f *Fetcher) Fetch(ctx context.Context) *models.Descriptor {
	desc, err := f.fetchRemote(ctx)
	if err == nil {
		logger.Debug("Loaded metadata from %s", f.URL)
		return desc
	}
	logger.Debug("Using bundled metadata: %v", err)
	return f.fallback()
}

func (f *Fetcher) fetchRemote(ctx context.Context) (*models.Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected metadata status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata body: %w", err)
	}
	return Decode(body)
}

func (f *Fetcher) fallback() *models.Descriptor {
	data := f.Fallback
	if data == nil {
		data = bundled
	}
	desc, err := Decode(data)
	if err != nil {
		logger.Error("Bundled metadata is invalid: %v", err)
		return &models.Descriptor{}
	}
	return desc
}

// Decode parses a descriptor document.
func Decode(data []byte) (*models.Descriptor, error) {
	var desc models.Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &desc, nil
}

// Bundled returns the descriptor shipped with the binary.
func Bundled() *models.Descriptor {
	return (&Fetcher{Fallback: bundled}).fallback()
}
