package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tradecove/catalog-backend/pkg/config"
	apperrors "github.com/tradecove/catalog-backend/pkg/errors"
)

// Embedder converts free text into the dense vector used for semantic
// ranking.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

// Client calls the external embedding service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Vector []float64 `json:"vector"`
}

// New builds an embedding client from configuration.
func New(cfg config.EmbeddingConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("embedding base url is required")
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// EmbedQuery requests a vector for the given text. Failures surface as
// dependency errors so the search layer can map them to 503.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "embedding service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "reading embedding response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(
			apperrors.CodeDependency,
			fmt.Sprintf("embedding service returned status %d", resp.StatusCode),
		)
	}

	var decoded embedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "decoding embedding response")
	}
	if len(decoded.Vector) == 0 {
		return nil, apperrors.New(apperrors.CodeDependency, "embedding service returned empty vector")
	}
	return decoded.Vector, nil
}
