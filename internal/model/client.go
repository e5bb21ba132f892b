package model

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"credit-scoring/internal/domain"
)

// HTTPClassifier implementa Classifier contra un servidor de modelos remoto.
type HTTPClassifier struct {
	baseURL  string
	client   *http.Client
	logger   *zap.Logger
	metadata modelMetadata
	digest   string
}

type modelMetadata struct {
	Name               string    `json:"name"`
	Version            string    `json:"version"`
	InputColumns       []string  `json:"input_columns"`
	FeatureNames       []string  `json:"feature_names"`
	FeatureImportances []float64 `json:"feature_importances"`
}

type predictRequest struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

type predictResponse struct {
	Probabilities [][]float64 `json:"probabilities"`
	Error         *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewHTTPClassifier construye el cliente y descarga la metadata del modelo.
// Si el servidor no responde devuelve ErrModelLoad.
func NewHTTPClassifier(ctx context.Context, baseURL string, timeout time.Duration, logger *zap.Logger) (*HTTPClassifier, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: model url is required", ErrModelLoad)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &HTTPClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
	if err := c.loadMetadata(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	return c, nil
}

func (c *HTTPClassifier) loadMetadata(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metadata", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("metadata http error: status=%d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &c.metadata); err != nil {
		return fmt.Errorf("unmarshal metadata: %w", err)
	}
	sum := blake2b.Sum256(body)
	c.digest = hex.EncodeToString(sum[:])
	return nil
}

// Digest identifica la metadata servida al arrancar.
func (c *HTTPClassifier) Digest() string { return c.digest }

func (c *HTTPClassifier) PredictProba(ctx context.Context, record domain.ApplicationRecord) ([]float64, error) {
	if len(c.metadata.InputColumns) > 0 && !sameColumns(c.metadata.InputColumns, record) {
		return nil, fmt.Errorf("%w: model expects columns %v, got %v", ErrSchemaMismatch, c.metadata.InputColumns, record.Columns())
	}

	bodyBytes, err := json.Marshal(predictRequest{
		Columns: record.Columns(),
		Data:    [][]any{record.Row()},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict_proba", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var pr predictResponse
	decodeErr := json.Unmarshal(respBody, &pr)

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		msg := "rejected by model server"
		if pr.Error != nil && pr.Error.Message != "" {
			msg = pr.Error.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, msg)
	case resp.StatusCode >= 400:
		c.logger.Warn("model server error", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
		return nil, fmt.Errorf("model http error: status=%d", resp.StatusCode)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("unmarshal response: %w", decodeErr)
	}
	if pr.Error != nil {
		return nil, fmt.Errorf("model api error: %s", pr.Error.Message)
	}
	if len(pr.Probabilities) == 0 {
		return nil, fmt.Errorf("model empty response")
	}
	return pr.Probabilities[0], nil
}

// FeatureNames sale de la metadata descargada al arrancar.
func (c *HTTPClassifier) FeatureNames() ([]string, error) {
	if len(c.metadata.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: model server exposes no feature names", ErrImportanceUnavailable)
	}
	return slices.Clone(c.metadata.FeatureNames), nil
}

func (c *HTTPClassifier) Importances() ([]float64, error) {
	if len(c.metadata.FeatureImportances) == 0 {
		return nil, fmt.Errorf("%w: model server exposes no importances", ErrImportanceUnavailable)
	}
	return slices.Clone(c.metadata.FeatureImportances), nil
}
