package categorizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expense-ledger-go/internal/models"

	"go.uber.org/zap"
)

// DefaultConfidenceThreshold is the lowest confidence accepted without
// asking the user to confirm the category.
const DefaultConfidenceThreshold = 0.60

// Prediction is a classifier suggestion. Category is nil when the classifier
// had nothing to offer.
type Prediction struct {
	Category   *string
	Confidence *float64
}

// Predictor suggests a category for free text. Implementations never fail:
// an unavailable classifier yields an empty Prediction.
type Predictor interface {
	Predict(ctx context.Context, text string) Prediction
}

// NeedsConfirmation reports whether the user should confirm or pick the
// category instead of accepting the suggestion as-is.
func NeedsConfirmation(p Prediction, threshold float64) bool {
	if p.Category == nil || p.Confidence == nil {
		return true
	}
	return *p.Confidence < threshold
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	PredictedCategory *string  `json:"predicted_category"`
	Confidence        *float64 `json:"confidence"`
}

// HTTPClient calls the AI categorization service.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

var _ Predictor = (*HTTPClient)(nil)

func NewHTTPClient(cfg models.CategorizerConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		endpoint: strings.TrimRight(cfg.ServiceURL, "/") + "/predict_category",
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Predict(ctx context.Context, text string) Prediction {
	if strings.TrimSpace(text) == "" {
		zero := 0.0
		return Prediction{Confidence: &zero}
	}

	p, err := c.predict(ctx, text)
	if err != nil {
		zap.L().Error("AI categorization failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return Prediction{}
	}

	zap.L().Info("AI categorization result",
		zap.String("category", *p.Category),
		zap.Float64("confidence", *p.Confidence))
	return p
}

func (c *HTTPClient) predict(ctx context.Context, text string) (Prediction, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return Prediction{}, fmt.Errorf("unable to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Prediction{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Prediction{}, fmt.Errorf("unable to decode response: %w", err)
	}
	if out.PredictedCategory == nil || out.Confidence == nil {
		return Prediction{}, fmt.Errorf("response missing predicted_category or confidence")
	}

	category := strings.TrimSpace(*out.PredictedCategory)
	if category == "" {
		return Prediction{}, fmt.Errorf("response has blank predicted_category")
	}
	return Prediction{Category: &category, Confidence: out.Confidence}, nil
}
