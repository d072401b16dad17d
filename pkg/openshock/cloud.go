package openshock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultCloudURL = "https://api.openshock.app"
	CustomName      = "Shockbridge"
	TokenHeader     = "Open-Shock-Token"
)

type ControlRequest struct {
	Shocks     []Shock `json:"shocks"`
	CustomName string  `json:"customName,omitempty"`
}

type Shock struct {
	Id        string      `json:"id"`
	Type      ControlType `json:"type"`
	Intensity int         `json:"intensity"`
	Duration  int         `json:"duration"`
	Exclusive bool        `json:"exclusive"`
}

// APIError is returned for non 2xx answers of the control endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openshock api error: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

type CloudClient struct {
	baseURL   string
	token     string
	shockerId string
	http      *http.Client
	logger    *zap.Logger
}

func NewCloudClient(baseURL, token, shockerId string, timeout time.Duration, logger *zap.Logger) *CloudClient {
	if baseURL == "" {
		baseURL = DefaultCloudURL
	}
	return &CloudClient{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		token:     token,
		shockerId: shockerId,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Control sends one exclusive command to the configured shocker.
func (c *CloudClient) Control(ctx context.Context, controlType ControlType, intensity, durationMs int) error {
	body, err := json.Marshal(ControlRequest{
		Shocks: []Shock{{
			Id:        c.shockerId,
			Type:      controlType,
			Intensity: intensity,
			Duration:  durationMs,
			Exclusive: true,
		}},
		CustomName: CustomName,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/shockers/control", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("openshock control request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	c.logger.Debug("openshock cloud: ok", zap.String("type", string(controlType)),
		zap.Int("intensity", intensity), zap.Int("duration", durationMs))
	return nil
}
