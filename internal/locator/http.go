package locator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"faculty-locator-backend/config"
)

// HTTPSource asks an upstream locator service where a member is. Each lookup
// is a single request; failures are returned to the caller without retry.
type HTTPSource struct {
	cfg    config.LocationHTTP
	client *http.Client
}

// NewHTTPSource creates a locator client for the configured endpoint.
func NewHTTPSource(cfg config.LocationHTTP) *HTTPSource {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Locator will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPSource{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// ResolveLocation fetches the member's current location from the upstream service.
func (s *HTTPSource) ResolveLocation(ctx context.Context, facultyID string) (string, error) {
	jsonBody, err := json.Marshal(apiRequest{FacultyID: facultyID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range s.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp ApiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal api response: %w", err)
	}

	if apiResp.Code != 0 {
		return "", fmt.Errorf("locator returned non-zero application code %d: %s", apiResp.Code, apiResp.Message)
	}
	if apiResp.Data.Location == "" {
		return "", fmt.Errorf("locator has no location for faculty %s", facultyID)
	}

	return apiResp.Data.Location, nil
}
