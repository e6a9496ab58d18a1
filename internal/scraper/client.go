package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/unclebandit/mailpulse-backend/internal/metrics"
	"github.com/unclebandit/mailpulse-backend/internal/model"
)

// Fetcher returns the organisation profile behind a company page URL.
type Fetcher interface {
	FetchOrganization(ctx context.Context, profileURL string) (*model.Organization, error)
}

// ReportedError is a failure the scraping service described in its own
// response body. Its message is safe to show to callers; transport errors are not.
type ReportedError struct {
	Message string
}

func (e *ReportedError) Error() string {
	return e.Message
}

// Client talks to the scraping service's POST /scrape_linkedin_company endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) FetchOrganization(ctx context.Context, profileURL string) (org *model.Organization, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RecordUpstreamCall("scraper", status, time.Since(start))
	}()

	payload, err := json.Marshal(map[string]string{"url": profileURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/scrape_linkedin_company", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read scraper response: %w", err)
	}

	var out model.Organization
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("scraper returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode scraper response: %w", err)
	}
	if out.Error != "" {
		return nil, &ReportedError{Message: out.Error}
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scraper returned status %d", resp.StatusCode)
	}
	return &out, nil
}

var _ Fetcher = (*Client)(nil)
