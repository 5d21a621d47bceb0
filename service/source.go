package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kenil818282/caratbridge-secret-finder1/config"
)

// ErrSourceNotConfigured is returned when no actor token is set. A scan
// cannot run without it.
var ErrSourceNotConfigured = errors.New("post source token not configured")

// PostSource abstracts the hosted scraping actor so the scanner can be
// tested against a fake.
type PostSource interface {
	Configured() bool
	FetchPosts(ctx context.Context, tag string, limit int) ([]PostItem, error)
}

// ApifyClient calls the hosted hashtag-scraper actor synchronously and
// returns its dataset items.
type ApifyClient struct {
	config     *config.ApifyConfig
	httpClient *http.Client
}

func NewApifyClient(cfg *config.ApifyConfig) *ApifyClient {
	return &ApifyClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Configured reports whether an actor token is available
func (c *ApifyClient) Configured() bool {
	return c.config.Token != ""
}

type hashtagRunInput struct {
	Hashtags     []string `json:"hashtags"`
	ResultsLimit int      `json:"resultsLimit"`
	ResultsType  string   `json:"resultsType"`
}

// FetchPosts runs the actor for one hashtag and decodes the returned items
func (c *ApifyClient) FetchPosts(ctx context.Context, tag string, limit int) ([]PostItem, error) {
	if c.config.Token == "" {
		return nil, ErrSourceNotConfigured
	}

	input := hashtagRunInput{
		Hashtags:     []string{tag},
		ResultsLimit: limit,
		ResultsType:  "posts",
	}

	jsonData, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		strings.TrimRight(c.config.BaseURL, "/"), c.config.Actor, url.QueryEscape(c.config.Token))

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("actor run failed with status %d: %s", resp.StatusCode, string(body))
	}

	var items []PostItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	return items, nil
}
