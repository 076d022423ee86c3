package imageservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
)

// Client calls the external image-generation service that turns question
// text into an icon URL. Responses are not cached; singleflight only folds
// concurrent lookups for the same question into one upstream call.
type Client struct {
	baseURL string
	http    *http.Client
	sf      singleflight.Group
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) ResolveIcon(ctx context.Context, question string) (string, error) {
	v, err, _ := c.sf.Do(question, func() (interface{}, error) {
		return c.fetch(ctx, question)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) fetch(ctx context.Context, question string) (string, error) {
	endpoint := c.baseURL + "/image?question=" + url.QueryEscape(question)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image service status %d", resp.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	if out.URL == "" {
		return "", errors.New("image service returned no url")
	}
	return out.URL, nil
}
