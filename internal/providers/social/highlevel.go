// Package social publishes posts through a HighLevel-style social media API.
package social

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

	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("social: api key is required")

// Options configures the HighLevel client.
type Options struct {
	APIKey         string
	BaseURL        string
	APIVersion     string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the HighLevel social posting API.
type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *infra.Logger
}

// PublishRequest captures the inputs for one upstream post.
type PublishRequest struct {
	LocationID string
	Caption    string
	MediaURLs  []string
	Platforms  []string
	ScheduleAt *time.Time
}

// PublishResult is the normalized upstream response.
type PublishResult struct {
	ExternalID string
	Status     string
}

type publishPayload struct {
	Type         string         `json:"type"`
	Summary      string         `json:"summary"`
	AccountIDs   []string       `json:"accountIds,omitempty"`
	Media        []publishMedia `json:"media,omitempty"`
	Status       string         `json:"status,omitempty"`
	ScheduleDate string         `json:"scheduleDate,omitempty"`
}

type publishMedia struct {
	URL string `json:"url"`
}

type publishResponse struct {
	ID   string `json:"id"`
	Post struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"post"`
	Status string `json:"status"`
}

type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://services.leadconnectorhq.com"
	}
	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "2021-07-28"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Publish creates one post at the business's location. When ScheduleAt is
// set, the upstream schedules the post instead of publishing immediately.
func (c *Client) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	locationID := strings.TrimSpace(req.LocationID)
	if locationID == "" {
		return nil, errors.New("social: location id is required")
	}
	if strings.TrimSpace(req.Caption) == "" {
		return nil, errors.New("social: caption is required")
	}

	payload := publishPayload{
		Type:       "post",
		Summary:    req.Caption,
		AccountIDs: req.Platforms,
	}
	for _, mediaURL := range req.MediaURLs {
		if strings.TrimSpace(mediaURL) == "" {
			continue
		}
		payload.Media = append(payload.Media, publishMedia{URL: mediaURL})
	}
	if req.ScheduleAt != nil {
		payload.Status = "scheduled"
		payload.ScheduleDate = req.ScheduleAt.UTC().Format(time.RFC3339)
	} else {
		payload.Status = "published"
	}

	endpoint := fmt.Sprintf("%s/social-media-posting/%s/posts", c.baseURL, url.PathEscape(locationID))
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("social: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("social: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Version", c.apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("social: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("social: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
			return nil, fmt.Errorf("social: %s (status %d)", detail.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("social: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded publishResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("social: decode response: %w", err)
	}
	externalID := firstNonEmpty(decoded.Post.ID, decoded.ID)
	if externalID == "" {
		return nil, errors.New("social: response missing post id")
	}
	status := firstNonEmpty(decoded.Post.Status, decoded.Status, payload.Status)

	c.logger.Debug().
		Str("location_id", locationID).
		Str("external_id", externalID).
		Str("status", status).
		Msg("social: post accepted")

	return &PublishResult{ExternalID: externalID, Status: status}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
