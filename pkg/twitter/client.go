package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tweetpeek/pkg/errors"
	"tweetpeek/pkg/logger"
	"tweetpeek/pkg/models"
)

// Page is one page of search results
type Page struct {
	Posts []models.Post
	// Dropped counts API records rejected during schema validation
	Dropped int
	// NextToken is the cursor for the following page, empty on the last one
	NextToken string
}

// Client is a Twitter v2 recent-search API client
type Client struct {
	httpClient  *http.Client
	baseURL     string
	bearerToken string
	userAgent   string
	logger      logger.Logger
}

// NewClient creates a new API client. The bearer token must already be
// resolved; the client does not reach into the environment itself.
func NewClient(bearerToken, userAgent string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     BaseURL,
		bearerToken: bearerToken,
		userAgent:   userAgent,
		logger:      log,
	}
}

// SetBaseURL overrides the API base URL, used by tests
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Search fetches one page of recent posts matching the query. An empty
// nextToken starts from the newest results.
func (c *Client) Search(ctx context.Context, query models.Query, nextToken string) (*Page, error) {
	if c.bearerToken == "" {
		return nil, errors.New(errors.KindAuth, "no bearer token configured")
	}

	reqURL := searchURL(c.baseURL, query.Keyword, query.Lang, query.Since, query.Until, query.Limit, nextToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Newf(errors.KindUnknown, "building request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending search request", map[string]interface{}{
		"keyword":    query.Keyword,
		"next_token": nextToken,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Newf(errors.KindNetwork, "network error: %v", err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("search request completed", map[string]interface{}{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Newf(errors.KindInputFormat, "decoding search response: %v", err)
	}

	posts, droppedRecords := decoded.toPosts()
	if droppedRecords > 0 {
		c.logger.WarnWithFields("dropped malformed records from API response", map[string]interface{}{
			"dropped": droppedRecords,
		})
	}

	return &Page{
		Posts:     posts,
		Dropped:   droppedRecords,
		NextToken: decoded.Meta.NextToken,
	}, nil
}

// errorFromResponse maps a non-200 response to a typed error
func (c *Client) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	detail := ""
	var decoded struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil {
		detail = decoded.Detail
		if detail == "" {
			detail = decoded.Title
		}
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	kind := errors.KindFromStatusCode(resp.StatusCode)
	msg := fmt.Sprintf("search request failed: %s", detail)

	switch kind {
	case errors.KindAuth:
		msg = fmt.Sprintf("authentication rejected: %s", detail)
	case errors.KindRateLimit:
		msg = fmt.Sprintf("rate limited by API: %s", detail)
	}

	return errors.New(kind, msg).WithCode(resp.StatusCode)
}
