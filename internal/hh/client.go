// Package hh implements the hh.ru vacancies API client: one page per call,
// with request pacing and typed failures the collection engine can classify.
package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hhscout/collector-service/internal/interval"
	"hhscout/collector-service/internal/model"
)

const (
	// DefaultBaseURL is the production hh.ru search endpoint.
	DefaultBaseURL = "https://api.hh.ru/vacancies"

	// DefaultRequestDelay spaces consecutive requests to respect provider
	// rate limits even when no 403 arrives.
	DefaultRequestDelay = 250 * time.Millisecond

	pageSize        = 100
	httpTimeout     = 10 * time.Second
	userAgent       = "hhscout-collector/1.0"
	queryTimeLayout = "2006-01-02T15:04:05" // hh.ru accepts ISO8601 without zone
	maxBodySnippet  = 512
)

// Client fetches vacancy pages from the hh.ru API. A shared rate limiter
// paces every request the client makes, across intervals and runs.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient constructs a Client with a shared HTTP client and request pacing.
func NewClient(baseURL string, requestDelay time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestDelay <= 0 {
		requestDelay = DefaultRequestDelay
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
		limiter: rate.NewLimiter(rate.Every(requestDelay), 1),
		log:     log.Named("hh"),
	}
}

// searchResponse mirrors the top-level hh.ru search JSON.
type searchResponse struct {
	Items []model.Vacancy `json:"items"`
	Found int             `json:"found"`
	Pages int             `json:"pages"`
	Page  int             `json:"page"`
}

// FetchPage retrieves one page of results for one interval. has-more is
// derived from the provider's total page count against the requested index.
// Failures are classified: 403 → ErrRateLimited, other non-2xx or a
// malformed payload → *ProtocolError, transport failures are returned
// wrapped and are the caller's network-error case.
func (c *Client) FetchPage(ctx context.Context, req model.SearchRequest, iv interval.Interval, page int) ([]model.Vacancy, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("request pacing: %w", err)
	}

	params := url.Values{}
	params.Set("text", req.Query)
	params.Set("area", req.AreaID)
	params.Set("date_from", iv.Start.Format(queryTimeLayout))
	params.Set("date_to", iv.End.Format(queryTimeLayout))
	params.Set("per_page", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(page))

	reqURL := c.baseURL + "?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, false, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode == http.StatusForbidden {
		return nil, false, ErrRateLimited
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, false, &ProtocolError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false, &ProtocolError{StatusCode: resp.StatusCode, Body: fmt.Sprintf("malformed response: %v", err)}
	}

	hasMore := page < parsed.Pages-1
	c.log.Debug("page fetched",
		zap.String("query", req.Query),
		zap.Int("page", page),
		zap.Int("items", len(parsed.Items)),
		zap.Bool("has_more", hasMore),
	)
	return parsed.Items, hasMore, nil
}

func snippet(body []byte) string {
	if len(body) > maxBodySnippet {
		return string(body[:maxBodySnippet]) + "…"
	}
	return string(body)
}
