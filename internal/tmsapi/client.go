// Package tmsapi talks to the TMS movies API.  Each call performs exactly
// one GET; there is no retry and no pagination.
package tmsapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	showingsEndpoint = "showings"
	airingsEndpoint  = "airings"
)

// Client fetches listing payloads from the upstream API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewClient builds a Client rooted at baseURL.  A nil httpc gets a client
// with the given timeout.
func NewClient(log zerolog.Logger, baseURL, apiKey string, timeout time.Duration, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpc:   httpc,
		log:     log.With().Str("module", "tmsapi").Logger(),
	}
}

// Showings returns movies playing in theatres near zip from startDate.
func (c *Client) Showings(ctx context.Context, zip, startDate string) ([]json.RawMessage, error) {
	return c.Get(ctx, showingsEndpoint, url.Values{
		"zip":       {zip},
		"startDate": {startDate},
	})
}

// Airings returns movies airing on lineupID from startDateTime.
func (c *Client) Airings(ctx context.Context, lineupID, startDateTime string) ([]json.RawMessage, error) {
	return c.Get(ctx, airingsEndpoint, url.Values{
		"lineupId":      {lineupID},
		"startDateTime": {startDateTime},
	})
}

// Get performs one GET against endpoint with query plus the API key.  A
// 200 response must hold a JSON array; each element is returned undecoded.
// Any other status yields an *UpstreamError.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) ([]json.RawMessage, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s response", endpoint)
	}

	c.log.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("upstream response")

	if resp.StatusCode != http.StatusOK {
		return nil, newUpstreamError(resp.StatusCode, body)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errors.Wrapf(ErrUnexpectedBody, "decode %s response: %v", endpoint, err)
	}
	return items, nil
}
