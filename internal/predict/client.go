package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the remote intent-model API. Both calls are fallible;
// the caller decides which failures are fatal.
type Client struct {
	baseURL string
	client  *http.Client
	retries int
	backoff time.Duration
}

func NewClient(baseURL string, timeout time.Duration, retries int, backoff time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	if backoff == 0 {
		backoff = 300 * time.Millisecond
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		retries: retries,
		backoff: backoff,
	}
}

// FetchInitData retrieves localized wizard strings and the trigger-phrase
// list. The response shape is validated per language by the caller.
func (c *Client) FetchInitData(ctx context.Context) (*InitData, error) {
	var out InitData
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/wizard/init", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchPredictions runs the intent model against the query.
func (c *Client) FetchPredictions(ctx context.Context, query string) (*PredictionsResponse, error) {
	var out PredictionsResponse
	body := map[string]string{"query": query}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/wizard/predictions", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body any, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	var lastErr error
	tries := c.retries + 1
	for attempt := 0; attempt < tries; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err
		} else {
			// read response body (best-effort) to include in error
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			lastErr = errors.New(resp.Status + ": " + string(b))
		}

		if attempt < tries-1 {
			select {
			case <-time.After(c.backoff * time.Duration(1<<attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
