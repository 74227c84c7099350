package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"

	"cashflow/src/utils"
)

// ExternalAPIService is a small JSON HTTP client shared by the market data
// providers. Transient failures (network errors, 5xx, 429) are retried with a
// constant backoff before giving up.
type ExternalAPIService struct {
	BaseURL string
	Client  *http.Client

	maxRetries uint64
	backoff    time.Duration
}

// NewExternalAPIService creates a client rooted at baseURL.
func NewExternalAPIService(baseURL string) *ExternalAPIService {
	return &ExternalAPIService{
		BaseURL:    baseURL,
		Client:     &http.Client{Timeout: 8 * time.Second},
		maxRetries: 2,
		backoff:    500 * time.Millisecond,
	}
}

func (s *ExternalAPIService) makeRequest(ctx context.Context, method, path string, params url.Values, body interface{}) (*http.Response, error) {
	endpoint := s.BaseURL + path
	if params != nil {
		endpoint = endpoint + "?" + params.Encode()
	}

	var jsonBody []byte
	var err error
	if body != nil {
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	var resp *http.Response
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewConstant(s.backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(jsonBody))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = s.Client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return retry.RetryableError(fmt.Errorf("upstream returned %s", resp.Status))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get makes a GET request and returns the raw response.
func (s *ExternalAPIService) Get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodGet, path, params, nil)
}

// GetJSON makes a GET request and decodes the JSON response into out.
func (s *ExternalAPIService) GetJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	resp, err := s.Get(ctx, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return utils.NewHTTPError(resp.StatusCode, resp.Status)
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(responseBody, out)
}

// Post makes a POST request with a JSON body.
func (s *ExternalAPIService) Post(ctx context.Context, path string, params url.Values, body interface{}) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodPost, path, params, body)
}
