package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "tlharvest/pkg/errors"
	"tlharvest/pkg/logger"
)

// Client fetches user timeline pages
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a timeline client. httpClient should already sign
// requests, see NewHTTPClient.
func NewClient(httpClient *http.Client, baseURL string, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = BaseURL
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		headers: map[string]string{
			"User-Agent": "tlharvest/1.0",
			"Accept":     "application/json",
		},
		logger: log,
	}
}

// Page fetches one page of userID's timeline strictly older than cursor
// (zero for the newest page). Items are returned newest first.
// Every failure is an *errors.Error.
func (c *Client) Page(ctx context.Context, userID int64, cursor int64) ([]Item, error) {
	url := TimelineURL(c.baseURL, userID, cursor)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Err:     err,
		}
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	if err := c.checkResponseStatus(resp, body); err != nil {
		return nil, err
	}

	items, err := decodePage(body)
	if err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse timeline response", map[string]interface{}{
			"user_id":      userID,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	logger.LogPage(c.logger, userID, cursor, len(items))
	return items, nil
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Err:     err,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})
	return resp, nil
}

// checkResponseStatus turns a non-2xx response into a typed request failure
func (c *Client) checkResponseStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var envelope apiErrors
	_ = json.Unmarshal(body, &envelope)
	apiErr := errs.FromStatus(resp.StatusCode, envelope.message())

	c.logger.WarnWithFields("timeline API error", map[string]interface{}{
		"status": resp.StatusCode,
		"type":   string(apiErr.Type),
		"detail": apiErr.Message,
	})
	return apiErr
}
