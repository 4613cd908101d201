// Package backend reads plans and contracts from the upstream portal backend
// services over HTTP.
package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ahamo-portal/portal/internal/config"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/httpclient"
	"github.com/ahamo-portal/portal/internal/logger"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const headerAPIKey = "X-API-Key"

// Client issues authenticated GET requests against the backend base URL.
type Client struct {
	http    httpclient.Client
	baseURL string
	apiKey  string
	logger  *logger.Logger
}

func NewClient(httpClient httpclient.Client, cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		apiKey:  cfg.Backend.APIKey,
		logger:  logger,
	}
}

// get fetches path and decodes the JSON body into out. A 404 is replaced by
// the error notFound builds so callers can mark it with the right domain error.
func (c *Client) get(ctx context.Context, path string, out interface{}, notFound func() error) error {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers[headerAPIKey] = c.apiKey
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     c.baseURL + path,
		Headers: headers,
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok && httpErr.StatusCode == http.StatusNotFound {
			return notFound()
		}
		c.logger.Errorw("backend request failed", "path", path, "error", err)
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return ierr.WithError(err).
			WithHint("The upstream service returned an unexpected response").
			WithReportableDetails(map[string]any{
				"path": path,
			}).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
