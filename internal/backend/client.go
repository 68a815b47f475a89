package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"launchpad/internal/structures"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// Client talks to the notification backend. Every request carries the
// shared-secret Authorization header.
type Client struct {
	baseURL    string
	secret     string
	device     models.DeviceClass
	httpClient *http.Client
	logger     providers.Logger
}

func NewClient(conf *structures.Config, credentials providers.CredentialProviderInterface, logger providers.Logger) (*Client, error) {
	device, err := models.ParseDeviceClass(conf.Backend.Device)
	if err != nil {
		return nil, err
	}

	secret, err := providers.BackendSecret(conf, credentials)
	if err != nil {
		// Requests still go out and fail as unauthorized.
		logger.Warnf(providers.TypeApp, "Backend secret unavailable: %s", err)
	}

	return &Client{
		baseURL:    strings.TrimRight(conf.Backend.Url, "/"),
		secret:     secret,
		device:     device,
		httpClient: &http.Client{Timeout: conf.Backend.Timeout},
		logger:     logger,
	}, nil
}

func (c *Client) Device() models.DeviceClass {
	return c.device
}

type response struct {
	status int
	body   []byte
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debugf(providers.TypeSync, "%s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(respBody))
	return &response{status: resp.StatusCode, body: respBody}, nil
}
