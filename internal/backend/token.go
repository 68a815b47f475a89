package backend

import (
	"context"
	"fmt"
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"net/http"
)

const updateTokenPath = "/apns/update-token"

type TokenSubmitterInterface interface {
	Submit(ctx context.Context, token string) error
}

type tokenRequest struct {
	Target string `json:"target"`
	Token  string `json:"token"`
}

type TokenSubmitter struct {
	client  *Client
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewTokenSubmitter(client *Client, logger providers.Logger, metrics providers.MetricsProviderInterface) TokenSubmitterInterface {
	return &TokenSubmitter{client: client, logger: logger, metrics: metrics}
}

// Submit sends the hex device token to the backend once. Only 204 counts as
// accepted.
func (s *TokenSubmitter) Submit(ctx context.Context, token string) error {
	body := tokenRequest{Target: s.client.Device().String(), Token: token}

	resp, err := s.client.do(ctx, http.MethodPatch, updateTokenPath, nil, body)
	if err == nil && resp.status != http.StatusNoContent {
		err = fmt.Errorf("unexpected status %d on PATCH %s", resp.status, updateTokenPath)
	}
	if err != nil {
		s.metrics.IncTokenSubmissions(providers.OutcomeFailure)
		return models.FetchFailed(err)
	}

	s.metrics.IncTokenSubmissions(providers.OutcomeSuccess)
	s.logger.Infof(providers.TypeRegistration, "Device token submitted for %s", body.Target)
	return nil
}
