package backend

import (
	"bytes"
	"context"
	"fmt"
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const historyPath = "/notifications/history"

type HistoryFetcherInterface interface {
	Fetch(ctx context.Context, after *time.Time) (models.History, error)
}

type HistoryFetcher struct {
	client  *Client
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewHistoryFetcher(client *Client, logger providers.Logger, metrics providers.MetricsProviderInterface) HistoryFetcherInterface {
	return &HistoryFetcher{client: client, logger: logger, metrics: metrics}
}

// Fetch returns the records the backend holds for this device, in server
// order. A nil after asks for the full history.
func (f *HistoryFetcher) Fetch(ctx context.Context, after *time.Time) (models.History, error) {
	start := time.Now()
	records, err := f.fetch(ctx, after)
	f.metrics.ObserveFetchDuration(time.Since(start))

	if err != nil {
		f.metrics.IncHistoryFetches(providers.OutcomeFailure)
		f.logger.Warnf(providers.TypeSync, "History fetch failed: %s", err)
		return nil, models.FetchFailed(err)
	}

	f.metrics.IncHistoryFetches(providers.OutcomeSuccess)
	f.logger.Infof(providers.TypeSync, "Fetched %d history items", len(records))
	return records, nil
}

func (f *HistoryFetcher) fetch(ctx context.Context, after *time.Time) (models.History, error) {
	query := url.Values{}
	query.Set("device", f.client.Device().String())
	if after != nil {
		query.Set("after", strconv.FormatFloat(models.EpochSeconds(*after), 'f', -1, 64))
	}

	resp, err := f.client.do(ctx, http.MethodGet, historyPath, query, nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d on GET %s", resp.status, historyPath)
	}

	body := bytes.TrimSpace(resp.body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return models.History{}, nil
	}

	var records models.History
	if err = json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	if records == nil {
		records = models.History{}
	}
	return records, nil
}
