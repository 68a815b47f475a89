package controllers

import (
	"context"
	"encoding/json"
	"launchpad/internal/models"
	"launchpad/internal/services"
	"launchpad/internal/testutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type mockService struct {
	view     services.HistoryView
	triggers int
}

func (m *mockService) Foreground(_ context.Context)  {}
func (m *mockService) Trigger()                      { m.triggers++ }
func (m *mockService) History() models.History       { return m.view.Records }
func (m *mockService) Groups() []models.HistoryGroup { return m.view.Groups }
func (m *mockService) Caption() string               { return m.view.Caption }
func (m *mockService) Attempted() bool               { return m.view.Attempted }
func (m *mockService) View() services.HistoryView    { return m.view }
func (m *mockService) Close()                        {}
func (m *mockService) Subscribe() (<-chan services.HistoryView, func()) {
	ch := make(chan services.HistoryView)
	return ch, func() {}
}

// --- helpers ---

func sampleView() services.HistoryView {
	records := models.History{
		{ID: "b", Topic: "X", Posted: time.Date(2024, 2, 10, 12, 0, 0, 0, time.Local), Payload: models.Payload{Title: "B", Body: "b"}},
		{ID: "a", Topic: "X", Posted: time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local), Payload: models.Payload{Title: "A", Body: "a"}},
	}
	return services.HistoryView{
		Attempted: true,
		Caption:   "Last notification posted 3 minutes ago",
		Records:   records,
		Groups:    models.GroupByMonth(records),
	}
}

func newTestController(svc *mockService, cache *testutil.MockCache) *ApiController {
	return NewApiController(&testutil.MockLogger{}, svc, cache)
}

// --- GetHistory tests ---

func TestGetHistory_ReturnsView(t *testing.T) {
	svc := &mockService{view: sampleView()}
	ac := newTestController(svc, testutil.NewMockCache())

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rr := httptest.NewRecorder()
	ac.GetHistory(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp struct {
		Attempted bool              `json:"attempted"`
		Caption   string            `json:"caption"`
		Records   []json.RawMessage `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Attempted)
	assert.Equal(t, "Last notification posted 3 minutes ago", resp.Caption)
	assert.Len(t, resp.Records, 2)
	assert.NotContains(t, rr.Body.String(), "Groups")
}

func TestGetHistory_EmptyRecordsIsArray(t *testing.T) {
	svc := &mockService{view: services.HistoryView{Records: models.History{}}}
	ac := newTestController(svc, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetHistory(rr, httptest.NewRequest(http.MethodGet, "/history", nil))

	assert.Contains(t, rr.Body.String(), `"records":[]`)
	assert.Contains(t, rr.Body.String(), `"attempted":false`)
}

func TestGetHistory_ServedFromCache(t *testing.T) {
	cache := testutil.NewMockCache()
	cache.Set(cacheKeyHistory, []byte(`{"cached":true}`))
	ac := newTestController(&mockService{view: sampleView()}, cache)

	rr := httptest.NewRecorder()
	ac.GetHistory(rr, httptest.NewRequest(http.MethodGet, "/history", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"cached":true}`, rr.Body.String())
}

func TestGetHistory_PopulatesCache(t *testing.T) {
	cache := testutil.NewMockCache()
	ac := newTestController(&mockService{view: sampleView()}, cache)

	rr := httptest.NewRecorder()
	ac.GetHistory(rr, httptest.NewRequest(http.MethodGet, "/history", nil))

	cached, ok := cache.Get(cacheKeyHistory)
	require.True(t, ok)
	assert.Equal(t, rr.Body.Bytes(), cached)
}

// --- GetGroups tests ---

func TestGetGroups_LabelsAndOrder(t *testing.T) {
	ac := newTestController(&mockService{view: sampleView()}, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetGroups(rr, httptest.NewRequest(http.MethodGet, "/history/groups", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []struct {
		ID      string            `json:"id"`
		Label   string            `json:"label"`
		Records []json.RawMessage `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "February 2024", resp[0].Label)
	assert.Equal(t, "January 2024", resp[1].Label)
	assert.NotEmpty(t, resp[0].ID)
	assert.Len(t, resp[1].Records, 1)
}

func TestGetGroups_Empty(t *testing.T) {
	ac := newTestController(&mockService{}, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetGroups(rr, httptest.NewRequest(http.MethodGet, "/history/groups", nil))

	assert.Equal(t, "[]", rr.Body.String())
}

// --- Foreground tests ---

func TestForeground_TriggersCycle(t *testing.T) {
	svc := &mockService{}
	ac := newTestController(svc, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.Foreground(rr, httptest.NewRequest(http.MethodPost, "/foreground", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, 1, svc.triggers)
}

// --- OpenNotification tests ---

func TestOpenNotification_ResolvesURL(t *testing.T) {
	ac := newTestController(&mockService{}, testutil.NewMockCache())
	body := `{"user_info":{"aps":{"category":"URL_NOTIFICATION"},"launch_url":"https://example.com/x"}}`

	rr := httptest.NewRecorder()
	ac.OpenNotification(rr, httptest.NewRequest(http.MethodPost, "/notifications/open", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"url":"https://example.com/x"}`, rr.Body.String())
}

func TestOpenNotification_NoURL(t *testing.T) {
	ac := newTestController(&mockService{}, testutil.NewMockCache())
	body := `{"action":"DISMISS","user_info":{"aps":{"category":"URL_NOTIFICATION"},"launch_url":"https://example.com/x"}}`

	rr := httptest.NewRecorder()
	ac.OpenNotification(rr, httptest.NewRequest(http.MethodPost, "/notifications/open", strings.NewReader(body)))

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestOpenNotification_BadBody(t *testing.T) {
	ac := newTestController(&mockService{}, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.OpenNotification(rr, httptest.NewRequest(http.MethodPost, "/notifications/open", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
