package controllers

import (
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"launchpad/internal/services"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const (
	cacheKeyHistory = "history"
	cacheKeyGroups  = "history:groups"
)

type ApiController struct {
	logger  providers.Logger
	service services.SyncServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.SyncServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type groupResponse struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	MonthKey time.Time      `json:"month_key"`
	Records  models.History `json:"records"`
}

type openRequest struct {
	Action   string         `json:"action"`
	UserInfo map[string]any `json:"user_info"`
}

type openResponse struct {
	URL string `json:"url"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetHistory(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, cacheKeyHistory, func() (any, error) {
		return ac.service.View(), nil
	})
}

func (ac *ApiController) GetGroups(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, cacheKeyGroups, func() (any, error) {
		groups := ac.service.Groups()
		out := make([]groupResponse, 0, len(groups))
		for _, g := range groups {
			out = append(out, groupResponse{
				ID:       g.ID.String(),
				Label:    g.Label(),
				MonthKey: g.MonthKey,
				Records:  g.Records,
			})
		}
		return out, nil
	})
}

// Foreground starts a sync cycle and returns without waiting for it.
func (ac *ApiController) Foreground(w http.ResponseWriter, r *http.Request) {
	ac.logger.Debugf(providers.TypePost, "Foreground transition requested")
	ac.service.Trigger()
	w.WriteHeader(http.StatusAccepted)
}

// OpenNotification resolves the URL a tapped notification should open.
func (ac *ApiController) OpenNotification(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Action == "" {
		req.Action = models.ActionDefault
	}

	url, ok := models.ResolveLaunchURL(req.Action, req.UserInfo)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, openResponse{URL: url})
}
