package controllers

import (
	"fmt"
	"launchpad/internal/registration"
	"launchpad/internal/services"
	"net/http"
	"time"
)

type HealthController struct {
	service   services.SyncServiceInterface
	tracker   registration.TrackerInterface
	startTime time.Time
}

type healthResponse struct {
	Status         string  `json:"status"`
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Attempted      bool    `json:"attempted"`
	HistoryRecords int     `json:"history_records"`
	Registration   string  `json:"registration"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  uptime.Seconds(),
		Attempted:      hc.service.Attempted(),
		HistoryRecords: len(hc.service.History()),
		Registration:   hc.tracker.Snapshot().Status(),
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.SyncServiceInterface, tracker registration.TrackerInterface) *HealthController {
	return &HealthController{
		service:   service,
		tracker:   tracker,
		startTime: time.Now(),
	}
}
