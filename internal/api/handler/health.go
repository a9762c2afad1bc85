package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/iconidentify/clipgrab/internal/repository"
	"github.com/iconidentify/clipgrab/internal/service"
)

var startTime = time.Now()

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	settings repository.SettingsRepository
	dataDir  string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(settings repository.SettingsRepository, dataDir string) *HealthHandler {
	return &HealthHandler{
		settings: settings,
		dataDir:  dataDir,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Live handles GET /health - liveness probe.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready - readiness probe.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.settings.Ping(ctx); err != nil {
		status, code = "error", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SystemStats contains process and storage statistics.
type SystemStats struct {
	Uptime        int64  `json:"uptime_seconds"`
	UptimeHuman   string `json:"uptime_human"`
	MemAllocMB    int64  `json:"mem_alloc_mb"`
	MemSysMB      int64  `json:"mem_sys_mb"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	DiskFreeBytes int64  `json:"disk_free_bytes"`
	DataDir       string `json:"data_dir"`
}

// Stats handles GET /api/v1/stats
func (h *HealthHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(startTime)

	writeJSON(w, http.StatusOK, SystemStats{
		Uptime:        int64(uptime.Seconds()),
		UptimeHuman:   formatUptime(uptime),
		MemAllocMB:    int64(m.Alloc / 1024 / 1024),
		MemSysMB:      int64(m.Sys / 1024 / 1024),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		DiskFreeBytes: service.FreeDiskSpace(h.dataDir),
		DataDir:       h.dataDir,
	})
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
