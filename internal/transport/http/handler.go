package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sl0thC0der/yt-download-ng/internal/entity"
	"github.com/Sl0thC0der/yt-download-ng/internal/hub"
	"github.com/Sl0thC0der/yt-download-ng/internal/logbuf"
	"github.com/Sl0thC0der/yt-download-ng/internal/potoken"
	"github.com/Sl0thC0der/yt-download-ng/internal/profiles"
	"github.com/Sl0thC0der/yt-download-ng/internal/scheduler"
	"github.com/Sl0thC0der/yt-download-ng/internal/store"
	"github.com/Sl0thC0der/yt-download-ng/internal/sysinfo"
)

type Handler struct {
	sched    *scheduler.Scheduler
	store    *store.Store
	hub      *hub.Hub
	profiles *profiles.Service
	sup      *potoken.Supervisor
	logs     *logbuf.Buffer

	downloadDir string
	staticDir   string
}

func NewHandler(
	sched *scheduler.Scheduler,
	st *store.Store,
	h *hub.Hub,
	prof *profiles.Service,
	sup *potoken.Supervisor,
	logs *logbuf.Buffer,
	downloadDir, staticDir string,
) *Handler {
	return &Handler{
		sched:       sched,
		store:       st,
		hub:         h,
		profiles:    prof,
		sup:         sup,
		logs:        logs,
		downloadDir: downloadDir,
		staticDir:   staticDir,
	}
}

// Health godoc
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} apiResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "OK")
}

// ListProfiles godoc
// @Summary List quality profiles
// @Tags profiles
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/profiles [get]
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := h.profiles.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}
	writeData(w, http.StatusOK, names)
}

type downloadDTO struct {
	URL     string `json:"url"`
	Profile string `json:"profile"`
}

// StartDownload godoc
// @Summary Submit a download job
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body downloadDTO true "download request"
// @Success 201 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Router /api/download [post]
func (h *Handler) StartDownload(w http.ResponseWriter, r *http.Request) {
	var dto downloadDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	id, err := h.sched.Submit(dto.URL, dto.Profile)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, id)
}

// ListJobs godoc
// @Summary List all jobs
// @Tags jobs
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/jobs [get]
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.List())
}

// GetJob godoc
// @Summary Get job by id
// @Tags jobs
// @Produce json
// @Param id path string true "job id (uuid)"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/jobs/{id} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := h.store.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, job)
}

// CancelJob godoc
// @Summary Cancel a pending or running job
// @Tags jobs
// @Produce json
// @Param id path string true "job id (uuid)"
// @Success 200 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /api/jobs/{id}/cancel [post]
func (h *Handler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	if err := h.sched.Cancel(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, "cancellation requested")
}

// RetryJob godoc
// @Summary Retry a failed job
// @Tags jobs
// @Produce json
// @Param id path string true "job id (uuid)"
// @Success 201 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /api/jobs/{id}/retry [post]
func (h *Handler) RetryJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	newID, err := h.sched.Retry(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, newID)
}

// GetSettings godoc
// @Summary Current settings
// @Tags settings
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.sched.Settings())
}

// UpdateSettings godoc
// @Summary Update settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body entity.SettingsPatch true "partial settings"
// @Success 200 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Router /api/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch entity.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	settings, err := h.sched.UpdateSettings(patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, settings)
}

// ListFiles godoc
// @Summary List downloaded files
// @Tags files
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := listFiles(h.downloadDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list downloads")
		return
	}
	writeData(w, http.StatusOK, files)
}

// SystemLogs godoc
// @Summary Recent system log lines
// @Tags system
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/logs [get]
func (h *Handler) SystemLogs(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.logs.Lines())
}

// SystemStatus godoc
// @Summary Host disk/memory/CPU snapshot
// @Tags system
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/system/status [get]
func (h *Handler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := sysinfo.Collect(h.downloadDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to collect system status")
		return
	}
	writeData(w, http.StatusOK, snap)
}

// ServerStatus godoc
// @Summary PO token server status
// @Tags server
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/server/status [get]
func (h *Handler) ServerStatus(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.sup.Status(r.Context()))
}

// StartServer godoc
// @Summary Ensure the PO token server is running
// @Tags server
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/server/start [post]
func (h *Handler) StartServer(w http.ResponseWriter, r *http.Request) {
	if err := h.sup.EnsureStarted(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeData(w, http.StatusOK, "server started")
}
