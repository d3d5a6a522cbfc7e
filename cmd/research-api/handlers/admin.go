package handlers

import (
	"net/http"

	"github.com/politiktok/research-engine/internal/config"
	"github.com/politiktok/research-engine/internal/dataset"
	"github.com/politiktok/research-engine/internal/observability"
	"github.com/politiktok/research-engine/internal/queryengine"
)

// AdminHandler serves operational endpoints: dataset reload and cache
// invalidation.
type AdminHandler struct {
	logger  *observability.Logger
	loader  *dataset.Loader
	store   *dataset.Store
	engine  *queryengine.Engine
	dataCfg config.DataConfig
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(logger *observability.Logger, loader *dataset.Loader, store *dataset.Store, engine *queryengine.Engine, dataCfg config.DataConfig) *AdminHandler {
	return &AdminHandler{
		logger:  logger,
		loader:  loader,
		store:   store,
		engine:  engine,
		dataCfg: dataCfg,
	}
}

// ReloadResponseDTO reports the result of a dataset reload.
type ReloadResponseDTO struct {
	Status string         `json:"status"`
	Rows   map[string]int `json:"rows"`
}

// Reload handles POST /admin/reload. A complete new snapshot is loaded
// and swapped in; requests already running keep their old snapshot.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	fresh := h.loader.LoadAll(h.dataCfg)
	h.store.Replace(fresh)

	if err := h.engine.InvalidateCache(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("cache invalidation after reload failed")
	}

	rows := make(map[string]int, len(fresh))
	for name, t := range fresh {
		rows[string(name)] = t.Len()
	}

	h.logger.Info().Interface("rows", rows).Msg("datasets reloaded")
	writeJSON(w, http.StatusOK, ReloadResponseDTO{Status: "reloaded", Rows: rows})
}

// InvalidateCache handles POST /admin/cache/invalidate.
func (h *AdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.InvalidateCache(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "cache invalidation failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}
