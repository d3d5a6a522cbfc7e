// Package handlers provides HTTP handlers for the research engine API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/politiktok/research-engine/internal/observability"
	"github.com/politiktok/research-engine/internal/queryengine"
)

// QueryHandler serves the query pipeline endpoint.
type QueryHandler struct {
	logger *observability.Logger
	engine *queryengine.Engine
}

// NewQueryHandler creates a query handler.
func NewQueryHandler(logger *observability.Logger, engine *queryengine.Engine) *QueryHandler {
	return &QueryHandler{logger: logger, engine: engine}
}

// QueryRequestDTO is the API request for a question.
type QueryRequestDTO struct {
	Query             string `json:"query"`
	VisualizationType string `json:"visualizationType,omitempty"`
}

// QueryResponseDTO is the API response for a question.
type QueryResponseDTO struct {
	RequestID string                        `json:"requestId"`
	Type      string                        `json:"type"`
	Payload   queryengine.Payload           `json:"payload"`
	Term      string                        `json:"term,omitempty"`
	Usernames []string                      `json:"usernames,omitempty"`
	Relevance []queryengine.RelevanceScore  `json:"relevance,omitempty"`
	Cached    bool                          `json:"cached"`
	LatencyMs int64                         `json:"latencyMs"`
}

// Query handles POST /api/v1/query.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var reqDTO QueryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if reqDTO.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required", "")
		return
	}

	resp := h.engine.Query(r.Context(), queryengine.Request{
		Query:         reqDTO.Query,
		RequestedType: reqDTO.VisualizationType,
	})

	// no_data payloads are valid answers, not errors; they ship with 200.
	writeJSON(w, http.StatusOK, QueryResponseDTO{
		RequestID: resp.RequestID,
		Type:      string(resp.Payload.Type),
		Payload:   resp.Payload,
		Term:      resp.Term,
		Usernames: resp.Usernames,
		Relevance: resp.Relevance,
		Cached:    resp.Cached,
		LatencyMs: resp.LatencyMS,
	})
}

// errorDTO is the shared error envelope.
type errorDTO struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorDTO{Error: message, Detail: detail})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
