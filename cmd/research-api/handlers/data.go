package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/politiktok/research-engine/internal/dataset"
	"github.com/politiktok/research-engine/internal/observability"
	"github.com/politiktok/research-engine/internal/queryengine"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DataHandler serves direct dataset browsing endpoints.
type DataHandler struct {
	logger *observability.Logger
	store  *dataset.Store
	engine *queryengine.Engine
}

// NewDataHandler creates a data handler.
func NewDataHandler(logger *observability.Logger, store *dataset.Store, engine *queryengine.Engine) *DataHandler {
	return &DataHandler{logger: logger, store: store, engine: engine}
}

// PageDTO wraps a paginated listing.
type PageDTO struct {
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int           `json:"total"`
	Items    []dataset.Row `json:"items"`
}

// CreatorDTO is one account in the creators listing.
type CreatorDTO struct {
	Username       string  `json:"username"`
	Followers      float64 `json:"followers"`
	Perspective    string  `json:"perspective,omitempty"`
	Themes         string  `json:"themes,omitempty"`
	Videos         int     `json:"videos"`
	TotalViews     float64 `json:"totalViews"`
	EngagementRate float64 `json:"engagementRate"`
}

// CreatorsPageDTO wraps a paginated creators listing.
type CreatorsPageDTO struct {
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
	Total    int          `json:"total"`
	Items    []CreatorDTO `json:"items"`
}

// Summary handles GET /api/v1/data/summary.
func (h *DataHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.DataSummary())
}

// Creators handles GET /api/v1/data/creators. Accounts are sorted by
// follower count; engagement rate is total video views over followers.
func (h *DataHandler) Creators(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()
	accounts := snapshot.Get(dataset.Accounts)
	videos := snapshot.Get(dataset.Videos)

	viewsByUser := make(map[string]float64)
	videosByUser := make(map[string]int)
	for _, row := range videos.Rows {
		user := strings.ToLower(row[dataset.ColUsername])
		if user == "" {
			continue
		}
		viewsByUser[user] += dataset.SafeFloat(row[dataset.ColViews], 0)
		videosByUser[user]++
	}

	creators := make([]CreatorDTO, 0, accounts.Len())
	for _, row := range accounts.Rows {
		name := row[dataset.ColUsername]
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		followers := dataset.SafeFloat(row[dataset.ColFollowersNum], 0)

		c := CreatorDTO{
			Username:    name,
			Followers:   followers,
			Perspective: row[dataset.ColPerspective],
			Themes:      row[dataset.ColThemes],
			Videos:      videosByUser[key],
			TotalViews:  viewsByUser[key],
		}
		if followers > 0 {
			c.EngagementRate = c.TotalViews / followers
		}
		creators = append(creators, c)
	}

	sort.SliceStable(creators, func(i, j int) bool {
		return creators[i].Followers > creators[j].Followers
	})

	page, pageSize := pagination(r)
	total := len(creators)
	creators = paginate(creators, page, pageSize)

	writeJSON(w, http.StatusOK, CreatorsPageDTO{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    creators,
	})
}

// Videos handles GET /api/v1/data/videos, sorted by views descending.
func (h *DataHandler) Videos(w http.ResponseWriter, r *http.Request) {
	videos := h.store.Snapshot().Get(dataset.Videos)

	rows := make([]dataset.Row, len(videos.Rows))
	copy(rows, videos.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return dataset.SafeFloat(rows[i][dataset.ColViews], 0) > dataset.SafeFloat(rows[j][dataset.ColViews], 0)
	})

	page, pageSize := pagination(r)
	total := len(rows)
	rows = paginate(rows, page, pageSize)

	writeJSON(w, http.StatusOK, PageDTO{Page: page, PageSize: pageSize, Total: total, Items: rows})
}

// Words handles GET /api/v1/data/words with an optional ?sentiment filter
// (-1, 0, or 1).
func (h *DataHandler) Words(w http.ResponseWriter, r *http.Request) {
	words := h.store.Snapshot().Get(dataset.Words)

	rows := words.Rows
	if s := r.URL.Query().Get("sentiment"); s != "" {
		want, err := strconv.Atoi(s)
		if err != nil || want < -1 || want > 1 {
			writeError(w, http.StatusBadRequest, "sentiment must be -1, 0 or 1", "")
			return
		}
		filtered := words.Filter(func(row dataset.Row) bool {
			return dataset.SafeInt(row[dataset.ColSentiment], 0) == want
		})
		rows = filtered.Rows
	}

	page, pageSize := pagination(r)
	total := len(rows)
	rows = paginate(rows, page, pageSize)

	writeJSON(w, http.StatusOK, PageDTO{Page: page, PageSize: pageSize, Total: total, Items: rows})
}

// pagination reads page and pageSize query parameters with defaults.
func pagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && v > 0 {
		pageSize = v
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}

// paginate slices one page out of items.
func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
