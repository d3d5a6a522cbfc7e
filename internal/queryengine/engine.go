package queryengine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/politiktok/research-engine/internal/cache"
	"github.com/politiktok/research-engine/internal/config"
	"github.com/politiktok/research-engine/internal/dataset"
	"github.com/politiktok/research-engine/internal/observability"
)

// Sentinel errors for the pipeline outcomes the caller may branch on.
var (
	ErrNoTermExtracted = errors.New("no usable term in query")
	ErrNoRelevantData  = errors.New("no rows matched the term")
)

// Request is one query into the engine.
type Request struct {
	Query         string
	RequestedType string
}

// Response is the engine's answer: the payload plus the per-stage
// artifacts callers may want to expose.
type Response struct {
	RequestID string           `json:"request_id"`
	Payload   Payload          `json:"payload"`
	Term      string           `json:"term,omitempty"`
	Usernames []string         `json:"usernames,omitempty"`
	Relevance []RelevanceScore `json:"relevance,omitempty"`
	Cached    bool             `json:"cached"`
	LatencyMS int64            `json:"latency_ms"`
}

// Engine wires the pipeline stages together over a dataset store and an
// optional response cache. Per-request artifacts are created fresh; the
// snapshot taken at the start of a request is used throughout it.
type Engine struct {
	store     *dataset.Store
	cache     cache.Client
	extractor *TermExtractor
	scorer    *RelevanceScorer
	filter    *CrossDatasetFilter
	selector  *IntentSelector
	summary   *SummaryBuilder
	logger    *observability.Logger
	cfg       config.QueryConfig
	cacheTTL  time.Duration
}

// NewEngine constructs the engine and its stages from configuration.
// cacheClient may be nil to disable response caching.
func NewEngine(store *dataset.Store, cacheClient cache.Client, cfg config.QueryConfig, cacheTTL time.Duration, logger *observability.Logger) *Engine {
	if logger == nil {
		logger = observability.Nop()
	}
	vocab := DefaultVocabulary()

	return &Engine{
		store:     store,
		cache:     cacheClient,
		extractor: NewTermExtractor(vocab),
		scorer:    NewRelevanceScorer(vocab, cfg.UniformFallback),
		filter:    NewCrossDatasetFilter(vocab),
		selector:  NewIntentSelector(vocab, cfg.IntentThreshold),
		summary:   NewSummaryBuilder(vocab, cfg.TopAccountsLimit, cfg.MaxSentimentRows),
		logger:    logger.WithComponent("query_engine"),
		cfg:       cfg,
		cacheTTL:  cacheTTL,
	}
}

// Query runs the full pipeline for one request. It never returns an error:
// unexpected stage failures are recovered into a structured error payload
// so the transport layer always has something to render.
func (e *Engine) Query(ctx context.Context, req Request) (resp Response) {
	start := time.Now()
	resp.RequestID = uuid.NewString()
	log := e.logger.WithContext(ctx).With().Str("query_id", resp.RequestID).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("query", req.Query).
				Interface("panic", r).
				Msg("query pipeline failed")
			resp.Payload = internalErrorPayload(fmt.Errorf("internal error: %v", r))
		}
		resp.LatencyMS = time.Since(start).Milliseconds()
	}()

	query := strings.TrimSpace(req.Query)

	if e.cfg.CacheResults && e.cache != nil {
		if cached, ok := e.cacheLookup(ctx, query, req.RequestedType); ok {
			cached.RequestID = resp.RequestID
			cached.Cached = true
			cached.LatencyMS = time.Since(start).Milliseconds()
			log.Debug().Str("query", query).Msg("cache hit")
			return cached
		}
	}

	snapshot := e.store.Snapshot()

	candidates := e.extractor.Extract(query)
	resp.Term = candidates.Term
	resp.Usernames = candidates.Usernames

	resp.Relevance = e.scorer.Score(query, snapshot)

	// Without a term or a username there is nothing to narrow or focus
	// on; answer with guidance instead of scanning tables.
	if !candidates.HasTerm() && len(candidates.Usernames) == 0 {
		log.Warn().Str("query", query).Err(ErrNoTermExtracted).Msg("no term extracted")
		resp.Payload = noTermPayload()
		return resp
	}

	result := e.filter.Apply(snapshot, candidates.Term)

	// A specific term that narrowed nothing means the term is absent
	// from the data. Say so explicitly rather than relabeling the full
	// dataset as a filtered view.
	if result.Applied && !result.Narrowed() && e.specific(candidates.Term) {
		log.Warn().
			Str("query", query).
			Str("term", candidates.Term).
			Bool("fell_back", result.FellBack).
			Err(ErrNoRelevantData).
			Msg("term matched no rows")
		resp.Payload = noMatchPayload(candidates.Term)
		info := result.Info()
		resp.Payload.FilterInfo = &info
		return resp
	}

	intent := e.selector.Select(query, req.RequestedType, candidates)

	resp.Payload = e.summary.Build(result.Datasets, intent, candidates, query)

	if result.Narrowed() {
		info := result.Info()
		resp.Payload.FilterInfo = &info
		if resp.Payload.Title != "" {
			resp.Payload.Title += fmt.Sprintf(" - Filtrado: '%s'", result.Term)
		}
	}

	log.Info().
		Str("query", query).
		Str("term", candidates.Term).
		Str("intent", string(intent)).
		Int("original_rows", result.Original).
		Int("filtered_rows", result.Filtered).
		Dur("latency", time.Since(start)).
		Msg("query answered")

	if e.cfg.CacheResults && e.cache != nil && resp.Payload.Type != IntentNoData && resp.Payload.Error == "" {
		e.cacheStore(ctx, query, req.RequestedType, resp)
	}

	return resp
}

// DataSummary exposes the per-dataset overview over the current snapshot.
func (e *Engine) DataSummary() DataSummary {
	return e.summary.DatasetSummaries(e.store.Snapshot())
}

// specific reports whether a term is concrete enough that an unnarrowed
// result should be treated as "not found" instead of shown as-is.
func (e *Engine) specific(term string) bool {
	if len([]rune(term)) <= 3 {
		return false
	}
	return !e.filter.Generic(term)
}

// InvalidateCache drops all cached responses, e.g. after a dataset reload.
func (e *Engine) InvalidateCache(ctx context.Context) error {
	if e.cache == nil {
		return nil
	}
	return e.cache.DeleteByPrefix(ctx, "query:")
}

// cacheKey hashes the request parts into a stable key.
func cacheKey(query, requestedType string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(query) + "|" + requestedType))
	return cache.CacheKey("query", hex.EncodeToString(sum[:]))
}

func (e *Engine) cacheLookup(ctx context.Context, query, requestedType string) (Response, bool) {
	data, err := e.cache.Get(ctx, cacheKey(query, requestedType))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			e.logger.Warn().Err(err).Msg("cache lookup failed")
		}
		return Response{}, false
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		e.logger.Warn().Err(err).Msg("cached response unreadable")
		return Response{}, false
	}
	return resp, true
}

func (e *Engine) cacheStore(ctx context.Context, query, requestedType string, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, cacheKey(query, requestedType), data, e.cacheTTL); err != nil {
		e.logger.Warn().Err(err).Msg("cache store failed")
	}
}
