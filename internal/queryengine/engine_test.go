package queryengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/politiktok/research-engine/internal/cache"
	"github.com/politiktok/research-engine/internal/config"
	"github.com/politiktok/research-engine/internal/dataset"
)

func testEngine(t *testing.T, cacheClient cache.Client) *Engine {
	t.Helper()
	cfg := config.QueryConfig{
		MinTermLength:    4,
		IntentThreshold:  2,
		UniformFallback:  0.3,
		CacheResults:     cacheClient != nil,
		MaxSentimentRows: 50,
		TopAccountsLimit: 10,
	}
	return NewEngine(dataset.NewStore(testCollection()), cacheClient, cfg, time.Minute, nil)
}

func TestQueryFiltersAndSummarizes(t *testing.T) {
	engine := testEngine(t, nil)

	resp := engine.Query(context.Background(), Request{Query: "datos sobre la palabra revolución"})

	assert.Equal(t, "revolución", resp.Term)
	assert.Equal(t, IntentSummary, resp.Payload.Type)
	assert.False(t, resp.Cached)
	assert.NotEmpty(t, resp.RequestID)
	assert.NotEmpty(t, resp.Relevance)

	// The term lives in the lexicon and one subtitle; propagation pulls in
	// the matching video while the accounts table empties out.
	assert.NotNil(t, resp.Payload.FilterInfo)
	assert.True(t, resp.Payload.FilterInfo.Filtered)
	assert.Equal(t, 11, resp.Payload.FilterInfo.OriginalRecords)
	assert.Equal(t, 3, resp.Payload.FilterInfo.FilteredRecords)
	assert.Contains(t, resp.Payload.Title, "Filtrado: 'revolución'")
}

func TestQueryGenericTermKeepsFullData(t *testing.T) {
	engine := testEngine(t, nil)

	resp := engine.Query(context.Background(), Request{Query: "dame un resumen"})

	assert.Equal(t, IntentSummary, resp.Payload.Type)
	assert.Nil(t, resp.Payload.FilterInfo)

	stats := make(map[string]string)
	for _, s := range resp.Payload.Stats {
		stats[s.Name] = s.Value
	}
	assert.Equal(t, "3", stats["Cuentas"])
	assert.Equal(t, "3", stats["Videos"])
}

func TestQueryNoTermExtracted(t *testing.T) {
	engine := testEngine(t, nil)

	resp := engine.Query(context.Background(), Request{Query: "oye qué tal"})

	assert.Equal(t, IntentNoData, resp.Payload.Type)
	assert.Empty(t, resp.Term)
	assert.Empty(t, resp.Usernames)
	assert.NotEmpty(t, resp.Payload.Suggestion)
	assert.Contains(t, resp.Payload.Message, "No pude identificar")
}

func TestQueryTermMatchesNothing(t *testing.T) {
	engine := testEngine(t, nil)

	resp := engine.Query(context.Background(), Request{Query: "datos sobre la palabra xilofonista"})

	assert.Equal(t, "xilofonista", resp.Term)
	assert.Equal(t, IntentNoData, resp.Payload.Type)
	assert.Contains(t, resp.Payload.Message, "xilofonista")
	assert.NotNil(t, resp.Payload.FilterInfo)
}

func TestQueryRequestedTypeWins(t *testing.T) {
	engine := testEngine(t, nil)

	resp := engine.Query(context.Background(), Request{
		Query:         "datos sobre la palabra revolución",
		RequestedType: string(IntentSentiment),
	})

	assert.Equal(t, IntentSentiment, resp.Payload.Type)
}

func TestQueryCachesResults(t *testing.T) {
	mem := cache.NewMemoryClient(100)
	defer mem.Close()
	engine := testEngine(t, mem)

	first := engine.Query(context.Background(), Request{Query: "dame un resumen"})
	assert.False(t, first.Cached)

	second := engine.Query(context.Background(), Request{Query: "dame un resumen"})
	assert.True(t, second.Cached)
	assert.Equal(t, first.Payload.Type, second.Payload.Type)
	assert.Equal(t, first.Payload.Stats, second.Payload.Stats)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestQueryNeverCachesNoData(t *testing.T) {
	mem := cache.NewMemoryClient(100)
	defer mem.Close()
	engine := testEngine(t, mem)

	first := engine.Query(context.Background(), Request{Query: "oye qué tal"})
	assert.Equal(t, IntentNoData, first.Payload.Type)

	second := engine.Query(context.Background(), Request{Query: "oye qué tal"})
	assert.False(t, second.Cached)
}

func TestInvalidateCacheDropsEntries(t *testing.T) {
	mem := cache.NewMemoryClient(100)
	defer mem.Close()
	engine := testEngine(t, mem)

	engine.Query(context.Background(), Request{Query: "dame un resumen"})

	err := engine.InvalidateCache(context.Background())
	assert.NoError(t, err)

	resp := engine.Query(context.Background(), Request{Query: "dame un resumen"})
	assert.False(t, resp.Cached)
}

func TestQueryRecoversFromPanic(t *testing.T) {
	// A nil store makes the snapshot stage blow up; the engine must still
	// hand back a renderable payload.
	engine := NewEngine(nil, nil, config.QueryConfig{}, 0, nil)

	resp := engine.Query(context.Background(), Request{Query: "datos sobre la palabra revolución"})

	assert.NotEmpty(t, resp.Payload.Error)
	assert.NotEmpty(t, resp.Payload.Message)
	assert.NotEmpty(t, resp.RequestID)
}

func TestDataSummaryUsesCurrentSnapshot(t *testing.T) {
	engine := testEngine(t, nil)

	summary := engine.DataSummary()

	assert.Equal(t, 3, summary[dataset.Accounts].Rows)
	assert.Equal(t, 3, summary[dataset.Videos].Rows)
	assert.Equal(t, 2, summary[dataset.Subtitles].Rows)
	assert.Equal(t, 3, summary[dataset.Words].Rows)
}
