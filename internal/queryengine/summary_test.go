package queryengine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/politiktok/research-engine/internal/dataset"
)

func TestBuildSummaryChartOrder(t *testing.T) {
	builder := NewSummaryBuilder(nil, 10, 50)
	c := testCollection()

	p := builder.Build(c, IntentSummary, TermCandidates{}, "")

	assert.Equal(t, IntentSummary, p.Type)

	var ids []string
	for _, chart := range p.Charts {
		ids = append(ids, chart.ID)
	}
	assert.Equal(t, []string{
		chartPerspective,
		chartThemes,
		chartTopAccounts,
		chartTimeline,
		chartTopCreators,
		chartSentiment,
		chartWordTypes,
	}, ids)

	assert.Equal(t, []Stat{
		{Name: "Cuentas", Value: "3"},
		{Name: "Videos", Value: "3"},
		{Name: "Palabras en Léxico", Value: "3"},
		{Name: "Con Subtítulos", Value: "2"},
	}, p.Stats)
}

func TestBuildSummarySkipsMissingPieces(t *testing.T) {
	builder := NewSummaryBuilder(nil, 10, 50)

	// No accounts at all and videos without dates: the account charts and
	// the timeline drop out, the rest still build.
	c := testCollection()
	delete(c, dataset.Accounts)
	c[dataset.Videos] = dataset.NewTable(
		[]string{dataset.ColUsername, dataset.ColTitle},
		[]dataset.Row{{dataset.ColUsername: "ana_politica", dataset.ColTitle: "x"}},
	)

	p := builder.Build(c, IntentSummary, TermCandidates{}, "")

	var ids []string
	for _, chart := range p.Charts {
		ids = append(ids, chart.ID)
	}
	assert.Equal(t, []string{chartTopCreators, chartSentiment, chartWordTypes}, ids)
}

func TestBuildTimeSeries(t *testing.T) {
	builder := NewSummaryBuilder(nil, 10, 50)
	c := testCollection()

	p := builder.Build(c, IntentTimeSeries, TermCandidates{}, "")

	assert.Equal(t, IntentTimeSeries, p.Type)
	assert.NotEmpty(t, p.Charts)

	series := p.Charts[0]
	assert.Equal(t, []string{"2023-03", "2023-05"}, series.Labels)
	assert.Equal(t, []float64{2, 1}, series.Values)

	stats := make(map[string]string)
	for _, s := range p.Stats {
		stats[s.Name] = s.Value
	}
	assert.Equal(t, "3", stats["Total Videos"])
	assert.Equal(t, "2023-03", stats["Mes Pico"])
	assert.Equal(t, "2", stats["Máximo Mensual"])
}

func TestBuildTimeSeriesNarrowsByUsername(t *testing.T) {
	builder := NewSummaryBuilder(nil, 10, 50)
	c := testCollection()

	p := builder.Build(c, IntentTimeSeries, TermCandidates{Usernames: []string{"ana_politica"}}, "")

	series := p.Charts[0]
	assert.Equal(t, []string{"2023-03"}, series.Labels)
	assert.Equal(t, []float64{1}, series.Values)
	assert.Contains(t, p.Title, "@ana_politica")
}

func TestBuildSentiment(t *testing.T) {
	builder := NewSummaryBuilder(nil, 10, 50)
	c := testCollection()

	p := builder.Build(c, IntentSentiment, TermCandidates{}, "")

	assert.Equal(t, IntentSentiment, p.Type)
	assert.NotEmpty(t, p.Charts)

	stats := make(map[string]string)
	for _, s := range p.Stats {
		stats[s.Name] = s.Value
	}
	// "revolución" (+1) appears in ana's subtitle, "mes" and "crisis" in
	// carlos's text give one neutral and zero hits.
	assert.Equal(t, "2", stats["Subtítulos Analizados"])
	assert.Equal(t, "1", stats["Menciones Positivas"])
}

func TestBuildSentimentWithoutLexicon(t *testing.T) {
	builder := NewSummaryBuilder(nil, 10, 50)
	c := testCollection()
	delete(c, dataset.Words)

	p := builder.Build(c, IntentSentiment, TermCandidates{}, "")

	assert.Equal(t, IntentSentiment, p.Type)
	assert.Empty(t, p.Charts)
	assert.NotEmpty(t, p.Message)
}

func TestBuildFocusedKeywordPriority(t *testing.T) {
	builder := NewSummaryBuilder(nil, 10, 50)
	c := testCollection()

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{name: "word vocabulary", query: "tipos de palabra del léxico", expected: chartWordTypes},
		{name: "creators", query: "qué creador publica más", expected: chartTopCreators},
		{name: "sentiment", query: "cuál es la opinión general", expected: chartSentiment},
		{name: "perspective", query: "cuántos son de izquierda", expected: chartPerspective},
		{name: "fallback order", query: "algo sin pistas", expected: chartTopAccounts},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := builder.Build(c, IntentFocusedChart, TermCandidates{}, tc.query)
			assert.Len(t, p.Charts, 1)
			assert.Equal(t, tc.expected, p.Charts[0].ID)
		})
	}
}

func TestBuildFocusedFallsThroughEmptyData(t *testing.T) {
	builder := NewSummaryBuilder(nil, 10, 50)

	// Without accounts the fallback skips top-accounts and lands on
	// top-creators.
	c := testCollection()
	delete(c, dataset.Accounts)

	p := builder.Build(c, IntentFocusedChart, TermCandidates{}, "algo sin pistas")

	assert.Len(t, p.Charts, 1)
	assert.Equal(t, chartTopCreators, p.Charts[0].ID)
}

func TestDatasetSummaries(t *testing.T) {
	builder := NewSummaryBuilder(nil, 10, 50)
	c := testCollection()

	summary := builder.DatasetSummaries(c)

	accounts := summary[dataset.Accounts]
	assert.Equal(t, 3, accounts.Rows)

	stats := make(map[string]string)
	for _, s := range accounts.Stats {
		stats[s.Name] = s.Value
	}
	assert.Equal(t, "300000", stats["Seguidores Máximo"])

	videos := summary[dataset.Videos]
	vstats := make(map[string]string)
	for _, s := range videos.Stats {
		vstats[s.Name] = s.Value
	}
	assert.Equal(t, "2023-03-10 a 2023-05-01", vstats["Rango de Fechas"])
	assert.Equal(t, "10920", vstats["Vistas Totales"])
}

func TestTopAccountsChartSorted(t *testing.T) {
	builder := NewSummaryBuilder(nil, 2, 50)
	c := testCollection()

	chart, ok := builder.topAccountsChart(c)

	assert.True(t, ok)
	assert.Equal(t, []string{"neutral_news", "ana_politica"}, chart.Labels)
	assert.Equal(t, []float64{300000, 120000}, chart.Values)
}

func TestViewsHistogramBuckets(t *testing.T) {
	c := testCollection()

	chart, ok := viewsHistogram(c)

	assert.True(t, ok)
	assert.Equal(t, []string{"<1K", "1K-10K", "10K-100K", "100K-1M", ">1M"}, chart.Labels)
	// views 1500, 9000, 420
	assert.Equal(t, []float64{1, 2, 0, 0, 0}, chart.Values)
}
