package queryengine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/politiktok/research-engine/internal/dataset"
)

// Chart descriptor IDs. The summary payload emits them in this order; the
// focused chart picks exactly one.
const (
	chartPerspective = "perspective_pie"
	chartThemes      = "themes_bar"
	chartTopAccounts = "top_accounts_bar"
	chartTimeline    = "timeline_line"
	chartTopCreators = "top_creators_bar"
	chartSentiment   = "sentiment_pie"
	chartWordTypes   = "word_types_bar"
)

// chartBuilder produces one chart descriptor, reporting ok=false when its
// source column is absent or empty so the caller can skip it.
type chartBuilder func(c dataset.Collection) (Chart, bool)

// perspectiveChart breaks accounts down by political perspective.
func (b *SummaryBuilder) perspectiveChart(c dataset.Collection) (Chart, bool) {
	accounts := c.Get(dataset.Accounts)
	if accounts.Empty() || !accounts.HasColumn(dataset.ColPerspective) {
		return Chart{}, false
	}

	counts := accounts.ValueCounts(dataset.ColPerspective)
	if len(counts) == 0 {
		return Chart{}, false
	}

	chart := Chart{ID: chartPerspective, Kind: "pie", Title: "Distribución de Perspectivas"}
	for _, vc := range counts {
		chart.Labels = append(chart.Labels, vc.Value)
		chart.Values = append(chart.Values, float64(vc.Count))
	}
	return chart, true
}

// themesChart counts the most frequent account themes. Theme cells may
// hold several comma-separated values.
func (b *SummaryBuilder) themesChart(c dataset.Collection) (Chart, bool) {
	accounts := c.Get(dataset.Accounts)
	if accounts.Empty() || !accounts.HasColumn(dataset.ColThemes) {
		return Chart{}, false
	}

	counts := make(map[string]int)
	for _, raw := range accounts.Values(dataset.ColThemes) {
		for _, theme := range strings.Split(raw, ",") {
			if theme = strings.TrimSpace(theme); theme != "" {
				counts[strings.ToLower(theme)]++
			}
		}
	}
	if len(counts) == 0 {
		return Chart{}, false
	}

	chart := Chart{ID: chartThemes, Kind: "bar", Title: "Temáticas Principales"}
	for _, vc := range topCounts(counts, b.topLimit) {
		chart.Labels = append(chart.Labels, vc.Value)
		chart.Values = append(chart.Values, float64(vc.Count))
	}
	return chart, true
}

// topAccountsChart ranks accounts by follower count.
func (b *SummaryBuilder) topAccountsChart(c dataset.Collection) (Chart, bool) {
	accounts := c.Get(dataset.Accounts)
	if accounts.Empty() || !accounts.HasColumn(dataset.ColFollowersNum) {
		return Chart{}, false
	}

	type entry struct {
		name      string
		followers float64
	}
	var entries []entry
	for _, row := range accounts.Rows {
		name := row[dataset.ColUsername]
		if name == "" {
			continue
		}
		entries = append(entries, entry{
			name:      name,
			followers: dataset.SafeFloat(row[dataset.ColFollowersNum], 0),
		})
	}
	if len(entries) == 0 {
		return Chart{}, false
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].followers > entries[j].followers
	})
	if len(entries) > b.topLimit {
		entries = entries[:b.topLimit]
	}

	chart := Chart{ID: chartTopAccounts, Kind: "bar", Title: "Cuentas con Más Seguidores"}
	for _, e := range entries {
		chart.Labels = append(chart.Labels, e.name)
		chart.Values = append(chart.Values, e.followers)
	}
	return chart, true
}

// timelineChart buckets video publications by month.
func (b *SummaryBuilder) timelineChart(c dataset.Collection) (Chart, bool) {
	videos := c.Get(dataset.Videos)
	if videos.Empty() || !videos.HasColumn(dataset.ColDate) {
		return Chart{}, false
	}

	months := monthCounts(videos)
	if len(months) == 0 {
		return Chart{}, false
	}

	chart := Chart{ID: chartTimeline, Kind: "line", Title: "Videos Publicados por Mes"}
	for _, m := range months {
		chart.Labels = append(chart.Labels, m.Value)
		chart.Values = append(chart.Values, float64(m.Count))
	}
	return chart, true
}

// topCreatorsChart ranks creators by number of videos.
func (b *SummaryBuilder) topCreatorsChart(c dataset.Collection) (Chart, bool) {
	videos := c.Get(dataset.Videos)
	if videos.Empty() || !videos.HasColumn(dataset.ColUsername) {
		return Chart{}, false
	}

	counts := videos.ValueCounts(dataset.ColUsername)
	if len(counts) == 0 {
		return Chart{}, false
	}
	if len(counts) > b.topLimit {
		counts = counts[:b.topLimit]
	}

	chart := Chart{ID: chartTopCreators, Kind: "bar", Title: "Creadores con Más Videos"}
	for _, vc := range counts {
		chart.Labels = append(chart.Labels, vc.Value)
		chart.Values = append(chart.Values, float64(vc.Count))
	}
	return chart, true
}

// sentimentChart breaks the lexicon down by sentiment polarity.
func (b *SummaryBuilder) sentimentChart(c dataset.Collection) (Chart, bool) {
	words := c.Get(dataset.Words)
	if words.Empty() || !words.HasColumn(dataset.ColSentiment) {
		return Chart{}, false
	}

	counts := words.ValueCounts(dataset.ColSentiment)
	if len(counts) == 0 {
		return Chart{}, false
	}

	chart := Chart{ID: chartSentiment, Kind: "pie", Title: "Distribución de Sentimiento"}
	for _, vc := range counts {
		chart.Labels = append(chart.Labels, sentimentLabel(vc.Value))
		chart.Values = append(chart.Values, float64(vc.Count))
	}
	return chart, true
}

// wordTypesChart counts the lexicon's primary word types.
func (b *SummaryBuilder) wordTypesChart(c dataset.Collection) (Chart, bool) {
	words := c.Get(dataset.Words)
	if words.Empty() || !words.HasColumn(dataset.ColType1) {
		return Chart{}, false
	}

	counts := words.ValueCounts(dataset.ColType1)
	if len(counts) == 0 {
		return Chart{}, false
	}
	if len(counts) > b.topLimit {
		counts = counts[:b.topLimit]
	}

	chart := Chart{ID: chartWordTypes, Kind: "bar", Title: "Tipos de Palabra"}
	for _, vc := range counts {
		chart.Labels = append(chart.Labels, vc.Value)
		chart.Values = append(chart.Values, float64(vc.Count))
	}
	return chart, true
}

// sentimentLabel turns the lexicon's numeric polarity into a display name.
func sentimentLabel(v string) string {
	switch strings.TrimSpace(v) {
	case "-1", "-1.0":
		return "Negativo"
	case "0", "0.0":
		return "Neutral"
	case "1", "1.0":
		return "Positivo"
	default:
		return v
	}
}

// monthCounts buckets a video table's dates into "YYYY-MM" counts in
// chronological order. Rows with unparseable dates are skipped.
func monthCounts(videos dataset.Table) []dataset.ValueCount {
	counts := make(map[string]int)
	for _, row := range videos.Rows {
		if t, ok := dataset.ParseDate(row[dataset.ColDate]); ok {
			counts[t.Format("2006-01")]++
		}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]dataset.ValueCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, dataset.ValueCount{Value: k, Count: counts[k]})
	}
	return out
}

// topCounts converts a tally map into the top-n descending pairs with
// alphabetical ties.
func topCounts(counts map[string]int, n int) []dataset.ValueCount {
	out := make([]dataset.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, dataset.ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// formatCount renders a float stat without trailing noise.
func formatCount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
