package queryengine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/politiktok/research-engine/internal/dataset"
)

// SummaryBuilder computes aggregate statistics and chart descriptors over
// a (possibly filtered) dataset collection.
type SummaryBuilder struct {
	vocab            *Vocabulary
	topLimit         int
	maxSentimentRows int
}

// NewSummaryBuilder creates a builder. topLimit caps top-N charts;
// maxSentimentRows caps the per-user sentiment scan output.
func NewSummaryBuilder(vocab *Vocabulary, topLimit, maxSentimentRows int) *SummaryBuilder {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if topLimit <= 0 {
		topLimit = 10
	}
	if maxSentimentRows <= 0 {
		maxSentimentRows = 50
	}
	return &SummaryBuilder{
		vocab:            vocab,
		topLimit:         topLimit,
		maxSentimentRows: maxSentimentRows,
	}
}

// Build produces the payload for a resolved intent. Each chart or stat is
// individually skippable: a missing column drops that piece, never the
// whole payload.
func (b *SummaryBuilder) Build(c dataset.Collection, intent Intent, candidates TermCandidates, query string) Payload {
	switch intent {
	case IntentTimeSeries:
		return b.buildTimeSeries(c, candidates)
	case IntentComparison:
		return b.buildComparison(c)
	case IntentDistribution:
		return b.buildDistribution(c)
	case IntentSentiment:
		return b.buildSentiment(c)
	case IntentFocusedChart:
		return b.buildFocused(c, query)
	default:
		return b.buildSummary(c)
	}
}

// summaryChartOrder lists the independent summary charts in their fixed
// emission order.
func (b *SummaryBuilder) summaryChartOrder() []chartBuilder {
	return []chartBuilder{
		b.perspectiveChart,
		b.themesChart,
		b.topAccountsChart,
		b.timelineChart,
		b.topCreatorsChart,
		b.sentimentChart,
		b.wordTypesChart,
	}
}

// buildSummary assembles the general overview payload.
func (b *SummaryBuilder) buildSummary(c dataset.Collection) Payload {
	p := Payload{Type: IntentSummary, Title: "Resumen General de los Datos"}

	for _, build := range b.summaryChartOrder() {
		if chart, ok := build(c); ok {
			p.Charts = append(p.Charts, chart)
		}
	}

	p.Stats = []Stat{
		{Name: "Cuentas", Value: formatCount(float64(c.Get(dataset.Accounts).Len()))},
		{Name: "Videos", Value: formatCount(float64(c.Get(dataset.Videos).Len()))},
		{Name: "Palabras en Léxico", Value: formatCount(float64(c.Get(dataset.Words).Len()))},
		{Name: "Con Subtítulos", Value: formatCount(float64(c.Get(dataset.Subtitles).Len()))},
	}

	return p
}

// buildTimeSeries produces the monthly publication series, narrowed to the
// mentioned accounts when the query named any.
func (b *SummaryBuilder) buildTimeSeries(c dataset.Collection, candidates TermCandidates) Payload {
	p := Payload{Type: IntentTimeSeries, Title: "Evolución Temporal de Publicaciones"}

	videos := c.Get(dataset.Videos)
	if videos.Empty() || !videos.HasColumn(dataset.ColDate) {
		p.Message = "No hay fechas de publicación disponibles."
		return p
	}

	if len(candidates.Usernames) > 0 && videos.HasColumn(dataset.ColUsername) {
		wanted := make(map[string]bool, len(candidates.Usernames))
		for _, u := range candidates.Usernames {
			wanted[strings.ToLower(u)] = true
		}
		narrowed := videos.Filter(func(r dataset.Row) bool {
			return wanted[strings.ToLower(r[dataset.ColUsername])]
		})
		if !narrowed.Empty() {
			videos = narrowed
			p.Title = "Evolución Temporal de @" + candidates.Usernames[0]
		}
	}

	months := monthCounts(videos)
	if len(months) == 0 {
		p.Message = "No hay fechas de publicación disponibles."
		return p
	}

	series := Chart{ID: chartTimeline, Kind: "line", Title: "Videos por Mes"}
	total := 0
	peak := months[0]
	for _, m := range months {
		series.Labels = append(series.Labels, m.Value)
		series.Values = append(series.Values, float64(m.Count))
		total += m.Count
		if m.Count > peak.Count {
			peak = m
		}
	}
	p.Charts = append(p.Charts, series)

	if videos.HasColumn(dataset.ColViews) {
		if views, ok := monthlyAverageViews(videos); ok {
			p.Charts = append(p.Charts, views)
		}
	}

	p.Stats = []Stat{
		{Name: "Total Videos", Value: formatCount(float64(total))},
		{Name: "Promedio Mensual", Value: formatCount(float64(total) / float64(len(months)))},
		{Name: "Mes Pico", Value: peak.Value},
		{Name: "Máximo Mensual", Value: formatCount(float64(peak.Count))},
	}

	return p
}

// monthlyAverageViews charts the average view count per publication month.
func monthlyAverageViews(videos dataset.Table) (Chart, bool) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, row := range videos.Rows {
		t, ok := dataset.ParseDate(row[dataset.ColDate])
		if !ok {
			continue
		}
		month := t.Format("2006-01")
		sums[month] += dataset.SafeFloat(row[dataset.ColViews], 0)
		counts[month]++
	}
	if len(sums) == 0 {
		return Chart{}, false
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	chart := Chart{ID: "views_line", Kind: "line", Title: "Promedio de Vistas por Mes"}
	for _, k := range keys {
		chart.Labels = append(chart.Labels, k)
		chart.Values = append(chart.Values, sums[k]/float64(counts[k]))
	}
	return chart, true
}

// buildComparison assembles side-by-side rankings across accounts.
func (b *SummaryBuilder) buildComparison(c dataset.Collection) Payload {
	p := Payload{Type: IntentComparison, Title: "Comparación de Cuentas"}

	if chart, ok := b.topAccountsChart(c); ok {
		p.Charts = append(p.Charts, chart)
	}
	if chart, ok := b.perspectiveChart(c); ok {
		p.Charts = append(p.Charts, chart)
	}
	if chart, ok := b.themesChart(c); ok {
		p.Charts = append(p.Charts, chart)
	}
	if chart, ok := b.averageViewsChart(c); ok {
		p.Charts = append(p.Charts, chart)
	}

	if len(p.Charts) == 0 {
		p.Message = "No hay datos de cuentas para comparar."
	}
	return p
}

// averageViewsChart ranks creators by mean views per video.
func (b *SummaryBuilder) averageViewsChart(c dataset.Collection) (Chart, bool) {
	videos := c.Get(dataset.Videos)
	if videos.Empty() || !videos.HasColumn(dataset.ColViews) || !videos.HasColumn(dataset.ColUsername) {
		return Chart{}, false
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, row := range videos.Rows {
		user := row[dataset.ColUsername]
		if user == "" {
			continue
		}
		sums[user] += dataset.SafeFloat(row[dataset.ColViews], 0)
		counts[user]++
	}
	if len(sums) == 0 {
		return Chart{}, false
	}

	type entry struct {
		user string
		avg  float64
	}
	entries := make([]entry, 0, len(sums))
	for user, sum := range sums {
		entries = append(entries, entry{user: user, avg: sum / float64(counts[user])})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].avg != entries[j].avg {
			return entries[i].avg > entries[j].avg
		}
		return entries[i].user < entries[j].user
	})
	if len(entries) > b.topLimit {
		entries = entries[:b.topLimit]
	}

	chart := Chart{ID: "avg_views_bar", Kind: "bar", Title: "Promedio de Vistas por Creador"}
	for _, e := range entries {
		chart.Labels = append(chart.Labels, e.user)
		chart.Values = append(chart.Values, e.avg)
	}
	return chart, true
}

// viewsBuckets are the histogram boundaries for view counts.
var viewsBuckets = []struct {
	label string
	upper float64
}{
	{"<1K", 1_000},
	{"1K-10K", 10_000},
	{"10K-100K", 100_000},
	{"100K-1M", 1_000_000},
	{">1M", 0},
}

// buildDistribution assembles the proportion breakdowns.
func (b *SummaryBuilder) buildDistribution(c dataset.Collection) Payload {
	p := Payload{Type: IntentDistribution, Title: "Distribuciones de los Datos"}

	if chart, ok := b.perspectiveChart(c); ok {
		p.Charts = append(p.Charts, chart)
	}
	if chart, ok := b.themesChart(c); ok {
		p.Charts = append(p.Charts, chart)
	}
	if chart, ok := viewsHistogram(c); ok {
		p.Charts = append(p.Charts, chart)
	}
	if chart, ok := b.sentimentChart(c); ok {
		p.Charts = append(p.Charts, chart)
	}

	if len(p.Charts) == 0 {
		p.Message = "No hay datos suficientes para calcular distribuciones."
	}
	return p
}

// viewsHistogram buckets video view counts into fixed magnitude ranges.
func viewsHistogram(c dataset.Collection) (Chart, bool) {
	videos := c.Get(dataset.Videos)
	if videos.Empty() || !videos.HasColumn(dataset.ColViews) {
		return Chart{}, false
	}

	counts := make([]int, len(viewsBuckets))
	for _, row := range videos.Rows {
		v := dataset.SafeFloat(row[dataset.ColViews], 0)
		placed := false
		for i, bucket := range viewsBuckets {
			if bucket.upper > 0 && v < bucket.upper {
				counts[i]++
				placed = true
				break
			}
		}
		if !placed {
			counts[len(counts)-1]++
		}
	}

	chart := Chart{ID: "views_hist", Kind: "bar", Title: "Distribución de Vistas"}
	for i, bucket := range viewsBuckets {
		chart.Labels = append(chart.Labels, bucket.label)
		chart.Values = append(chart.Values, float64(counts[i]))
	}
	return chart, true
}

// buildSentiment scans subtitle texts against the sentiment lexicon and
// aggregates polarity per creator.
func (b *SummaryBuilder) buildSentiment(c dataset.Collection) Payload {
	p := Payload{Type: IntentSentiment, Title: "Análisis de Sentimiento del Discurso"}

	words := c.Get(dataset.Words)
	subtitles := c.Get(dataset.Subtitles)
	if words.Empty() || subtitles.Empty() || !words.HasColumn(dataset.ColWord) ||
		!words.HasColumn(dataset.ColSentiment) || !subtitles.HasColumn(dataset.ColText) {
		p.Message = "No hay léxico o subtítulos disponibles para el análisis."
		return p
	}

	lexicon := make(map[string]int, words.Len())
	for _, row := range words.Rows {
		w := strings.ToLower(strings.TrimSpace(row[dataset.ColWord]))
		if w == "" {
			continue
		}
		lexicon[w] = dataset.SafeInt(row[dataset.ColSentiment], 0)
	}

	type userAgg struct {
		positive int
		negative int
		total    int
	}
	byUser := make(map[string]*userAgg)
	totalPos, totalNeg := 0, 0
	analyzed := 0

	for _, row := range subtitles.Rows {
		text := row[dataset.ColText]
		if strings.TrimSpace(text) == "" {
			continue
		}
		analyzed++

		pos, neg := 0, 0
		for _, tok := range tokenize(strings.ToLower(text)) {
			switch lexicon[tok] {
			case 1:
				pos++
			case -1:
				neg++
			}
		}
		totalPos += pos
		totalNeg += neg

		user := row[dataset.ColUsername]
		if user == "" {
			continue
		}
		agg, ok := byUser[user]
		if !ok {
			agg = &userAgg{}
			byUser[user] = agg
		}
		agg.positive += pos
		agg.negative += neg
		agg.total += pos + neg
	}

	type entry struct {
		user  string
		ratio float64
		total int
	}
	entries := make([]entry, 0, len(byUser))
	for user, agg := range byUser {
		if agg.total == 0 {
			continue
		}
		entries = append(entries, entry{
			user:  user,
			ratio: float64(agg.positive-agg.negative) / float64(agg.total),
			total: agg.total,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].total != entries[j].total {
			return entries[i].total > entries[j].total
		}
		return entries[i].user < entries[j].user
	})
	if len(entries) > b.topLimit {
		entries = entries[:b.topLimit]
	}

	if len(entries) > 0 {
		chart := Chart{ID: "sentiment_by_user", Kind: "bar", Title: "Balance de Sentimiento por Creador"}
		for _, e := range entries {
			chart.Labels = append(chart.Labels, e.user)
			chart.Values = append(chart.Values, e.ratio)
		}
		p.Charts = append(p.Charts, chart)
	}
	if chart, ok := b.sentimentChart(c); ok {
		p.Charts = append(p.Charts, chart)
	}

	p.Stats = []Stat{
		{Name: "Subtítulos Analizados", Value: formatCount(float64(analyzed))},
		{Name: "Menciones Positivas", Value: formatCount(float64(totalPos))},
		{Name: "Menciones Negativas", Value: formatCount(float64(totalNeg))},
	}

	return p
}

// focusedPriorities maps query keywords to the chart they should focus on,
// checked in order before the generic fallback list.
var focusedPriorities = []struct {
	keywords []string
	chart    string
}{
	{[]string{"palabra", "término", "termino", "vocabulario", "léxico", "lexico"}, chartWordTypes},
	{[]string{"usuario", "creador", "cuenta", "perfil"}, chartTopCreators},
	{[]string{"sentimiento", "opinión", "opinion", "emocional"}, chartSentiment},
	{[]string{"perspectiva", "político", "politico", "política", "politica", "izquierda", "derecha"}, chartPerspective},
}

// focusedFallback is the preference order tried when no keyword decides.
var focusedFallback = []string{
	chartTopAccounts,
	chartTopCreators,
	chartPerspective,
	chartSentiment,
	chartWordTypes,
}

// buildFocused selects exactly one chart for the query, by keyword
// priority first and then by the fallback preference order, skipping any
// chart whose data comes up empty.
func (b *SummaryBuilder) buildFocused(c dataset.Collection, query string) Payload {
	p := Payload{Type: IntentFocusedChart, Title: "Gráfico Enfocado"}

	builders := map[string]chartBuilder{
		chartPerspective: b.perspectiveChart,
		chartTopAccounts: b.topAccountsChart,
		chartTopCreators: b.topCreatorsChart,
		chartSentiment:   b.sentimentChart,
		chartWordTypes:   b.wordTypesChart,
	}

	lower := strings.ToLower(query)
	var order []string
	for _, prio := range focusedPriorities {
		for _, kw := range prio.keywords {
			if strings.Contains(lower, kw) {
				order = append(order, prio.chart)
				break
			}
		}
	}
	order = append(order, focusedFallback...)

	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if seen[id] {
			continue
		}
		seen[id] = true
		if chart, ok := builders[id](c); ok {
			p.Charts = []Chart{chart}
			p.Title = chart.Title
			return p
		}
	}

	p.Message = "No hay datos disponibles para un gráfico enfocado."
	return p
}

// DatasetSummaries builds the per-dataset overview used by the data
// summary endpoint: row counts, column lists, and headline aggregates.
func (b *SummaryBuilder) DatasetSummaries(c dataset.Collection) DataSummary {
	out := make(DataSummary, len(dataset.AllNames))

	for _, name := range dataset.AllNames {
		t := c.Get(name)
		overview := DatasetOverview{Rows: t.Len(), Columns: t.Columns}

		switch name {
		case dataset.Accounts:
			overview.Stats = accountStats(t)
		case dataset.Videos:
			overview.Stats = videoStats(t)
		case dataset.Words:
			overview.Stats = wordStats(t)
		}

		out[name] = overview
	}

	return out
}

// accountStats summarizes follower counts and perspective spread.
func accountStats(t dataset.Table) []Stat {
	if t.Empty() {
		return nil
	}

	var stats []Stat
	if t.HasColumn(dataset.ColFollowersNum) {
		sum, max := 0.0, 0.0
		n := 0
		for _, row := range t.Rows {
			v := dataset.SafeFloat(row[dataset.ColFollowersNum], 0)
			sum += v
			if v > max {
				max = v
			}
			n++
		}
		if n > 0 {
			stats = append(stats,
				Stat{Name: "Seguidores Promedio", Value: formatCount(sum / float64(n))},
				Stat{Name: "Seguidores Máximo", Value: formatCount(max)},
			)
		}
	}
	if t.HasColumn(dataset.ColPerspective) {
		for _, vc := range t.ValueCounts(dataset.ColPerspective) {
			stats = append(stats, Stat{
				Name:  "Perspectiva " + vc.Value,
				Value: formatCount(float64(vc.Count)),
			})
		}
	}
	return stats
}

// videoStats summarizes view counts and the covered date range.
func videoStats(t dataset.Table) []Stat {
	if t.Empty() {
		return nil
	}

	var stats []Stat
	if t.HasColumn(dataset.ColViews) {
		sum, max := 0.0, 0.0
		n := 0
		for _, row := range t.Rows {
			v := dataset.SafeFloat(row[dataset.ColViews], 0)
			sum += v
			if v > max {
				max = v
			}
			n++
		}
		if n > 0 {
			stats = append(stats,
				Stat{Name: "Vistas Promedio", Value: formatCount(sum / float64(n))},
				Stat{Name: "Vistas Totales", Value: formatCount(sum)},
				Stat{Name: "Vistas Máximo", Value: formatCount(max)},
			)
		}
	}
	if t.HasColumn(dataset.ColDate) {
		var min, max string
		for _, row := range t.Rows {
			if d, ok := dataset.ParseDate(row[dataset.ColDate]); ok {
				s := d.Format("2006-01-02")
				if min == "" || s < min {
					min = s
				}
				if s > max {
					max = s
				}
			}
		}
		if min != "" {
			stats = append(stats, Stat{Name: "Rango de Fechas", Value: fmt.Sprintf("%s a %s", min, max)})
		}
	}
	return stats
}

// wordStats summarizes the lexicon's sentiment spread.
func wordStats(t dataset.Table) []Stat {
	if t.Empty() || !t.HasColumn(dataset.ColSentiment) {
		return nil
	}

	var stats []Stat
	for _, vc := range t.ValueCounts(dataset.ColSentiment) {
		stats = append(stats, Stat{
			Name:  "Sentimiento " + sentimentLabel(vc.Value),
			Value: formatCount(float64(vc.Count)),
		})
	}
	return stats
}
