package queryengine

import "strings"

// Intent is the selected shape of the response payload.
type Intent string

const (
	IntentTimeSeries   Intent = "time_series"
	IntentComparison   Intent = "comparison"
	IntentDistribution Intent = "distribution"
	IntentSentiment    Intent = "sentiment"
	IntentSummary      Intent = "summary"
	IntentFocusedChart Intent = "focused_chart"
	IntentNoData       Intent = "no_data"
)

// scoredIntents lists the intents that participate in keyword scoring, in
// the order ties are broken.
var scoredIntents = []Intent{
	IntentTimeSeries,
	IntentComparison,
	IntentDistribution,
	IntentSentiment,
	IntentSummary,
	IntentFocusedChart,
}

// intentOverride forces an intent when its phrase appears in the query,
// bypassing keyword scoring entirely.
type intentOverride struct {
	phrase string
	intent Intent
}

// IntentSelector classifies a query into a visualization intent using
// explicit phrase overrides backed by weighted keyword scoring.
type IntentSelector struct {
	vocab     *Vocabulary
	overrides []intentOverride
	threshold float64
}

// NewIntentSelector creates a selector. threshold is the minimum winning
// score; below it the selector defaults to summary.
func NewIntentSelector(vocab *Vocabulary, threshold float64) *IntentSelector {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if threshold <= 0 {
		threshold = 2
	}
	return &IntentSelector{
		vocab:     vocab,
		threshold: threshold,
		overrides: []intentOverride{
			{"evolución de", IntentTimeSeries},
			{"evolucion de", IntentTimeSeries},
			{"a lo largo del tiempo", IntentTimeSeries},
			{"comparar", IntentComparison},
			{" vs ", IntentComparison},
			{" vs.", IntentComparison},
			{"versus", IntentComparison},
		},
	}
}

// Select resolves the visualization intent for a query. A caller-requested
// type wins verbatim; otherwise overrides apply, then keyword scoring with
// affinity bonuses from the extracted candidates.
func (s *IntentSelector) Select(query string, requested string, candidates TermCandidates) Intent {
	if requested != "" {
		return Intent(requested)
	}

	lower := strings.ToLower(query)

	for _, o := range s.overrides {
		if strings.Contains(lower, o.phrase) {
			return o.intent
		}
	}

	scores := make(map[Intent]float64, len(scoredIntents))
	for _, intent := range scoredIntents {
		for _, kw := range s.vocab.IntentKeywords[intent] {
			if strings.Contains(lower, kw) {
				scores[intent]++
			}
		}
	}

	// Candidate affinities: a concrete target word amplifies categories
	// that already have a keyword signal; a username pulls toward the
	// focused shape on its own.
	if candidates.HasTerm() {
		const wordBonus = 2
		if scores[IntentFocusedChart] > 0 {
			scores[IntentFocusedChart] += wordBonus
		}
		if scores[IntentSentiment] > 0 {
			scores[IntentSentiment] += wordBonus * 0.5
		}
		if scores[IntentSummary] > 0 {
			scores[IntentSummary] += wordBonus * 0.25
		}
	}
	if len(candidates.Usernames) > 0 {
		scores[IntentFocusedChart] += 3
	}

	best := IntentSummary
	bestScore := 0.0
	for _, intent := range scoredIntents {
		if scores[intent] > bestScore {
			best = intent
			bestScore = scores[intent]
		}
	}

	if bestScore < s.threshold {
		return IntentSummary
	}
	return best
}
