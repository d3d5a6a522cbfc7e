package queryengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectRequestedTypeWins(t *testing.T) {
	selector := NewIntentSelector(nil, 2)

	got := selector.Select("muéstrame la evolución de las vistas", "distribution", TermCandidates{})
	assert.Equal(t, IntentDistribution, got)
}

func TestSelectOverrides(t *testing.T) {
	selector := NewIntentSelector(nil, 2)

	tests := []struct {
		name     string
		query    string
		expected Intent
	}{
		{
			name:     "evolución de forces time series",
			query:    "muéstrame la evolución de menciones de justicia en el tiempo",
			expected: IntentTimeSeries,
		},
		{
			name:     "a lo largo del tiempo forces time series",
			query:    "publicaciones a lo largo del tiempo",
			expected: IntentTimeSeries,
		},
		{
			name:     "vs forces comparison",
			query:    "compara @userA vs @userB",
			expected: IntentComparison,
		},
		{
			name:     "comparar forces comparison",
			query:    "quiero comparar las cuentas grandes",
			expected: IntentComparison,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := selector.Select(tc.query, "", TermCandidates{})
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSelectKeywordScoring(t *testing.T) {
	selector := NewIntentSelector(nil, 2)

	tests := []struct {
		name       string
		query      string
		candidates TermCandidates
		expected   Intent
	}{
		{
			name:       "weak signal defaults to summary",
			query:      "datos sobre la palabra democracia",
			candidates: TermCandidates{Term: "democracia"},
			expected:   IntentSummary,
		},
		{
			name:       "temporal keywords",
			query:      "tendencia mensual histórica de publicaciones",
			candidates: TermCandidates{},
			expected:   IntentTimeSeries,
		},
		{
			name:       "sentiment keywords sharpened by a target word",
			query:      "sentimiento y polaridad de crisis",
			candidates: TermCandidates{Term: "crisis"},
			expected:   IntentSentiment,
		},
		{
			name:       "username pulls to focused chart",
			query:      "qué hace @ana_politica",
			candidates: TermCandidates{Usernames: []string{"ana_politica"}},
			expected:   IntentFocusedChart,
		},
		{
			name:       "no signal at all",
			query:      "hola buenas",
			candidates: TermCandidates{},
			expected:   IntentSummary,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := selector.Select(tc.query, "", tc.candidates)
			assert.Equal(t, tc.expected, got)
		})
	}
}
