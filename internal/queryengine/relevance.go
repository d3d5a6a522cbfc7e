package queryengine

import (
	"sort"
	"strings"

	"github.com/politiktok/research-engine/internal/dataset"
)

// RelevanceScore pairs a dataset with its heuristic relevance in [0,1].
type RelevanceScore struct {
	Dataset dataset.Name `json:"dataset"`
	Score   float64      `json:"score"`
}

// RelevanceScorer maps a query to per-dataset relevance using keyword
// overlap against the vocabulary's dataset dictionaries.
type RelevanceScorer struct {
	vocab           *Vocabulary
	uniformFallback float64
}

// NewRelevanceScorer creates a scorer. uniformFallback is the score
// assigned to every non-empty dataset when no keyword matches at all.
func NewRelevanceScorer(vocab *Vocabulary, uniformFallback float64) *RelevanceScorer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if uniformFallback <= 0 {
		uniformFallback = 0.3
	}
	return &RelevanceScorer{vocab: vocab, uniformFallback: uniformFallback}
}

// Score ranks the non-empty datasets by relevance to the query. The result
// is ordered by descending score; ties keep dataset declaration order.
// Zero-scoring datasets are dropped; if every dataset scores zero, all
// non-empty datasets get the uniform fallback so a query over existing
// data always surfaces something.
func (s *RelevanceScorer) Score(query string, c dataset.Collection) []RelevanceScore {
	lower := strings.ToLower(query)

	var out []RelevanceScore
	for _, name := range dataset.AllNames {
		t, present := c[name]
		if !present || t.Empty() {
			continue
		}

		keywords := s.vocab.DatasetKeywords[name]
		if len(keywords) == 0 {
			continue
		}

		matches := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}

		score := float64(matches) / float64(len(keywords))
		if score > 1.0 {
			score = 1.0
		}
		if score > 0 {
			out = append(out, RelevanceScore{Dataset: name, Score: score})
		}
	}

	if len(out) == 0 {
		for _, name := range dataset.AllNames {
			if t, present := c[name]; present && !t.Empty() {
				out = append(out, RelevanceScore{Dataset: name, Score: s.uniformFallback})
			}
		}
	}

	// Stable sort keeps declaration order for equal scores.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}
