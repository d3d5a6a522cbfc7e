package queryengine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/politiktok/research-engine/internal/dataset"
)

func TestFilterBlankAndGenericTermsPassThrough(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)
	c := testCollection()

	tests := []struct {
		name string
		term string
	}{
		{name: "blank", term: ""},
		{name: "whitespace", term: "   "},
		{name: "generic phrase", term: "análisis de datos"},
		{name: "generic word", term: "resumen"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := filter.Apply(c, tc.term)
			assert.False(t, result.Applied)
			assert.Equal(t, c.TotalRows(), result.Filtered)
			assert.Equal(t, c.TotalRows(), result.Original)
			for name := range c {
				assert.Equal(t, c[name].Len(), result.Datasets[name].Len())
			}
		})
	}
}

func TestFilterSubstringMatch(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)
	c := testCollection()

	result := filter.Apply(c, "inflación")

	assert.True(t, result.Applied)
	assert.False(t, result.FellBack)

	// Matched in one subtitle text, propagated to that video by URL.
	subs := result.Datasets[dataset.Subtitles]
	assert.Equal(t, 1, subs.Len())
	assert.Equal(t, "carlos_libre", subs.Rows[0][dataset.ColUsername])

	videos := result.Datasets[dataset.Videos]
	assert.Equal(t, 1, videos.Len())
	assert.Equal(t, "https://v/2", videos.Rows[0][dataset.ColURL])
}

func TestFilterKeepsUnmatchedDatasetKeysEmpty(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)
	c := testCollection()

	result := filter.Apply(c, "inflación")

	// Present in input but unmatched: key stays with an empty table.
	accounts, ok := result.Datasets[dataset.Accounts]
	assert.True(t, ok)
	assert.Equal(t, 0, accounts.Len())

	// Absent from input: key never appears.
	partial := dataset.Collection{dataset.Words: c[dataset.Words]}
	result = filter.Apply(partial, "revolución")
	_, hasVideos := result.Datasets[dataset.Videos]
	assert.False(t, hasVideos)
}

func TestFilterWordToVideoPropagation(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)
	c := testCollection()

	// "revolución" lives in the lexicon and in a subtitle text but in no
	// video title. The video must be recovered through the subtitle URL.
	result := filter.Apply(c, "revolución")

	assert.True(t, result.Applied)
	words := result.Datasets[dataset.Words]
	assert.Equal(t, 1, words.Len())

	videos := result.Datasets[dataset.Videos]
	assert.Equal(t, 1, videos.Len())
	assert.Equal(t, "https://v/1", videos.Rows[0][dataset.ColURL])
}

func TestFilterAccountPropagation(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)
	c := testCollection()

	result := filter.Apply(c, "neutral_news")

	accounts := result.Datasets[dataset.Accounts]
	assert.Equal(t, 1, accounts.Len())

	// The account's videos come along by username even though no video
	// column contains the term... except username itself here, which is
	// fine: union semantics keep it a single row.
	videos := result.Datasets[dataset.Videos]
	assert.Equal(t, 1, videos.Len())
	assert.Equal(t, "neutral_news", videos.Rows[0][dataset.ColUsername])
}

func TestFilterAccountPropagationUnions(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)

	c := testCollection()
	// A video independently matched by title plus one pulled in through
	// the account must both survive.
	c[dataset.Videos] = dataset.NewTable(
		[]string{dataset.ColUsername, dataset.ColTitle, dataset.ColURL},
		[]dataset.Row{
			{dataset.ColUsername: "otro", dataset.ColTitle: "especial izquierda chilena", dataset.ColURL: "https://v/9"},
			{dataset.ColUsername: "ana_politica", dataset.ColTitle: "sin relación", dataset.ColURL: "https://v/1"},
		},
	)

	result := filter.Apply(c, "izquierda")

	videos := result.Datasets[dataset.Videos]
	assert.Equal(t, 2, videos.Len())
}

func TestFilterFallbackWhenNothingMatches(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)
	c := testCollection()

	result := filter.Apply(c, "xylophone")

	assert.True(t, result.Applied)
	assert.True(t, result.FellBack)
	assert.Equal(t, result.Original, result.Filtered)
	for name := range c {
		assert.Equal(t, c[name].Len(), result.Datasets[name].Len())
	}
}

func TestFilterIdempotent(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)
	c := testCollection()

	once := filter.Apply(c, "xylophone")
	twice := filter.Apply(once.Datasets, "xylophone")

	assert.Equal(t, once.Filtered, twice.Filtered)
	for name := range once.Datasets {
		assert.Equal(t, once.Datasets[name].Len(), twice.Datasets[name].Len())
	}
}

func TestFilterInfoArithmetic(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)
	c := testCollection()

	result := filter.Apply(c, "revolución")
	info := result.Info()

	excluded := 0
	for name := range c {
		excluded += c[name].Len() - result.Datasets[name].Len()
	}

	assert.Equal(t, info.OriginalRecords-info.FilteredRecords, excluded)
	assert.True(t, info.Filtered)
	assert.Equal(t, "revolución", info.Query)
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	filter := NewCrossDatasetFilter(nil)
	c := testCollection()
	before := c.TotalRows()

	_ = filter.Apply(c, "revolución")

	assert.Equal(t, before, c.TotalRows())
	assert.Equal(t, 3, c[dataset.Videos].Len())
}
