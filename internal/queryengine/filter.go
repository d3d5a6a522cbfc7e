package queryengine

import (
	"strings"

	"github.com/politiktok/research-engine/internal/dataset"
)

// FilterInfo describes how a term filter changed the data. It travels with
// every payload produced from filtered data.
type FilterInfo struct {
	Query           string `json:"query"`
	OriginalRecords int    `json:"original_records"`
	FilteredRecords int    `json:"filtered_records"`
	Filtered        bool   `json:"filtered"`
}

// FilterResult is the outcome of applying a term filter to a collection.
type FilterResult struct {
	Datasets dataset.Collection
	Term     string
	// Applied is false when the term was blank or generic and the data
	// passed through untouched.
	Applied bool
	// FellBack is true when the filter matched nothing anywhere and the
	// original data was returned instead.
	FellBack bool
	Original int
	Filtered int
}

// Info converts the result into the payload-facing bookkeeping block.
func (r FilterResult) Info() FilterInfo {
	return FilterInfo{
		Query:           r.Term,
		OriginalRecords: r.Original,
		FilteredRecords: r.Filtered,
		Filtered:        r.Applied,
	}
}

// Narrowed reports whether the filter actually excluded any rows.
func (r FilterResult) Narrowed() bool {
	return r.Applied && r.Filtered < r.Original
}

// CrossDatasetFilter narrows each dataset by substring match on its
// designated text columns, then propagates matches across datasets through
// shared username and URL keys.
type CrossDatasetFilter struct {
	vocab *Vocabulary
}

// NewCrossDatasetFilter creates a filter over the given vocabulary.
func NewCrossDatasetFilter(vocab *Vocabulary) *CrossDatasetFilter {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &CrossDatasetFilter{vocab: vocab}
}

// Generic reports whether a term is too unspecific to filter by.
func (f *CrossDatasetFilter) Generic(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	return f.vocab.GenericTerms[term] || f.vocab.GenericTerms[foldAccents(term)]
}

// Apply filters the collection by term. A blank or generic term returns
// the input unchanged. Source tables are never mutated; every output table
// is a derived view sharing row storage with its source.
func (f *CrossDatasetFilter) Apply(c dataset.Collection, term string) FilterResult {
	result := FilterResult{
		Datasets: c,
		Term:     term,
		Original: c.TotalRows(),
		Filtered: c.TotalRows(),
	}

	term = strings.TrimSpace(term)
	if term == "" || f.Generic(term) {
		return result
	}

	result.Applied = true
	needle := strings.ToLower(term)

	// Row masks per dataset, indexed against the original tables, so
	// propagation can union matches without duplicating rows.
	masks := make(map[dataset.Name][]bool, len(c))
	for name, t := range c {
		mask := make([]bool, t.Len())
		for i, row := range t.Rows {
			for _, col := range f.vocab.SearchColumns[name] {
				if strings.Contains(strings.ToLower(row[col]), needle) {
					mask[i] = true
					break
				}
			}
		}
		masks[name] = mask
	}

	f.propagate(c, masks, needle)

	filtered := make(dataset.Collection, len(c))
	total := 0
	for name, t := range c {
		sub := applyMask(t, masks[name])
		filtered[name] = sub
		total += sub.Len()
	}

	if total == 0 {
		// Nothing matched anywhere. Showing general data beats showing
		// nothing; the caller distinguishes this from a narrowed result.
		result.FellBack = true
		return result
	}

	result.Datasets = filtered
	result.Filtered = total
	return result
}

// propagate carries matches across datasets via shared keys: spoken-word
// matches reach videos through subtitle URLs, and account matches pull in
// the account's videos and subtitles. Unions only ever add to a mask, so
// independently found matches are preserved.
func (f *CrossDatasetFilter) propagate(c dataset.Collection, masks map[dataset.Name][]bool, needle string) {
	_, hasWords := c[dataset.Words]
	videos, hasVideos := c[dataset.Videos]
	subtitles, hasSubtitles := c[dataset.Subtitles]
	accounts, hasAccounts := c[dataset.Accounts]

	// A lexicon match with no direct video match means the term lives in
	// spoken content. Recover the videos through subtitle text.
	if hasWords && hasVideos && anySet(masks[dataset.Words]) && !anySet(masks[dataset.Videos]) && hasSubtitles {
		urls := make(map[string]bool)
		for _, row := range subtitles.Rows {
			if strings.Contains(strings.ToLower(row[dataset.ColText]), needle) {
				if u := row[dataset.ColURL]; u != "" {
					urls[u] = true
				}
			}
		}
		unionByKey(videos, masks[dataset.Videos], dataset.ColURL, urls)
	}

	// Matched accounts pull their videos and subtitles in by username.
	if hasAccounts && anySet(masks[dataset.Accounts]) {
		usernames := make(map[string]bool)
		for i, row := range accounts.Rows {
			if masks[dataset.Accounts][i] {
				if u := strings.ToLower(row[dataset.ColUsername]); u != "" {
					usernames[u] = true
				}
			}
		}
		if hasVideos {
			unionByLowerKey(videos, masks[dataset.Videos], dataset.ColUsername, usernames)
		}
		if hasSubtitles {
			unionByLowerKey(subtitles, masks[dataset.Subtitles], dataset.ColUsername, usernames)
		}
	}

	// Matched subtitles, direct or recovered above, reach their videos by
	// URL.
	if hasSubtitles && hasVideos && anySet(masks[dataset.Subtitles]) {
		urls := make(map[string]bool)
		for i, row := range subtitles.Rows {
			if masks[dataset.Subtitles][i] {
				if u := row[dataset.ColURL]; u != "" {
					urls[u] = true
				}
			}
		}
		unionByKey(videos, masks[dataset.Videos], dataset.ColURL, urls)
	}
}

// applyMask builds the derived table selected by a row mask.
func applyMask(t dataset.Table, mask []bool) dataset.Table {
	out := dataset.Table{Columns: t.Columns}
	for i, row := range t.Rows {
		if i < len(mask) && mask[i] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// anySet reports whether a mask has at least one selected row.
func anySet(mask []bool) bool {
	for _, b := range mask {
		if b {
			return true
		}
	}
	return false
}

// unionByKey sets mask bits for rows whose column value is in keys.
func unionByKey(t dataset.Table, mask []bool, col string, keys map[string]bool) {
	for i, row := range t.Rows {
		if keys[row[col]] {
			mask[i] = true
		}
	}
}

// unionByLowerKey is unionByKey with case-insensitive key comparison.
func unionByLowerKey(t dataset.Table, mask []bool, col string, keys map[string]bool) {
	for i, row := range t.Rows {
		if keys[strings.ToLower(row[col])] {
			mask[i] = true
		}
	}
}
