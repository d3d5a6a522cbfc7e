// Package dataset provides the tabular data model for the research engine.
// Tables are loaded once and treated as read-only; filtering produces
// derived views that share row storage with the source.
package dataset

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Name identifies one of the known datasets.
type Name string

const (
	Accounts  Name = "accounts"
	Videos    Name = "videos"
	Subtitles Name = "subtitles"
	Words     Name = "words"
)

// AllNames lists the known datasets in declaration order. The order is
// contractual: relevance ranking breaks ties by it.
var AllNames = []Name{Accounts, Videos, Subtitles, Words}

// Column names shared across datasets.
const (
	ColUsername     = "username"
	ColFollowers    = "followers"
	ColFollowersNum = "followers_num"
	ColPerspective  = "perspective"
	ColThemes       = "themes"
	ColAge          = "age"
	ColTitle        = "title"
	ColViews        = "views"
	ColDate         = "date"
	ColURL          = "url"
	ColText         = "text"
	ColWord         = "word"
	ColSentiment    = "sentimiento"
	ColFrequency    = "frequency"
	ColType1        = "type_1"
	ColType2        = "type_2"
)

// Row is a single record keyed by column name. Values are kept as the raw
// strings read from disk; numeric access goes through the Safe* helpers.
type Row map[string]string

// Table is a named columnar dataset.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a table from a column list and rows.
func NewTable(columns []string, rows []Row) Table {
	return Table{Columns: columns, Rows: rows}
}

// EmptyTable returns a zero-row table preserving the given schema.
func EmptyTable(columns []string) Table {
	return Table{Columns: columns, Rows: nil}
}

// Len returns the row count.
func (t Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// HasColumn reports whether the table schema contains the column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Filter returns a derived table containing the rows for which keep is true.
// Row maps are shared with the source, never copied or mutated.
func (t Table) Filter(keep func(Row) bool) Table {
	out := Table{Columns: t.Columns}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Values returns the non-blank values of one column in row order.
func (t Table) Values(col string) []string {
	var out []string
	for _, r := range t.Rows {
		if v := strings.TrimSpace(r[col]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ValueCount pairs a distinct column value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts tallies the distinct non-blank values of a column, ordered by
// descending count with alphabetical ties.
func (t Table) ValueCounts(col string) []ValueCount {
	counts := make(map[string]int)
	for _, r := range t.Rows {
		if v := strings.TrimSpace(r[col]); v != "" {
			counts[v]++
		}
	}

	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Collection maps dataset names to their tables.
type Collection map[Name]Table

// TotalRows sums the row counts of every table in the collection.
func (c Collection) TotalRows() int {
	total := 0
	for _, t := range c {
		total += t.Len()
	}
	return total
}

// Get returns the named table, or an empty table if the name is absent.
// Absence of a dataset degrades to zero rows, never to an error.
func (c Collection) Get(name Name) Table {
	if t, ok := c[name]; ok {
		return t
	}
	return Table{}
}

// SafeFloat parses a cell as float64, substituting def for blank or
// malformed values.
func SafeFloat(v string, def float64) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return def
	}
	return f
}

// SafeInt parses a cell as int, substituting def for blank or malformed
// values. Accepts float-formatted cells like "3.0".
func SafeInt(v string, def int) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return def
}

// ParseFollowers converts follower counts like "56.1K" or "1.2M" into a
// plain number. Bare numeric strings pass through.
func ParseFollowers(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(v, "K"), strings.HasSuffix(v, "k"):
		mult = 1_000
		v = v[:len(v)-1]
	case strings.HasSuffix(v, "M"), strings.HasSuffix(v, "m"):
		mult = 1_000_000
		v = v[:len(v)-1]
	case strings.HasSuffix(v, "B"), strings.HasSuffix(v, "b"):
		mult = 1_000_000_000
		v = v[:len(v)-1]
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f * mult, true
}

// dateLayouts lists the formats seen across dataset exports.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"2006-01-02T15:04:05",
}

// ParseDate parses a date cell against the known export layouts.
func ParseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizePerspective canonicalizes the political perspective labels used
// in the accounts export. Unknown markers collapse to "Sin clasificar".
func NormalizePerspective(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "izquierda":
		return "izquierda"
	case "derecha":
		return "derecha"
	case "centro":
		return "centro"
	case "", "?", "unknown", "sin clasificar":
		return "Sin clasificar"
	default:
		return v
	}
}
