// Package main provides console output helpers for the research CLI.
package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/politiktok/research-engine/internal/dataset"
	"github.com/politiktok/research-engine/internal/queryengine"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	label   = color.New(color.FgYellow)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
)

// printPayload renders a query response for the terminal.
func printPayload(resp queryengine.Response) {
	heading.Printf("%s\n", resp.Payload.Title)
	fmt.Printf("type: %s    latency: %dms\n", resp.Payload.Type, resp.LatencyMS)

	if resp.Term != "" {
		label.Print("term: ")
		fmt.Println(resp.Term)
	}
	for _, u := range resp.Usernames {
		label.Print("user: ")
		fmt.Println("@" + u)
	}

	if resp.Payload.Message != "" {
		bad.Println(resp.Payload.Message)
		if resp.Payload.Suggestion != "" {
			fmt.Println(resp.Payload.Suggestion)
		}
	}

	for _, score := range resp.Relevance {
		fmt.Printf("  %-10s %.2f\n", score.Dataset, score.Score)
	}

	for _, chart := range resp.Payload.Charts {
		label.Printf("\n%s (%s)\n", chart.Title, chart.Kind)
		for i, l := range chart.Labels {
			fmt.Printf("  %-30s %.1f\n", l, chart.Values[i])
		}
	}

	if len(resp.Payload.Stats) > 0 {
		fmt.Println()
		for _, s := range resp.Payload.Stats {
			fmt.Printf("  %s: %s\n", s.Name, s.Value)
		}
	}

	if fi := resp.Payload.FilterInfo; fi != nil {
		fmt.Printf("\nfiltered %d of %d rows for '%s'\n", fi.FilteredRecords, fi.OriginalRecords, fi.Query)
	}
}

// printSummary renders the data summary for the terminal.
func printSummary(summary queryengine.DataSummary) {
	for _, name := range dataset.AllNames {
		overview, ok := summary[name]
		if !ok {
			continue
		}
		heading.Printf("%s\n", name)
		fmt.Printf("  rows: %d  columns: %v\n", overview.Rows, overview.Columns)
		for _, s := range overview.Stats {
			fmt.Printf("  %s: %s\n", s.Name, s.Value)
		}
	}
}

// printDatasets renders dataset availability for the terminal.
func printDatasets(snapshot dataset.Collection) {
	for _, name := range dataset.AllNames {
		t := snapshot.Get(name)
		if t.Empty() {
			bad.Printf("✗ %-10s empty\n", name)
			continue
		}
		good.Printf("✓ %-10s %d rows\n", name, t.Len())
	}
}
