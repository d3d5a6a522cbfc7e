// Package main provides the research engine CLI entrypoint.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/politiktok/research-engine/internal/config"
	"github.com/politiktok/research-engine/internal/dataset"
	"github.com/politiktok/research-engine/internal/observability"
	"github.com/politiktok/research-engine/internal/queryengine"
)

var (
	cfgFile    string
	dataDir    string
	outputJSON bool
	verbose    bool

	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "research-cli",
	Short: "Research engine CLI for one-shot queries over local datasets",
	Long: `Research engine CLI runs the query pipeline against local CSV datasets.

Use this tool to:
- Ask free-text Spanish questions and inspect the resolved payload
- Print the per-dataset data summary
- Check which datasets load and how many rows each has

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if dataDir != "" {
			cfg.Data.Dir = dataDir
		}

		level := "error"
		if verbose {
			level = "debug"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      "console",
			ServiceName: "research-cli",
		})

		return nil
	},
}

// queryCmd runs the full pipeline for one question.
var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Run a question through the query pipeline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vizType, _ := cmd.Flags().GetString("type")

		engine, _ := buildEngine()
		resp := engine.Query(context.Background(), queryengine.Request{
			Query:         args[0],
			RequestedType: vizType,
		})

		if outputJSON {
			return printJSON(resp)
		}

		printPayload(resp)
		return nil
	},
}

// summaryCmd prints the per-dataset overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the per-dataset data summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _ := buildEngine()
		summary := engine.DataSummary()

		if outputJSON {
			return printJSON(summary)
		}

		printSummary(summary)
		return nil
	},
}

// datasetsCmd reports which datasets load and their row counts.
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the datasets and their row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store := buildEngine()
		snapshot := store.Snapshot()

		if outputJSON {
			rows := make(map[string]int, len(snapshot))
			for name, t := range snapshot {
				rows[string(name)] = t.Len()
			}
			return printJSON(rows)
		}

		printDatasets(snapshot)
		return nil
	},
}

// buildEngine loads the datasets and wires the pipeline without a cache;
// CLI runs are one-shot.
func buildEngine() (*queryengine.Engine, *dataset.Store) {
	var spin *spinner.Spinner
	if !outputJSON {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = " loading datasets..."
		spin.Start()
	}

	loader := dataset.NewLoader(logger)
	store := dataset.NewStore(loader.LoadAll(cfg.Data))

	if spin != nil {
		spin.Stop()
	}

	engineCfg := cfg.Query
	engineCfg.CacheResults = false
	return queryengine.NewEngine(store, nil, engineCfg, 0, logger), store
}

// printJSON writes any value as indented JSON to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "override dataset directory")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	queryCmd.Flags().StringP("type", "t", "", "requested visualization type")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(datasetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
