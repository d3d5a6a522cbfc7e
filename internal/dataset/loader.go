package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/politiktok/research-engine/internal/config"
	"github.com/politiktok/research-engine/internal/observability"
)

// Loader reads the dataset CSV exports from disk. A missing or unreadable
// file degrades to an empty table so that downstream stages keep working.
type Loader struct {
	logger *observability.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *observability.Logger) *Loader {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Loader{logger: logger.WithComponent("dataset_loader")}
}

// LoadAll reads the four datasets named in cfg and applies the per-dataset
// processing steps (derived numeric columns, normalized labels).
func (l *Loader) LoadAll(cfg config.DataConfig) Collection {
	files := map[Name]string{
		Accounts:  cfg.AccountsFile,
		Videos:    cfg.VideosFile,
		Subtitles: cfg.SubtitlesFile,
		Words:     cfg.WordsFile,
	}

	out := make(Collection, len(files))
	for _, name := range AllNames {
		path := filepath.Join(cfg.Dir, files[name])
		table, err := l.loadFile(path)
		if err != nil {
			l.logger.Warn().
				Str("dataset", string(name)).
				Str("path", path).
				Err(err).
				Msg("dataset unavailable, using empty table")
			out[name] = Table{}
			continue
		}

		out[name] = l.process(name, table)
		l.logger.Info().
			Str("dataset", string(name)).
			Int("rows", out[name].Len()).
			Msg("dataset loaded")
	}

	return out
}

// loadFile reads one CSV file into a Table. The first record is the header.
func (l *Loader) loadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses CSV content into a Table. Short records are padded with
// blanks and long records truncated to the header width.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}

	table := Table{Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read record: %w", err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// process applies per-dataset cleaning: follower-count expansion and
// perspective normalization for accounts. Other datasets keep their raw
// cells; numeric access goes through the Safe* helpers.
func (l *Loader) process(name Name, t Table) Table {
	if name != Accounts {
		return t
	}

	if t.HasColumn(ColFollowers) && !t.HasColumn(ColFollowersNum) {
		t.Columns = append(t.Columns, ColFollowersNum)
	}
	for _, row := range t.Rows {
		if raw, ok := row[ColFollowers]; ok {
			if n, parsed := ParseFollowers(raw); parsed {
				row[ColFollowersNum] = fmt.Sprintf("%.0f", n)
			} else {
				row[ColFollowersNum] = "0"
			}
		}
		if _, ok := row[ColPerspective]; ok {
			row[ColPerspective] = NormalizePerspective(row[ColPerspective])
		}
	}

	return t
}
