// Package metrics holds the experiment record types and the CSV writer for
// benchmark runs.
package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ggp/searcher"
)

// AgentConfig identifies one agent build used in an experiment.
type AgentConfig struct {
	ID   int
	Kind string // mcts, soismcts, multiobserver, random, arbitrary
	Seed uint64
}

// MatchRecord summarizes one finished match.
type MatchRecord struct {
	ID        int
	Match     string // engine match identifier
	Game      string
	Agent1    int // AgentConfig.ID
	Agent2    int // AgentConfig.ID
	Plies     int
	Goals     string
	StartTime time.Time
	Duration  time.Duration
}

// SearchRecord captures one agent's search metrics for one match.
type SearchRecord struct {
	Match int // MatchRecord.ID
	Agent int // AgentConfig.ID
	Role  string
	searcher.MoveMetrics
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped output directory for the named experiment.
func NewWriter(name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("experiments", name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	path := filepath.Join(w.baseDir, "agent_configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create agent configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "kind", "seed"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write agent configs header: %w", err)
	}

	for _, config := range configs {
		row := []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.FormatUint(config.Seed, 10),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write agent config row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteMatchRecords(records []MatchRecord) error {
	path := filepath.Join(w.baseDir, "match_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create match records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "match", "game", "agent1", "agent2", "plies", "goals", "start_time", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write match records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			record.Match,
			record.Game,
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.Itoa(record.Plies),
			record.Goals,
			record.StartTime.Format(time.RFC3339),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write match record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteSearchRecords(records []SearchRecord) error {
	path := filepath.Join(w.baseDir, "search_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create search records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"match", "agent", "role", "duration", "develop_duration", "iterations", "full_playouts", "tree_reused"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write search records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Match),
			strconv.Itoa(record.Agent),
			record.Role,
			record.Duration.String(),
			record.DevelopDuration.String(),
			strconv.FormatInt(record.Iterations, 10),
			strconv.FormatInt(record.FullPlayouts, 10),
			strconv.FormatBool(record.TreeReused),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write search record row: %w", err)
		}
	}

	return nil
}
