package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ggp/agent"
	"ggp/experiments/metrics"
	"ggp/game"
	"ggp/gameclock"
)

func TestBuildAgent(t *testing.T) {
	t.Run("known kinds", func(t *testing.T) {
		for kind, want := range map[string]agent.Agent{
			"mcts":          &agent.MCTS{},
			"soismcts":      &agent.SOISMCTS{},
			"multiobserver": &agent.MultiObserver{},
			"random":        &agent.Random{},
			"arbitrary":     &agent.Arbitrary{},
		} {
			built, err := BuildAgent(metrics.AgentConfig{ID: 1, Kind: kind, Seed: 13})
			require.NoError(t, err, "kind %q", kind)
			require.IsType(t, want, built, "kind %q", kind)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := BuildAgent(metrics.AgentConfig{ID: 1, Kind: "oracle"})
		require.Error(t, err)
	})
}

func TestRenderGoals(t *testing.T) {
	goals := map[game.Role]int{"second": 0, "first": 1}

	require.Equal(t, "first:1 second:0", renderGoals(goals))
}

func TestRunWritesRecords(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	matchup := Matchup{
		Agent1: metrics.AgentConfig{ID: 1, Kind: "random", Seed: 8},
		Agent2: metrics.AgentConfig{ID: 2, Kind: "random", Seed: 9},
	}
	clock := gameclock.Configuration{TotalTime: 10 * time.Second}

	err = Run(context.Background(), "smoke", "nim", 2, []Matchup{matchup}, clock, clock)
	require.NoError(t, err)

	runs, err := filepath.Glob(filepath.Join("experiments", "smoke", "*"))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	for _, file := range []string{"agent_configs.csv", "match_records.csv", "search_records.csv"} {
		_, err := os.Stat(filepath.Join(runs[0], file))
		require.NoError(t, err, "missing %s", file)
	}
}
