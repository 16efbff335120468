// Package experiments runs benchmark matchups between agent configurations
// and writes the results as CSV for offline analysis.
package experiments

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ggp/agent"
	"ggp/engine"
	"ggp/experiments/metrics"
	"ggp/game"
	"ggp/gameclock"
	"ggp/games"
	"ggp/searcher"
)

// DefaultMatches is the number of matches played per matchup.
const DefaultMatches = 30

// Matchup pairs two agent configurations: Agent1 takes the first role in
// sorted order, Agent2 the second.
type Matchup struct {
	Agent1 metrics.AgentConfig
	Agent2 metrics.AgentConfig
}

// metered is implemented by the tree agents: the metrics of the last move
// search.
type metered interface {
	Metrics() searcher.MoveMetrics
}

// Run plays every matchup for the named game and writes agent configs,
// match records and search records under experiments/<name>/<timestamp>/.
func Run(ctx context.Context, name, gameName string, matchesPer int, matchups []Matchup, startclock, playclock gameclock.Configuration) error {
	if matchesPer <= 0 {
		matchesPer = DefaultMatches
	}

	log.Info().Msgf("starting %s experiment on %s...", name, gameName)

	var configs []metrics.AgentConfig
	seen := map[int]bool{}
	for _, matchup := range matchups {
		for _, config := range []metrics.AgentConfig{matchup.Agent1, matchup.Agent2} {
			if !seen[config.ID] {
				seen[config.ID] = true
				configs = append(configs, config)
			}
		}
	}

	count := 0
	var matchRecords []metrics.MatchRecord
	var searchRecords []metrics.SearchRecord

	for mi, matchup := range matchups {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...",
			mi+1, len(matchups), matchup.Agent1, matchup.Agent2)

		for i := 0; i < matchesPer; i++ {
			count++
			matchRecord, moveRecords, err := runMatch(ctx, count, gameName, matchup, startclock, playclock)
			if err != nil {
				return fmt.Errorf("matchup %d match %d: %w", mi+1, i+1, err)
			}
			matchRecords = append(matchRecords, matchRecord)
			searchRecords = append(searchRecords, moveRecords...)

			log.Info().Msgf("completed matchup %d of %d match %d of %d with goals %s",
				mi+1, len(matchups), i+1, matchesPer, matchRecord.Goals)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchups))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteMatchRecords(matchRecords); err != nil {
		return fmt.Errorf("failed to write match records: %w", err)
	}
	if err := writer.WriteSearchRecords(searchRecords); err != nil {
		return fmt.Errorf("failed to write search records: %w", err)
	}
	log.Info().Msg("stored experiment records")
	return nil
}

// runMatch plays one match of the matchup and harvests its records.
func runMatch(ctx context.Context, id int, gameName string, matchup Matchup, startclock, playclock gameclock.Configuration) (metrics.MatchRecord, []metrics.SearchRecord, error) {
	interp, err := games.ByName(gameName)
	if err != nil {
		return metrics.MatchRecord{}, nil, err
	}

	var roles []game.Role
	for _, role := range interp.Roles() {
		if role != game.RoleRandom {
			roles = append(roles, role)
		}
	}
	configs := []metrics.AgentConfig{matchup.Agent1, matchup.Agent2}
	agents := make(map[game.Role]agent.Agent, len(roles))
	configOf := make(map[game.Role]metrics.AgentConfig, len(roles))
	for i, role := range roles {
		config := configs[i%len(configs)]
		built, err := BuildAgent(config)
		if err != nil {
			return metrics.MatchRecord{}, nil, err
		}
		agents[role] = built
		configOf[role] = config
	}

	match, err := engine.NewMatch(interp, agents,
		engine.WithStartclock(startclock), engine.WithPlayclock(playclock))
	if err != nil {
		return metrics.MatchRecord{}, nil, err
	}

	start := time.Now()
	record, err := match.Run(ctx)
	if err != nil {
		return metrics.MatchRecord{}, nil, err
	}

	matchRecord := metrics.MatchRecord{
		ID:        id,
		Match:     match.ID(),
		Game:      gameName,
		Agent1:    matchup.Agent1.ID,
		Agent2:    matchup.Agent2.ID,
		Plies:     record.Plies(),
		Goals:     renderGoals(record.Goals),
		StartTime: start,
		Duration:  time.Since(start),
	}
	var searchRecords []metrics.SearchRecord
	for role, built := range agents {
		if m, ok := built.(metered); ok {
			searchRecords = append(searchRecords, metrics.SearchRecord{
				Match:       id,
				Agent:       configOf[role].ID,
				Role:        string(role),
				MoveMetrics: m.Metrics(),
			})
		}
	}
	return matchRecord, searchRecords, nil
}

// BuildAgent constructs an agent from its experiment configuration. Tree
// agents always collect metrics.
func BuildAgent(config metrics.AgentConfig) (agent.Agent, error) {
	options := []agent.Option{agent.WithMetrics()}
	if config.Seed != 0 {
		options = append(options, agent.WithSeed(config.Seed))
	}
	switch config.Kind {
	case "mcts":
		return agent.NewMCTS(options...), nil
	case "soismcts":
		return agent.NewSOISMCTS(options...), nil
	case "multiobserver":
		return agent.NewMultiObserver(options...), nil
	case "random":
		if config.Seed != 0 {
			return agent.NewSeededRandom(config.Seed), nil
		}
		return agent.NewRandom(), nil
	case "arbitrary":
		return agent.NewArbitrary(), nil
	default:
		return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
	}
}

func renderGoals(goals map[game.Role]int) string {
	roles := make([]string, 0, len(goals))
	for role := range goals {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	parts := make([]string, len(roles))
	for i, role := range roles {
		parts[i] = fmt.Sprintf("%s:%d", role, goals[game.Role(role)])
	}
	return strings.Join(parts, " ")
}
