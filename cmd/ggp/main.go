// Command ggp runs local general-game-playing matches and benchmarks.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ggp/agent"
	"ggp/engine"
	"ggp/experiments"
	"ggp/experiments/metrics"
	"ggp/game"
	"ggp/gameclock"
	"ggp/games"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCommand().Execute(); err != nil {
		log.Fatal().Msgf("%v", err)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ggp",
		Short: "General game playing: imperfect-information tree search agents",
	}
	root.AddCommand(matchCommand(), benchCommand(), gamesCommand())
	return root
}

// matchConfig is the YAML shape of a match description: the game, one agent
// kind per role, and the two clocks in either compact or mapping notation.
type matchConfig struct {
	Game       string                  `yaml:"game"`
	Agents     map[string]string       `yaml:"agents"`
	Startclock gameclock.Configuration `yaml:"startclock"`
	Playclock  gameclock.Configuration `yaml:"playclock"`
	Seed       uint64                  `yaml:"seed"`
}

func defaultMatchConfig() matchConfig {
	return matchConfig{
		Game:       "tictactoe",
		Startclock: gameclock.DefaultStartclock(),
		Playclock:  gameclock.DefaultPlayclock(),
	}
}

func matchCommand() *cobra.Command {
	config := defaultMatchConfig()
	var configPath string
	var agentKinds []string
	var startclock, playclock string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run one local match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				raw, err := os.ReadFile(configPath)
				if err != nil {
					return err
				}
				if err := yaml.Unmarshal(raw, &config); err != nil {
					return fmt.Errorf("config %s: %w", configPath, err)
				}
			}
			if cmd.Flags().Changed("game") {
				config.Game, _ = cmd.Flags().GetString("game")
			}
			if startclock != "" {
				parsed, err := gameclock.ParseConfiguration(startclock)
				if err != nil {
					return err
				}
				config.Startclock = parsed
			}
			if playclock != "" {
				parsed, err := gameclock.ParseConfiguration(playclock)
				if err != nil {
					return err
				}
				config.Playclock = parsed
			}
			return runMatch(cmd.Context(), config, agentKinds)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML match description")
	cmd.Flags().String("game", config.Game, "built-in game to play")
	cmd.Flags().StringSliceVar(&agentKinds, "agents", nil, "agent kinds by sorted role order (e.g. mcts,random)")
	cmd.Flags().StringVar(&startclock, "startclock", "", "startclock, e.g. 60s")
	cmd.Flags().StringVar(&playclock, "playclock", "", "playclock, e.g. 60s+1s(5s)")
	return cmd
}

func runMatch(ctx context.Context, config matchConfig, agentKinds []string) error {
	interp, err := games.ByName(config.Game)
	if err != nil {
		return err
	}
	var roles []game.Role
	for _, role := range interp.Roles() {
		if role != game.RoleRandom {
			roles = append(roles, role)
		}
	}

	kindOf := func(i int, role game.Role) string {
		if kind, ok := config.Agents[string(role)]; ok {
			return kind
		}
		if i < len(agentKinds) {
			return agentKinds[i]
		}
		return "multiobserver"
	}
	agents := make(map[game.Role]agent.Agent, len(roles))
	for i, role := range roles {
		built, err := experiments.BuildAgent(metrics.AgentConfig{ID: i + 1, Kind: kindOf(i, role), Seed: config.Seed})
		if err != nil {
			return err
		}
		agents[role] = built
	}

	match, err := engine.NewMatch(interp, agents,
		engine.WithStartclock(config.Startclock), engine.WithPlayclock(config.Playclock))
	if err != nil {
		return err
	}
	record, err := match.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("match %s: %d plies\n", record.ID, record.Plies())
	for _, line := range sortedGoals(record.Goals) {
		fmt.Println(line)
	}
	return nil
}

func sortedGoals(goals map[game.Role]int) []string {
	var lines []string
	for role, goal := range goals {
		lines = append(lines, fmt.Sprintf("  %s: %d", role, goal))
	}
	sort.Strings(lines)
	return lines
}

func benchCommand() *cobra.Command {
	var gameName, name string
	var matches int
	var kinds []string
	var startclock, playclock string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a benchmark matchup and write CSV records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(kinds) != 2 {
				return fmt.Errorf("bench needs exactly two agent kinds, got %d", len(kinds))
			}
			start, err := gameclock.ParseConfiguration(startclock)
			if err != nil {
				return err
			}
			play, err := gameclock.ParseConfiguration(playclock)
			if err != nil {
				return err
			}
			matchups := []experiments.Matchup{{
				Agent1: metrics.AgentConfig{ID: 1, Kind: kinds[0]},
				Agent2: metrics.AgentConfig{ID: 2, Kind: kinds[1]},
			}}
			return experiments.Run(cmd.Context(), name, gameName, matches, matchups, start, play)
		},
	}
	cmd.Flags().StringVar(&gameName, "game", "nim", "built-in game to benchmark")
	cmd.Flags().StringVar(&name, "name", "bench", "experiment name for the output directory")
	cmd.Flags().IntVar(&matches, "matches", experiments.DefaultMatches, "matches per matchup")
	cmd.Flags().StringSliceVar(&kinds, "agents", []string{"mcts", "random"}, "the two agent kinds")
	cmd.Flags().StringVar(&startclock, "startclock", "10s", "startclock")
	cmd.Flags().StringVar(&playclock, "playclock", "1s+100ms(100ms)", "playclock")
	return cmd
}

func gamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List the built-in games",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(strings.Join(games.Names(), "\n"))
		},
	}
}
