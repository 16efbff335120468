package games

import (
	"fmt"
	"sort"

	"ggp/game"
)

var catalog = map[string]func() *game.Rules{
	"tictactoe":         TicTacToe,
	"rockpaperscissors": RockPaperScissors,
	"nim":               Nim,
	"minipoker":         MiniPoker,
	"darksplitcorridor": DarkSplitCorridor34,
}

// ByName returns an interpreter for the named built-in game.
func ByName(name string) (game.Interpreter, error) {
	rules, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown game %q", name)
	}
	return game.NewRulesInterpreter(rules()), nil
}

// Names lists the built-in games in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
