package games

import (
	"strings"

	"ggp/game"
)

const (
	RoleLeft  game.Role = "left"
	RoleRight game.Role = "right"
)

var rpsBeats = map[game.Move]game.Move{
	"rock":     "scissors",
	"paper":    "rock",
	"scissors": "paper",
}

// RockPaperScissors is a one-shot simultaneous-move game. Both roles are in
// control of the initial state; the successor records both choices and is
// terminal.
func RockPaperScissors() *game.Rules {
	return &game.Rules{
		Name:  "rockpaperscissors",
		Roles: []game.Role{RoleLeft, RoleRight},
		Init: func() game.State {
			return game.MakeState(
				game.F("control", string(RoleLeft)),
				game.F("control", string(RoleRight)),
			)
		},
		Legal: func(state game.State, role game.Role) []game.Move {
			return []game.Move{"paper", "rock", "scissors"}
		},
		Apply: func(state game.State, turn game.Turn) game.State {
			var facts []string
			for _, play := range turn.Plays() {
				facts = append(facts, game.F("chose", string(play.Role), string(play.Move)))
			}
			return game.MakeState(facts...)
		},
		Terminal: func(state game.State) bool {
			_, ok := rpsChoice(state, RoleLeft)
			return ok
		},
		Goals: func(state game.State) map[game.Role]int {
			leftMove, _ := rpsChoice(state, RoleLeft)
			rightMove, _ := rpsChoice(state, RoleRight)
			switch {
			case rpsBeats[leftMove] == rightMove:
				return map[game.Role]int{RoleLeft: 100, RoleRight: 0}
			case rpsBeats[rightMove] == leftMove:
				return map[game.Role]int{RoleLeft: 0, RoleRight: 100}
			default:
				return map[game.Role]int{RoleLeft: 50, RoleRight: 50}
			}
		},
	}
}

func rpsChoice(state game.State, role game.Role) (game.Move, bool) {
	prefix := "chose(" + string(role) + ","
	for _, fact := range state.Facts() {
		if strings.HasPrefix(fact, prefix) {
			return game.Move(fact[len(prefix) : len(fact)-1]), true
		}
	}
	return "", false
}
