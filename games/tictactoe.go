// Package games is the built-in game catalog. Every game is a scripted
// game.Rules definition playable through game.RulesInterpreter.
package games

import (
	"fmt"
	"strings"

	"ggp/game"
)

const (
	RoleX game.Role = "x"
	RoleO game.Role = "o"
)

// TicTacToe is the standard 3×3 game. Facts: control(r) and cell(row,col,mark);
// moves are cell(row,col). x moves first; a win scores 100/0, a full board 50/50.
func TicTacToe() *game.Rules {
	return &game.Rules{
		Name:  "tictactoe",
		Roles: []game.Role{RoleX, RoleO},
		Init: func() game.State {
			return game.MakeState(game.F("control", string(RoleX)))
		},
		Legal: func(state game.State, role game.Role) []game.Move {
			var moves []game.Move
			for row := 1; row <= 3; row++ {
				for col := 1; col <= 3; col++ {
					if tttMarkAt(state, row, col) == "" {
						moves = append(moves, game.Move(tttCell(row, col)))
					}
				}
			}
			return moves
		},
		Apply: func(state game.State, turn game.Turn) game.State {
			play := turn.Plays()[0]
			row, col := tttParseMove(play.Move)
			other := RoleO
			if play.Role == RoleO {
				other = RoleX
			}
			return state.
				Without(game.F("control", string(play.Role))).
				With(
					game.F("cell", fmt.Sprint(row), fmt.Sprint(col), string(play.Role)),
					game.F("control", string(other)),
				)
		},
		Terminal: func(state game.State) bool {
			return tttWinner(state) != "" || tttFull(state)
		},
		Goals: func(state game.State) map[game.Role]int {
			switch tttWinner(state) {
			case RoleX:
				return map[game.Role]int{RoleX: 100, RoleO: 0}
			case RoleO:
				return map[game.Role]int{RoleX: 0, RoleO: 100}
			default:
				return map[game.Role]int{RoleX: 50, RoleO: 50}
			}
		},
	}
}

func tttCell(row, col int) string {
	return game.F("cell", fmt.Sprint(row), fmt.Sprint(col))
}

func tttParseMove(move game.Move) (row, col int) {
	fmt.Sscanf(string(move), "cell(%d,%d)", &row, &col)
	return row, col
}

func tttMarkAt(state game.State, row, col int) game.Role {
	prefix := fmt.Sprintf("cell(%d,%d,", row, col)
	for _, fact := range state.Facts() {
		if strings.HasPrefix(fact, prefix) {
			return game.Role(fact[len(prefix) : len(fact)-1])
		}
	}
	return ""
}

func tttFull(state game.State) bool {
	for row := 1; row <= 3; row++ {
		for col := 1; col <= 3; col++ {
			if tttMarkAt(state, row, col) == "" {
				return false
			}
		}
	}
	return true
}

var tttLines = [][3][2]int{
	{{1, 1}, {1, 2}, {1, 3}},
	{{2, 1}, {2, 2}, {2, 3}},
	{{3, 1}, {3, 2}, {3, 3}},
	{{1, 1}, {2, 1}, {3, 1}},
	{{1, 2}, {2, 2}, {3, 2}},
	{{1, 3}, {2, 3}, {3, 3}},
	{{1, 1}, {2, 2}, {3, 3}},
	{{1, 3}, {2, 2}, {3, 1}},
}

func tttWinner(state game.State) game.Role {
	for _, line := range tttLines {
		mark := tttMarkAt(state, line[0][0], line[0][1])
		if mark == "" {
			continue
		}
		if tttMarkAt(state, line[1][0], line[1][1]) == mark && tttMarkAt(state, line[2][0], line[2][1]) == mark {
			return mark
		}
	}
	return ""
}
