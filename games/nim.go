package games

import (
	"fmt"

	"ggp/game"
)

const (
	RoleFirst  game.Role = "first"
	RoleSecond game.Role = "second"
)

const nimInitialPile = 7

// Nim is the last-take-wins variant: a single pile of 7, take 1–3 per turn.
// Control switches after every take unless the pile is emptied, so the role
// in control of the terminal state is the one who took last and wins.
func Nim() *game.Rules {
	return &game.Rules{
		Name:  "nim",
		Roles: []game.Role{RoleFirst, RoleSecond},
		Init: func() game.State {
			return game.MakeState(
				game.F("control", string(RoleFirst)),
				nimPile(nimInitialPile),
			)
		},
		Legal: func(state game.State, role game.Role) []game.Move {
			size := nimSize(state)
			var moves []game.Move
			for take := 1; take <= 3 && take <= size; take++ {
				moves = append(moves, game.Move(game.F("take", fmt.Sprint(take))))
			}
			return moves
		},
		Apply: func(state game.State, turn game.Turn) game.State {
			play := turn.Plays()[0]
			var take int
			fmt.Sscanf(string(play.Move), "take(%d)", &take)
			size := nimSize(state) - take
			mover := play.Role
			next := mover
			if size > 0 {
				if mover == RoleFirst {
					next = RoleSecond
				} else {
					next = RoleFirst
				}
			}
			return game.MakeState(game.F("control", string(next)), nimPile(size))
		},
		Terminal: func(state game.State) bool {
			return nimSize(state) == 0
		},
		Goals: func(state game.State) map[game.Role]int {
			goals := map[game.Role]int{RoleFirst: 0, RoleSecond: 0}
			for _, role := range game.RolesInControl(state) {
				goals[role] = 1
			}
			return goals
		},
	}
}

func nimPile(size int) string {
	return game.F("pile", game.F("size", fmt.Sprint(size)))
}

func nimSize(state game.State) int {
	var size int
	for _, fact := range state.Facts() {
		if _, err := fmt.Sscanf(fact, "pile(size(%d))", &size); err == nil {
			return size
		}
	}
	return 0
}
