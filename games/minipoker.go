package games

import (
	"strings"

	"ggp/game"
)

const (
	RoleBluffer game.Role = "bluffer"
	RoleCaller  game.Role = "caller"
)

const (
	minipokerDealt     = "dealt"
	minipokerRed       = "red"
	minipokerBlack     = "black"
	minipokerDealRed   = "deal(red)"
	minipokerDealBlack = "deal(black)"
)

// MiniPoker is a three-role bluffing game with a chance deal. The random
// role deals red or black to the bluffer; only the bluffer sees the colour.
// The bluffer holds (or, dealt red, may resign); the caller then calls or
// resigns. Calling a red hand wins big for the caller, calling a black hand
// loses big.
func MiniPoker() *game.Rules {
	return &game.Rules{
		Name:  "minipoker",
		Roles: []game.Role{RoleBluffer, RoleCaller, game.RoleRandom},
		Init: func() game.State {
			return game.MakeState(game.F("control", string(game.RoleRandom)))
		},
		Legal: func(state game.State, role game.Role) []game.Move {
			switch role {
			case game.RoleRandom:
				if state.Has(game.F("control", string(game.RoleRandom))) {
					return []game.Move{minipokerDealBlack, minipokerDealRed}
				}
			case RoleBluffer:
				if state.Has(game.F("control", string(RoleBluffer))) {
					moves := []game.Move{"hold"}
					if state.Has(game.F(minipokerDealt, minipokerRed)) {
						moves = append(moves, "resign")
					}
					return moves
				}
			case RoleCaller:
				if state.Has(game.F("control", string(RoleCaller))) {
					return []game.Move{"call", "resign"}
				}
			}
			return nil
		},
		Apply: func(state game.State, turn game.Turn) game.State {
			play := turn.Plays()[0]
			switch {
			case play.Role == game.RoleRandom:
				colour := minipokerRed
				if play.Move == minipokerDealBlack {
					colour = minipokerBlack
				}
				return game.MakeState(
					game.F("control", string(RoleBluffer)),
					minipokerDealt,
					game.F(minipokerDealt, colour),
				)
			case play.Role == RoleBluffer && play.Move == "hold":
				return state.
					Without(game.F("control", string(RoleBluffer))).
					With(game.F("control", string(RoleCaller)), game.F("held", string(RoleBluffer)))
			case play.Role == RoleBluffer:
				return state.
					Without(game.F("control", string(RoleBluffer))).
					With(game.F("resigned", string(RoleBluffer)))
			case play.Move == "call":
				return state.
					Without(game.F("control", string(RoleCaller))).
					With(game.F("called", string(RoleCaller)))
			default:
				return state.
					Without(game.F("control", string(RoleCaller))).
					With(game.F("resigned", string(RoleCaller)))
			}
		},
		Sees: func(state game.State, role game.Role) game.View {
			if role != RoleCaller {
				return state
			}
			return state.Without(
				game.F(minipokerDealt, minipokerRed),
				game.F(minipokerDealt, minipokerBlack),
			)
		},
		Terminal: func(state game.State) bool {
			for _, fact := range state.Facts() {
				if strings.HasPrefix(fact, "resigned(") || strings.HasPrefix(fact, "called(") {
					return true
				}
			}
			return false
		},
		Goals: func(state game.State) map[game.Role]int {
			red := state.Has(game.F(minipokerDealt, minipokerRed))
			switch {
			case state.Has(game.F("resigned", string(RoleBluffer))):
				return map[game.Role]int{RoleBluffer: -10, RoleCaller: 10}
			case state.Has(game.F("resigned", string(RoleCaller))):
				return map[game.Role]int{RoleBluffer: 4, RoleCaller: -4}
			case red:
				return map[game.Role]int{RoleBluffer: -20, RoleCaller: 20}
			default:
				return map[game.Role]int{RoleBluffer: 16, RoleCaller: -16}
			}
		},
	}
}
