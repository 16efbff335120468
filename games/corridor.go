package games

import (
	"strings"

	"ggp/game"
)

// DarkSplitCorridor34 is a two-player race on split 3×4 corridors with
// hidden borders. Each player's pawn starts on b1 of their own corridor and
// races to row 4. On their turn a player either moves their pawn or blocks a
// crossing on the opponent's corridor. Blocks are invisible to their victim
// until the victim bumps into one, which reveals it and wastes the turn.
// A crossing may not be blocked if that would cut the victim off from the
// finish row entirely.
func DarkSplitCorridor34() *game.Rules {
	return &game.Rules{
		Name:     "darksplitcorridor",
		Roles:    []game.Role{RoleLeft, RoleRight},
		Init:     corridorInit,
		Legal:    corridorLegal,
		Apply:    corridorApply,
		Sees:     corridorSees,
		Terminal: corridorTerminal,
		Goals:    corridorGoals,
	}
}

const (
	corridorCols = 3
	corridorRows = 4
)

func corridorCell(col, row int) string {
	return string(rune('a'+col)) + string(rune('0'+row))
}

func corridorColRow(cell string) (col, row int) {
	return int(cell[0] - 'a'), int(cell[1] - '0')
}

// corridorCrossings lists every crossing in canonical order: vertical
// (cell, cell-below) then horizontal (cell, cell-to-the-right).
func corridorCrossings() []string {
	var out []string
	for col := 0; col < corridorCols; col++ {
		for row := 1; row < corridorRows; row++ {
			out = append(out, game.Pair(corridorCell(col, row), corridorCell(col, row+1)))
		}
	}
	for row := 1; row <= corridorRows; row++ {
		for col := 0; col < corridorCols-1; col++ {
			out = append(out, game.Pair(corridorCell(col, row), corridorCell(col+1, row)))
		}
	}
	return out
}

// corridorBlockable excludes the crossings between two finish cells, which
// may never be blocked.
func corridorBlockable() []string {
	var out []string
	for _, crossing := range corridorCrossings() {
		if crossing == game.Pair("a4", "b4") || crossing == game.Pair("b4", "c4") {
			continue
		}
		out = append(out, crossing)
	}
	return out
}

func corridorCrossingBetween(cell, target string) string {
	c1, r1 := corridorColRow(cell)
	c2, r2 := corridorColRow(target)
	if c1 > c2 || r1 > r2 {
		cell, target = target, cell
	}
	return game.Pair(cell, target)
}

var corridorDirections = []struct {
	name       string
	dCol, dRow int
}{
	{"north", 0, -1},
	{"east", 1, 0},
	{"south", 0, 1},
	{"west", -1, 0},
}

func corridorOther(role game.Role) game.Role {
	if role == RoleLeft {
		return RoleRight
	}
	return RoleLeft
}

func corridorInit() game.State {
	return game.MakeState(
		game.F("at", string(RoleLeft), "b1"),
		game.F("at", string(RoleRight), "b1"),
		game.F("control", string(RoleLeft)),
	)
}

func corridorPos(state game.State, role game.Role) string {
	prefix := "at(" + string(role) + ","
	for _, fact := range state.Facts() {
		if strings.HasPrefix(fact, prefix) {
			return fact[len(prefix) : len(fact)-1]
		}
	}
	return ""
}

// corridorBorders returns the blocked crossings of the role's own corridor,
// revealed or not.
func corridorBorders(state game.State, role game.Role) map[string]bool {
	out := make(map[string]bool)
	prefix := "border(" + string(role) + ","
	for _, fact := range state.Facts() {
		if strings.HasPrefix(fact, prefix) {
			out[fact[len(prefix):len(fact)-1]] = true
		}
	}
	return out
}

func corridorRevealed(state game.State, role game.Role, crossing string) bool {
	return state.Has(game.F("revealed", string(role), crossing))
}

// corridorReachable reports whether the role's pawn can still reach the
// finish row avoiding the given borders.
func corridorReachable(from string, borders map[string]bool) bool {
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		_, row := corridorColRow(cell)
		if row == corridorRows {
			return true
		}
		col, _ := corridorColRow(cell)
		for _, dir := range corridorDirections {
			nc, nr := col+dir.dCol, row+dir.dRow
			if nc < 0 || nc >= corridorCols || nr < 1 || nr > corridorRows {
				continue
			}
			target := corridorCell(nc, nr)
			if seen[target] || borders[corridorCrossingBetween(cell, target)] {
				continue
			}
			seen[target] = true
			queue = append(queue, target)
		}
	}
	return false
}

func corridorLegal(state game.State, role game.Role) []game.Move {
	if !state.Has(game.F("control", string(role))) {
		return nil
	}
	var moves []game.Move

	pos := corridorPos(state, role)
	col, row := corridorColRow(pos)
	for _, dir := range corridorDirections {
		nc, nr := col+dir.dCol, row+dir.dRow
		if nc < 0 || nc >= corridorCols || nr < 1 || nr > corridorRows {
			continue
		}
		crossing := corridorCrossingBetween(pos, corridorCell(nc, nr))
		if corridorRevealed(state, role, crossing) {
			continue
		}
		moves = append(moves, game.Move(game.F("move", dir.name)))
	}

	victim := corridorOther(role)
	borders := corridorBorders(state, victim)
	victimPos := corridorPos(state, victim)
	for _, crossing := range corridorBlockable() {
		if borders[crossing] {
			continue
		}
		assumed := map[string]bool{crossing: true}
		for b := range borders {
			assumed[b] = true
		}
		if !corridorReachable(victimPos, assumed) {
			continue
		}
		moves = append(moves, game.Move(game.F("block", crossing)))
	}
	return moves
}

func corridorApply(state game.State, turn game.Turn) game.State {
	play := turn.Plays()[0]
	mover := play.Role
	next := state
	switch {
	case strings.HasPrefix(string(play.Move), "move("):
		dirName := string(play.Move)[len("move(") : len(play.Move)-1]
		pos := corridorPos(state, mover)
		col, row := corridorColRow(pos)
		for _, dir := range corridorDirections {
			if dir.name != dirName {
				continue
			}
			target := corridorCell(col+dir.dCol, row+dir.dRow)
			crossing := corridorCrossingBetween(pos, target)
			if corridorBorders(state, mover)[crossing] {
				next = next.With(game.F("revealed", string(mover), crossing))
			} else {
				next = next.
					Without(game.F("at", string(mover), pos)).
					With(game.F("at", string(mover), target))
			}
		}
	default:
		crossing := string(play.Move)[len("block(") : len(play.Move)-1]
		next = next.With(game.F("border", string(corridorOther(mover)), crossing))
	}
	return next.
		Without(game.F("control", string(mover))).
		With(game.F("control", string(corridorOther(mover))))
}

// corridorSees keeps positions and control public, shows each player the
// borders they placed on the opponent's corridor, and hides borders on the
// player's own corridor until revealed by a bump.
func corridorSees(state game.State, observer game.Role) game.View {
	var kept []string
	for _, fact := range state.Facts() {
		switch {
		case strings.HasPrefix(fact, "at(") || strings.HasPrefix(fact, "control("):
			kept = append(kept, fact)
		case strings.HasPrefix(fact, "revealed("):
			if strings.HasPrefix(fact, "revealed("+string(observer)+",") {
				kept = append(kept, fact)
			}
		case strings.HasPrefix(fact, "border("+string(observer)+","):
			crossing := fact[len("border("+string(observer)+",") : len(fact)-1]
			if corridorRevealed(state, observer, crossing) {
				kept = append(kept, fact)
			}
		case strings.HasPrefix(fact, "border("):
			kept = append(kept, fact)
		}
	}
	return game.MakeState(kept...)
}

func corridorFinished(state game.State, role game.Role) bool {
	pos := corridorPos(state, role)
	if pos == "" {
		return false
	}
	_, row := corridorColRow(pos)
	return row == corridorRows
}

func corridorTerminal(state game.State) bool {
	return corridorFinished(state, RoleLeft) || corridorFinished(state, RoleRight)
}

func corridorGoals(state game.State) map[game.Role]int {
	leftDone := corridorFinished(state, RoleLeft)
	rightDone := corridorFinished(state, RoleRight)
	switch {
	case leftDone && rightDone:
		return map[game.Role]int{RoleLeft: 50, RoleRight: 50}
	case leftDone:
		return map[game.Role]int{RoleLeft: 100, RoleRight: 0}
	case rightDone:
		return map[game.Role]int{RoleLeft: 0, RoleRight: 100}
	default:
		return map[game.Role]int{}
	}
}
