package game

import (
	"sort"
	"strings"
)

// Play is one role's contribution to a turn.
type Play struct {
	Role Role
	Move Move
}

// Turn is an immutable role→move mapping for a single ply. It may cover one
// role in sequential games or several in simultaneous-move games. The empty
// turn is a degenerate "no one moved" marker.
type Turn struct {
	plays []Play // sorted by role
}

// MakeTurn builds a turn from the given plays. Each role may appear at most
// once; a repeated role keeps the last move given for it.
func MakeTurn(plays ...Play) Turn {
	byRole := make(map[Role]Move, len(plays))
	for _, p := range plays {
		byRole[p.Role] = p.Move
	}
	sorted := make([]Play, 0, len(byRole))
	for r, m := range byRole {
		sorted = append(sorted, Play{Role: r, Move: m})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Role < sorted[j].Role })
	return Turn{plays: sorted}
}

// Key returns the canonical text form of the turn. Equal turns have equal
// keys.
func (t Turn) Key() string {
	parts := make([]string, len(t.plays))
	for i, p := range t.plays {
		parts[i] = string(p.Role) + ":" + string(p.Move)
	}
	return strings.Join(parts, "|")
}

// MoveOf returns the move the role contributed, if any.
func (t Turn) MoveOf(role Role) (Move, bool) {
	for _, p := range t.plays {
		if p.Role == role {
			return p.Move, true
		}
	}
	return "", false
}

// Roles returns the roles covered by the turn, sorted.
func (t Turn) Roles() []Role {
	roles := make([]Role, len(t.plays))
	for i, p := range t.plays {
		roles[i] = p.Role
	}
	return roles
}

// Plays returns the role/move pairs, sorted by role. The returned slice must
// not be modified.
func (t Turn) Plays() []Play {
	return t.plays
}

// Len returns the number of roles covered.
func (t Turn) Len() int {
	return len(t.plays)
}

// Equal reports whether both turns cover the same role→move mapping.
func (t Turn) Equal(other Turn) bool {
	if len(t.plays) != len(other.plays) {
		return false
	}
	for i, p := range t.plays {
		if other.plays[i] != p {
			return false
		}
	}
	return true
}
