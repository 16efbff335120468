package game

import "strings"

// Role identifies a game participant. Roles are opaque ground terms and
// compare by value.
type Role string

// Move is an action identifier, scoped to a role.
type Move string

// RoleRandom is the reserved role for chance events. Games that use it list
// it in their role set and give it control wherever a chance step happens.
const RoleRandom Role = "random"

// F renders a ground fact in functional notation, e.g.
// F("at", "left", "c1") == "at(left,c1)". Nested terms are built by passing
// an already-rendered fact as an argument.
func F(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(arg)
	}
	b.WriteByte(')')
	return b.String()
}

// Pair renders the anonymous pair term used for e.g. board crossings:
// Pair("a2", "a3") == "(a2,a3)".
func Pair(a, b string) string {
	return "(" + a + "," + b + ")"
}
