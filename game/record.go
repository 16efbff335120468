package game

// DevelopmentStep is one ply of a development: the state at that ply and the
// turn taken from it. The final step of a development has a nil turn.
type DevelopmentStep struct {
	State State
	Turn  *Turn
}

// Development is one fully concrete playthrough from some offset to a
// horizon, consistent with a partial record of observations.
type Development []DevelopmentStep

// Record is the partial evidence bundle Interpreter.Developments consumes:
// states known exactly at some plies, views received by roles at some plies,
// full turns known at some plies, and single-role move commitments at plies
// where the rest of the joint turn is unknown.
type Record struct {
	States map[int]State
	Views  map[int]map[Role]View
	Turns  map[int]Turn
	Moves  map[int]map[Role]Move
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{
		States: make(map[int]State),
		Views:  make(map[int]map[Role]View),
		Turns:  make(map[int]Turn),
		Moves:  make(map[int]map[Role]Move),
	}
}

// PinView records that role received view at ply.
func (r Record) PinView(ply int, role Role, view View) {
	if r.Views[ply] == nil {
		r.Views[ply] = make(map[Role]View)
	}
	r.Views[ply][role] = view
}

// PinMove records that role played move at ply.
func (r Record) PinMove(ply int, role Role, move Move) {
	if r.Moves[ply] == nil {
		r.Moves[ply] = make(map[Role]Move)
	}
	r.Moves[ply][role] = move
}

// Offset returns the earliest ply mentioned by the record, 0 if empty.
func (r Record) Offset() int {
	offset := -1
	consider := func(ply int) {
		if offset < 0 || ply < offset {
			offset = ply
		}
	}
	for ply := range r.States {
		consider(ply)
	}
	for ply := range r.Views {
		consider(ply)
	}
	for ply := range r.Turns {
		consider(ply)
	}
	for ply := range r.Moves {
		consider(ply)
	}
	if offset < 0 {
		return 0
	}
	return offset
}

// Horizon returns the maximum ply mentioned by the record, 0 if empty.
func (r Record) Horizon() int {
	horizon := 0
	consider := func(ply int) {
		if ply > horizon {
			horizon = ply
		}
	}
	for ply := range r.States {
		consider(ply)
	}
	for ply := range r.Views {
		consider(ply)
	}
	for ply := range r.Turns {
		consider(ply)
	}
	for ply := range r.Moves {
		consider(ply)
	}
	return horizon
}
