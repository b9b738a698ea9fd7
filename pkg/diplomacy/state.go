package diplomacy

import "sort"

// DislodgedUnit is a unit that was dislodged and needs a retreat order.
// Dests holds its legal retreat destinations, computed when the
// dislodgement is applied: adjacent, unoccupied, not contested, and not
// the province the attacker came from.
type DislodgedUnit struct {
	Unit  Unit
	Dests []Loc
}

// State represents a complete snapshot of the board at a point in time.
// Once a state is archived into a game's history it is never mutated.
type State struct {
	Phase         Phase
	Units         []Unit
	Centers       map[Loc]Power // Root SC loc -> owning power (Neutral allowed)
	Influence     map[Loc]Power // Root loc -> last power to occupy it
	Dislodged     []DislodgedUnit
	Contested     map[Loc]bool  // Root locs bounced during the last movement phase
	CivilDisorder map[Power]bool
}

// NewInitialState returns the standard starting position
// (Spring 1901 Movement).
func NewInitialState() *State {
	s := &State{
		Phase:         Phase{Season: Spring, Year: 1901, Kind: Movement},
		Units:         InitialUnits(),
		Centers:       InitialCenters(),
		Influence:     make(map[Loc]Power, 34),
		Contested:     make(map[Loc]bool),
		CivilDisorder: make(map[Power]bool),
	}
	for _, u := range s.Units {
		s.Influence[u.Loc.Root()] = u.Power
	}
	s.Normalize()
	return s
}

// UnitAt returns the unit occupying the given province (any coast),
// or nil if none.
func (s *State) UnitAt(l Loc) *Unit {
	root := l.Root()
	for i := range s.Units {
		if s.Units[i].Loc.Root() == root {
			return &s.Units[i]
		}
	}
	return nil
}

// DislodgedAt returns the dislodged unit at the given province, or nil.
func (s *State) DislodgedAt(l Loc) *DislodgedUnit {
	root := l.Root()
	for i := range s.Dislodged {
		if s.Dislodged[i].Unit.Loc.Root() == root {
			return &s.Dislodged[i]
		}
	}
	return nil
}

// CenterCount returns the number of supply centers owned by a power.
func (s *State) CenterCount(p Power) int {
	n := 0
	for _, owner := range s.Centers {
		if owner == p {
			n++
		}
	}
	return n
}

// UnitCount returns the number of units belonging to a power, counting
// dislodged units that still await a retreat.
func (s *State) UnitCount(p Power) int {
	n := 0
	for _, u := range s.Units {
		if u.Power == p {
			n++
		}
	}
	for _, d := range s.Dislodged {
		if d.Unit.Power == p {
			n++
		}
	}
	return n
}

// UnitsOf returns the units of a power in canonical loc order.
func (s *State) UnitsOf(p Power) []Unit {
	var units []Unit
	for _, u := range s.Units {
		if u.Power == p {
			units = append(units, u)
		}
	}
	return units
}

// BuildDelta returns centers-minus-units for a power: positive means
// builds owed, negative means disbands owed.
func (s *State) BuildDelta(p Power) int {
	return s.CenterCount(p) - s.UnitCount(p)
}

// PowerIsAlive returns true if the power still has a supply center or unit.
func (s *State) PowerIsAlive(p Power) bool {
	return s.CenterCount(p) > 0 || s.UnitCount(p) > 0
}

// NeedsAdjustment returns true if any power has a non-zero build delta.
func (s *State) NeedsAdjustment() bool {
	for _, p := range AllPowers() {
		if s.BuildDelta(p) != 0 {
			return true
		}
	}
	return false
}

// UpdateCenters reassigns each supply center to the power occupying it;
// unoccupied centers keep their current owner. Called after fall
// adjudication only, per the sticky-ownership rule.
func (s *State) UpdateCenters() {
	for sc := range s.Centers {
		if u := s.UnitAt(sc); u != nil {
			s.Centers[sc] = u.Power
		}
	}
}

// Normalize sorts units and dislodged units into canonical loc order so
// all downstream iteration is deterministic.
func (s *State) Normalize() {
	sort.Slice(s.Units, func(i, j int) bool {
		return LocIndex(s.Units[i].Loc) < LocIndex(s.Units[j].Loc)
	})
	sort.Slice(s.Dislodged, func(i, j int) bool {
		return LocIndex(s.Dislodged[i].Unit.Loc) < LocIndex(s.Dislodged[j].Unit.Loc)
	})
}

// Clone returns a deep copy of the state. Mutations to the clone do not
// affect the original, which keeps archived history immutable.
func (s *State) Clone() *State {
	c := &State{Phase: s.Phase}
	if s.Units != nil {
		c.Units = make([]Unit, len(s.Units))
		copy(c.Units, s.Units)
	}
	if s.Centers != nil {
		c.Centers = make(map[Loc]Power, len(s.Centers))
		for k, v := range s.Centers {
			c.Centers[k] = v
		}
	}
	if s.Influence != nil {
		c.Influence = make(map[Loc]Power, len(s.Influence))
		for k, v := range s.Influence {
			c.Influence[k] = v
		}
	}
	if s.Dislodged != nil {
		c.Dislodged = make([]DislodgedUnit, len(s.Dislodged))
		for i, d := range s.Dislodged {
			c.Dislodged[i] = DislodgedUnit{Unit: d.Unit, Dests: append([]Loc(nil), d.Dests...)}
		}
	}
	if s.Contested != nil {
		c.Contested = make(map[Loc]bool, len(s.Contested))
		for k, v := range s.Contested {
			c.Contested[k] = v
		}
	}
	if s.CivilDisorder != nil {
		c.CivilDisorder = make(map[Power]bool, len(s.CivilDisorder))
		for k, v := range s.CivilDisorder {
			c.CivilDisorder[k] = v
		}
	}
	return c
}
