package diplomacy

// Resolution state for the recursive adjudicator. An order is guessed,
// then confirmed or flipped once its dependency cycle (if any) settles.
type resolutionState int8

const (
	rsUnresolved resolutionState = iota
	rsGuessing
	rsResolved
)

type adjOrder struct {
	order      Order
	state      resolutionState
	resolution bool // true = succeeds, false = fails
}

// Dislodgement records a unit forced out of its province and where the
// attack came from (the attacker's origin is retreat-forbidden).
type Dislodgement struct {
	Unit         Unit
	AttackerFrom Loc
}

// MovementResult is the outcome of adjudicating one movement phase.
type MovementResult struct {
	Resolved  []ResolvedOrder
	Dislodged []Dislodgement
	Contested []Loc // Root locs where a standoff occurred
}

// ResolveMovement adjudicates a complete set of effective movement
// orders (one per unit, invalid already demoted to holds). The orders
// must be sorted by loc index; adjudication is then fully deterministic
// and independent of submission order.
//
// Convoy paradoxes are resolved by the Szykman rule: every convoy in the
// paradoxical cycle fails. When exceptionOnParadox is set, a
// *ParadoxError is returned instead and no result is produced.
func ResolveMovement(orders []Order, s *State, m *Map, exceptionOnParadox bool) (*MovementResult, error) {
	r := &resolver{s: s, m: m, adj: make([]adjOrder, len(orders))}
	for i := range r.lookup {
		r.lookup[i] = -1
	}
	for i, o := range orders {
		r.adj[i] = adjOrder{order: o}
		r.lookup[LocIndex(o.Loc.Root())] = int16(i)
	}

	for i := range r.adj {
		r.adjudicate(int16(i))
	}

	if r.paradox && exceptionOnParadox {
		return nil, &ParadoxError{Locs: r.paradoxLocs}
	}
	return r.buildResult(), nil
}

type resolver struct {
	s      *State
	m      *Map
	adj    []adjOrder
	lookup [NumLocs]int16 // root loc index -> order index, -1 = none

	deps        []int16 // dependency stack for cycle detection
	paradox     bool
	paradoxLocs []Loc
}

func (r *resolver) orderAtRoot(l Loc) int16 {
	idx := LocIndex(l.Root())
	if idx < 0 {
		return -1
	}
	return r.lookup[idx]
}

// adjudicate resolves the order at index i, guessing through dependency
// cycles and applying the backup rule when a cycle is ambiguous.
func (r *resolver) adjudicate(i int16) bool {
	a := &r.adj[i]
	switch a.state {
	case rsResolved:
		return a.resolution
	case rsGuessing:
		if !r.onStack(i) {
			r.deps = append(r.deps, i)
		}
		return a.resolution
	}

	oldLen := len(r.deps)
	a.state = rsGuessing
	a.resolution = false
	first := r.compute(i)

	if len(r.deps) == oldLen {
		// No cycle: the outcome did not depend on the guess.
		if a.state != rsResolved {
			a.state = rsResolved
			a.resolution = first
		}
		return a.resolution
	}

	if r.deps[oldLen] != i {
		// Part of a cycle whose head is further down the stack; let the
		// head settle it.
		r.deps = append(r.deps, i)
		a.resolution = first
		return first
	}

	// i heads the cycle. Retry with the opposite guess.
	r.clearCycle(oldLen)
	a.state = rsGuessing
	a.resolution = true
	second := r.compute(i)

	if first == second {
		r.clearCycle(oldLen)
		a.state = rsResolved
		a.resolution = first
		return first
	}

	// Both guesses are self-consistent (or neither is): the cycle cannot
	// be settled by strength alone. Apply the backup rule and retry.
	r.backupRule(oldLen)
	return r.adjudicate(i)
}

func (r *resolver) onStack(i int16) bool {
	for _, j := range r.deps {
		if j == i {
			return true
		}
	}
	return false
}

// clearCycle pops the dependency stack back to oldLen, marking the
// popped orders unresolved.
func (r *resolver) clearCycle(oldLen int) {
	for _, j := range r.deps[oldLen:] {
		if r.adj[j].state != rsResolved {
			r.adj[j].state = rsUnresolved
		}
	}
	r.deps = r.deps[:oldLen]
}

// backupRule settles an ambiguous cycle. A cycle that contains a convoy
// order is a convoy paradox: per the Szykman rule those convoys fail,
// and the moves depending on them fail naturally on re-resolution. A
// cycle whose fate hinges on moves alone is circular movement: every
// move in it succeeds.
func (r *resolver) backupRule(oldLen int) {
	cycle := append([]int16(nil), r.deps[oldLen:]...)
	r.clearCycle(oldLen)

	convoyInvolved := false
	for _, j := range cycle {
		if r.adj[j].order.Type == OrderConvoy {
			convoyInvolved = true
			break
		}
	}

	if convoyInvolved {
		r.paradox = true
		for _, j := range cycle {
			a := &r.adj[j]
			if a.order.Type == OrderConvoy {
				a.state = rsResolved
				a.resolution = false
				r.paradoxLocs = append(r.paradoxLocs, a.order.Loc)
			} else {
				a.state = rsUnresolved
			}
		}
		return
	}

	for _, j := range cycle {
		a := &r.adj[j]
		if a.order.Type == OrderMove {
			a.state = rsResolved
			a.resolution = true
		} else {
			a.state = rsUnresolved
		}
	}
}

func (r *resolver) compute(i int16) bool {
	switch r.adj[i].order.Type {
	case OrderHold:
		return true
	case OrderMove:
		return r.resolveMove(i)
	case OrderSupportHold, OrderSupportMove:
		return r.resolveSupport(i)
	case OrderConvoy:
		return r.resolveConvoy(i)
	default:
		return false
	}
}

// resolveMove determines whether a move order succeeds: its attack
// strength must exceed the destination's hold strength (or the
// head-to-head opponent's defend strength) and every competing move's
// prevent strength.
func (r *resolver) resolveMove(i int16) bool {
	o := r.adj[i].order

	if r.needsConvoy(o) && !r.hasConvoyPath(o) {
		return false
	}

	attack := r.attackStrength(i)

	if opp := r.headToHeadOpponent(i); opp >= 0 {
		if attack <= r.defendStrength(opp) {
			return false
		}
	} else if attack <= r.holdStrength(o.Dest.Root()) {
		return false
	}

	for j := range r.adj {
		other := r.adj[j].order
		if int16(j) == i || other.Type != OrderMove {
			continue
		}
		if other.Dest.Root() != o.Dest.Root() {
			continue
		}
		if attack <= r.preventStrength(int16(j)) {
			return false
		}
	}
	return true
}

// headToHeadOpponent returns the index of a unit at this move's
// destination moving directly back at it, or -1. Convoyed moves on
// either side do not form a head-to-head.
func (r *resolver) headToHeadOpponent(i int16) int16 {
	o := r.adj[i].order
	j := r.orderAtRoot(o.Dest)
	if j < 0 {
		return -1
	}
	opp := r.adj[j].order
	if opp.Type != OrderMove || opp.Dest.Root() != o.Loc.Root() {
		return -1
	}
	if r.needsConvoy(o) || r.needsConvoy(opp) {
		return -1
	}
	return j
}

// resolveSupport determines whether support is given (not cut). A
// support is cut by any move into the supporter's province with a valid
// path, unless the mover is of the same power, or the move comes from
// the very province the support is directed against.
func (r *resolver) resolveSupport(i int16) bool {
	o := r.adj[i].order
	myRoot := o.Loc.Root()

	for j := range r.adj {
		other := r.adj[j].order
		if other.Type != OrderMove || other.Dest.Root() != myRoot {
			continue
		}
		if other.Power == o.Power {
			continue
		}
		if o.Type == OrderSupportMove && other.Loc.Root() == o.AuxDest.Root() {
			continue
		}
		if r.needsConvoy(other) && !r.hasConvoyPath(other) {
			continue
		}
		return false
	}
	return true
}

// resolveConvoy determines whether a convoying fleet survives: it fails
// only if dislodged.
func (r *resolver) resolveConvoy(i int16) bool {
	myRoot := r.adj[i].order.Loc.Root()
	for j := range r.adj {
		other := r.adj[j].order
		if other.Type == OrderMove && other.Dest.Root() == myRoot {
			if r.adjudicate(int16(j)) {
				return false
			}
		}
	}
	return true
}

// attackStrength computes a move's strength against its destination.
// Supports from the power owning a unit that stays at the destination do
// not count, and a power can never dislodge its own unit.
func (r *resolver) attackStrength(i int16) int {
	o := r.adj[i].order
	if r.needsConvoy(o) && !r.hasConvoyPath(o) {
		return 0
	}

	victim := r.s.UnitAt(o.Dest)
	victimStays := false
	if victim != nil {
		j := r.orderAtRoot(o.Dest)
		switch {
		case j < 0 || r.adj[j].order.Type != OrderMove:
			victimStays = true
		case r.headToHeadOpponent(i) == j:
			victimStays = true
		default:
			victimStays = !r.adjudicate(j)
		}
	}

	if victimStays && victim.Power == o.Power {
		return 0
	}

	strength := 1
	for j := range r.adj {
		sup := r.adj[j].order
		if sup.Type != OrderSupportMove {
			continue
		}
		if sup.AuxLoc.Root() != o.Loc.Root() || sup.AuxDest.Root() != o.Dest.Root() {
			continue
		}
		if victimStays && sup.Power == victim.Power {
			continue
		}
		if r.adjudicate(int16(j)) {
			strength++
		}
	}
	return strength
}

// defendStrength is the strength of a head-to-head defender's own move;
// all of its supports count.
func (r *resolver) defendStrength(i int16) int {
	o := r.adj[i].order
	strength := 1
	for j := range r.adj {
		sup := r.adj[j].order
		if sup.Type != OrderSupportMove {
			continue
		}
		if sup.AuxLoc.Root() != o.Loc.Root() || sup.AuxDest.Root() != o.Dest.Root() {
			continue
		}
		if r.adjudicate(int16(j)) {
			strength++
		}
	}
	return strength
}

// preventStrength is the strength with which a move contests its
// destination against other movers.
func (r *resolver) preventStrength(i int16) int {
	o := r.adj[i].order
	if r.needsConvoy(o) && !r.hasConvoyPath(o) {
		return 0
	}
	if opp := r.headToHeadOpponent(i); opp >= 0 && !r.adjudicate(i) {
		return 0
	}
	return r.defendStrength(i)
}

// holdStrength computes the strength with which a province is held.
func (r *resolver) holdStrength(root Loc) int {
	i := r.orderAtRoot(root)
	if i < 0 {
		return 0
	}
	o := r.adj[i].order

	if o.Type == OrderMove {
		if r.adjudicate(i) {
			return 0
		}
		return 1
	}

	strength := 1
	for j := range r.adj {
		sup := r.adj[j].order
		if sup.Type != OrderSupportHold || sup.AuxLoc.Root() != root.Root() {
			continue
		}
		if r.adjudicate(int16(j)) {
			strength++
		}
	}
	return strength
}

// needsConvoy returns true if the move requires a convoy chain: armies
// ordered via convoy, or moving to a destination they are not adjacent to.
func (r *resolver) needsConvoy(o Order) bool {
	if o.Type != OrderMove || o.UnitType != Army {
		return false
	}
	return o.ViaConvoy || !r.m.Adjacent(o.Loc, o.Dest, Army)
}

// hasConvoyPath checks for a chain of surviving convoy orders carrying
// the move from source to destination. Each fleet in the chain must have
// issued a matching convoy order and must itself survive adjudication.
func (r *resolver) hasConvoyPath(o Order) bool {
	src, dst := o.Loc.Root(), o.Dest.Root()

	matching := func(j int) bool {
		c := r.adj[j].order
		return c.Type == OrderConvoy && c.AuxLoc.Root() == src && c.AuxDest.Root() == dst &&
			r.m.Province(c.Loc).Type == Sea
	}

	visited := make(map[Loc]bool)
	var queue []Loc
	for j := range r.adj {
		if !matching(j) {
			continue
		}
		c := r.adj[j].order
		if !fleetReachesCoastal(r.m, c.Loc, src) {
			continue
		}
		if r.adjudicate(int16(j)) {
			visited[c.Loc.Root()] = true
			queue = append(queue, c.Loc.Root())
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if fleetReachesCoastal(r.m, cur, dst) {
			return true
		}

		for j := range r.adj {
			if !matching(j) {
				continue
			}
			c := r.adj[j].order
			if visited[c.Loc.Root()] {
				continue
			}
			if !r.m.Adjacent(cur, c.Loc.Root(), Fleet) {
				continue
			}
			if r.adjudicate(int16(j)) {
				visited[c.Loc.Root()] = true
				queue = append(queue, c.Loc.Root())
			}
		}
	}
	return false
}

// fleetReachesCoastal reports whether a fleet at sea loc `from` borders
// some coast of the coastal province `prov`.
func fleetReachesCoastal(m *Map, from Loc, prov Loc) bool {
	return m.CanReachProvince(from, prov, Fleet)
}

// buildResult converts internal adjudication state into the external
// result: per-order statuses, dislodgements with attacker origins, and
// the set of contested provinces.
func (r *resolver) buildResult() *MovementResult {
	res := &MovementResult{}

	// Successful moves by destination root, for dislodgement detection.
	moveInto := make(map[Loc]Loc, len(r.adj))
	for i := range r.adj {
		o := r.adj[i].order
		if o.Type == OrderMove && r.adj[i].resolution {
			moveInto[o.Dest.Root()] = o.Loc.Root()
		}
	}

	contested := make(map[Loc]bool)
	for i := range r.adj {
		a := &r.adj[i]
		o := a.order

		status := StatusSucceeded
		switch o.Type {
		case OrderMove:
			if !a.resolution {
				if r.needsConvoy(o) && !r.hasConvoyPath(o) {
					status = StatusFailed
				} else {
					status = StatusBounced
					contested[o.Dest.Root()] = true
				}
			}
		case OrderSupportHold, OrderSupportMove:
			if !a.resolution {
				status = StatusCut
			}
		case OrderConvoy:
			if !a.resolution {
				status = StatusFailed
			}
		}

		if attacker, ok := moveInto[o.Loc.Root()]; ok {
			if o.Type != OrderMove || !a.resolution {
				status = StatusDislodged
				res.Dislodged = append(res.Dislodged, Dislodgement{
					Unit:         Unit{Type: o.UnitType, Power: o.Power, Loc: o.Loc},
					AttackerFrom: attacker,
				})
			}
		}

		res.Resolved = append(res.Resolved, ResolvedOrder{Order: o, Status: status})
	}

	// A province is contested only while it stays empty: a bounce at an
	// occupied or captured province is not a retreat obstacle beyond the
	// occupancy rule itself.
	for l := range contested {
		if _, captured := moveInto[l]; captured {
			continue
		}
		if u := r.s.UnitAt(l); u != nil {
			j := r.orderAtRoot(l)
			if j >= 0 && r.adj[j].order.Type == OrderMove && r.adj[j].resolution {
				// occupant left
			} else {
				continue
			}
		}
		res.Contested = append(res.Contested, l)
	}
	sortLocs(res.Contested)
	return res
}

func sortLocs(ls []Loc) {
	for i := 1; i < len(ls); i++ {
		for j := i; j > 0 && LocIndex(ls[j]) < LocIndex(ls[j-1]); j-- {
			ls[j], ls[j-1] = ls[j-1], ls[j]
		}
	}
}

// ApplyMovement advances the state with an adjudicated movement result:
// successful movers relocate, dislodged units leave the board pending
// retreats, influence and contested markers update, and each dislodged
// unit's legal retreat destinations are fixed against the moved board.
func ApplyMovement(s *State, res *MovementResult, m *Map) {
	dislodgedAt := make(map[Loc]bool, len(res.Dislodged))
	for _, d := range res.Dislodged {
		dislodgedAt[d.Unit.Loc.Root()] = true
	}

	moves := make(map[Loc]Loc) // source root -> destination (exact loc)
	for _, ro := range res.Resolved {
		if ro.Order.Type == OrderMove && ro.Status == StatusSucceeded {
			moves[ro.Order.Loc.Root()] = ro.Order.Dest
		}
	}

	remaining := s.Units[:0]
	for _, u := range s.Units {
		root := u.Loc.Root()
		if dislodgedAt[root] {
			continue
		}
		if dest, ok := moves[root]; ok {
			u.Loc = dest
		}
		remaining = append(remaining, u)
	}
	s.Units = remaining

	s.Contested = make(map[Loc]bool, len(res.Contested))
	for _, l := range res.Contested {
		s.Contested[l] = true
	}

	s.Dislodged = nil
	for _, d := range res.Dislodged {
		s.Dislodged = append(s.Dislodged, DislodgedUnit{
			Unit:  d.Unit,
			Dests: retreatDests(d, s, m),
		})
	}

	for _, u := range s.Units {
		s.Influence[u.Loc.Root()] = u.Power
	}
	s.Normalize()
}

// retreatDests enumerates the legal retreat destinations of a
// dislodgement against the post-movement board.
func retreatDests(d Dislodgement, s *State, m *Map) []Loc {
	var out []Loc
	for _, dest := range m.Dests(d.Unit.Loc, d.Unit.Type) {
		root := dest.Root()
		if !m.CanOccupy(d.Unit.Type, dest) {
			continue
		}
		if root == d.AttackerFrom || s.Contested[root] || s.UnitAt(root) != nil {
			continue
		}
		out = append(out, dest)
	}
	sortLocs(out)
	return out
}
