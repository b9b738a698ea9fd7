package diplomacy

import "fmt"

// ValidationError describes why an order is invalid.
type ValidationError struct {
	Order   Order
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order %s: %s", e.Order.String(), e.Message)
}

// ValidateOrder checks whether an order is legal for the state's current
// phase. On success the returned order may be canonicalized (the unit's
// actual coasted loc substituted, single reachable coasts filled in).
func ValidateOrder(o Order, s *State, m *Map) (Order, error) {
	switch s.Phase.Kind {
	case Movement:
		switch o.Type {
		case OrderHold, OrderMove, OrderSupportHold, OrderSupportMove, OrderConvoy:
			return validateMovementOrder(o, s, m)
		}
	case Retreat:
		switch o.Type {
		case OrderRetreat, OrderDisband:
			return validateRetreatOrder(o, s, m)
		}
	case Adjustment:
		switch o.Type {
		case OrderBuild:
			return validateBuild(o, s, m)
		case OrderDisband:
			return validateAdjustmentDisband(o, s)
		case OrderWaive:
			return o, nil
		}
	}
	return o, &ValidationError{o, fmt.Sprintf("%s order not admissible in %s phase", o.Type, s.Phase.Kind)}
}

// ownUnitAt resolves the ordered unit, checking existence, ownership and
// type, and returns the order with the unit's exact loc substituted.
func ownUnitAt(o Order, s *State) (Order, *Unit, error) {
	u := s.UnitAt(o.Loc)
	if u == nil {
		return o, nil, &ValidationError{o, "no unit at " + string(o.Loc)}
	}
	if u.Power != o.Power {
		return o, nil, &ValidationError{o, fmt.Sprintf("unit belongs to %s, not %s", u.Power, o.Power)}
	}
	if u.Type != o.UnitType {
		return o, nil, &ValidationError{o, fmt.Sprintf("unit is %s, not %s", u.Type, o.UnitType)}
	}
	o.Loc = u.Loc
	return o, u, nil
}

func validateMovementOrder(o Order, s *State, m *Map) (Order, error) {
	o, _, err := ownUnitAt(o, s)
	if err != nil {
		return o, err
	}

	switch o.Type {
	case OrderHold:
		return o, nil
	case OrderMove:
		return validateMove(o, s, m)
	case OrderSupportHold, OrderSupportMove:
		return validateSupport(o, s, m)
	case OrderConvoy:
		return validateConvoy(o, s, m)
	}
	return o, &ValidationError{o, "unknown order type"}
}

func validateMove(o Order, s *State, m *Map) (Order, error) {
	dest := m.Province(o.Dest)
	if dest == nil {
		return o, &ValidationError{o, "no such province " + string(o.Dest)}
	}
	if o.UnitType == Fleet && dest.Type == Land {
		return o, &ValidationError{o, "fleet cannot move to inland province"}
	}
	if o.UnitType == Army && dest.Type == Sea {
		return o, &ValidationError{o, "army cannot move to sea province"}
	}
	if o.Dest.Root() == o.Loc.Root() {
		return o, &ValidationError{o, "unit cannot move to its own province"}
	}

	if o.UnitType == Fleet {
		if m.Adjacent(o.Loc, o.Dest, Fleet) {
			return o, nil
		}
		// Unspecified coast is accepted when exactly one coast is reachable.
		if !o.Dest.IsCoastedVariant() && m.HasCoasts(o.Dest) {
			coasts := m.FleetCoastsTo(o.Loc, o.Dest)
			if len(coasts) == 1 {
				o.Dest = coasts[0]
				return o, nil
			}
			if len(coasts) > 1 {
				return o, &ValidationError{o, "must specify coast for " + string(o.Dest)}
			}
		}
		return o, &ValidationError{o, fmt.Sprintf("fleet cannot reach %s from %s", o.Dest, o.Loc)}
	}

	// Armies: direct adjacency, or a convoy route through existing fleets.
	if !o.ViaConvoy && m.Adjacent(o.Loc, o.Dest, Army) {
		return o, nil
	}
	if convoyRouteExists(o.Loc, o.Dest, s, m) {
		return o, nil
	}
	if o.ViaConvoy {
		return o, &ValidationError{o, "no convoy route exists"}
	}
	return o, &ValidationError{o, fmt.Sprintf("army cannot reach %s from %s", o.Dest, o.Loc)}
}

func validateSupport(o Order, s *State, m *Map) (Order, error) {
	supported := s.UnitAt(o.AuxLoc)
	if supported == nil {
		return o, &ValidationError{o, "no unit at " + string(o.AuxLoc) + " to support"}
	}
	if supported.Type != o.AuxUnitType {
		return o, &ValidationError{o, fmt.Sprintf("unit at %s is %s, not %s", o.AuxLoc, supported.Type, o.AuxUnitType)}
	}
	o.AuxLoc = supported.Loc
	if supported.Loc.Root() == o.Loc.Root() {
		return o, &ValidationError{o, "unit cannot support itself"}
	}

	if o.Type == OrderSupportHold {
		if !m.CanReachProvince(o.Loc, o.AuxLoc.Root(), o.UnitType) {
			return o, &ValidationError{o, fmt.Sprintf("cannot support hold at %s from %s", o.AuxLoc.Root(), o.Loc)}
		}
		return o, nil
	}

	if !m.CanReachProvince(o.Loc, o.AuxDest.Root(), o.UnitType) {
		return o, &ValidationError{o, fmt.Sprintf("cannot support move to %s from %s", o.AuxDest.Root(), o.Loc)}
	}
	if m.CanReachProvince(o.AuxLoc, o.AuxDest.Root(), supported.Type) {
		return o, nil
	}
	if supported.Type == Army && convoyRouteExists(o.AuxLoc, o.AuxDest.Root(), s, m) {
		return o, nil
	}
	return o, &ValidationError{o, fmt.Sprintf("supported unit at %s cannot reach %s", o.AuxLoc, o.AuxDest.Root())}
}

func validateConvoy(o Order, s *State, m *Map) (Order, error) {
	if o.UnitType != Fleet {
		return o, &ValidationError{o, "only fleets can convoy"}
	}
	if m.Province(o.Loc).Type != Sea {
		return o, &ValidationError{o, "convoying fleet must be at sea"}
	}
	convoyed := s.UnitAt(o.AuxLoc)
	if convoyed == nil {
		return o, &ValidationError{o, "no unit at " + string(o.AuxLoc) + " to convoy"}
	}
	if convoyed.Type != Army {
		return o, &ValidationError{o, "only armies can be convoyed"}
	}
	destProv := m.Province(o.AuxDest)
	if destProv == nil || destProv.Type == Sea {
		return o, &ValidationError{o, "convoy destination must be a coastal province"}
	}
	o.AuxLoc = convoyed.Loc
	o.AuxDest = o.AuxDest.Root()
	return o, nil
}

func validateRetreatOrder(o Order, s *State, m *Map) (Order, error) {
	d := s.DislodgedAt(o.Loc)
	if d == nil {
		return o, &ValidationError{o, "no dislodged unit at " + string(o.Loc)}
	}
	if d.Unit.Power != o.Power {
		return o, &ValidationError{o, fmt.Sprintf("dislodged unit belongs to %s, not %s", d.Unit.Power, o.Power)}
	}
	if d.Unit.Type != o.UnitType {
		return o, &ValidationError{o, fmt.Sprintf("dislodged unit is %s, not %s", d.Unit.Type, o.UnitType)}
	}
	o.Loc = d.Unit.Loc

	if o.Type == OrderDisband {
		return o, nil
	}

	// The legal destinations were fixed when the dislodgement was
	// applied; anything else is out.
	for _, dest := range d.Dests {
		if dest == o.Dest || (dest.Root() == o.Dest && !o.Dest.IsCoastedVariant() && singleCoastMatch(d.Dests, o.Dest)) {
			o.Dest = dest
			return o, nil
		}
	}
	return o, &ValidationError{o, fmt.Sprintf("cannot retreat from %s to %s", o.Loc, o.Dest)}
}

// singleCoastMatch reports whether exactly one legal destination lies in
// the given root province, so a coast-less retreat order is unambiguous.
func singleCoastMatch(dests []Loc, root Loc) bool {
	n := 0
	for _, d := range dests {
		if d.Root() == root {
			n++
		}
	}
	return n == 1
}

func validateBuild(o Order, s *State, m *Map) (Order, error) {
	prov := m.Province(o.Loc)
	if prov == nil {
		return o, &ValidationError{o, "no such province " + string(o.Loc)}
	}
	if !prov.IsSupplyCenter {
		return o, &ValidationError{o, "not a supply center"}
	}
	if prov.HomePower != o.Power {
		return o, &ValidationError{o, "not a home supply center of " + string(o.Power)}
	}
	if s.Centers[prov.Loc] != o.Power {
		return o, &ValidationError{o, "supply center not currently owned"}
	}
	if s.UnitAt(o.Loc) != nil {
		return o, &ValidationError{o, "province is occupied"}
	}
	if !m.CanOccupy(o.UnitType, o.Loc) {
		if o.UnitType == Fleet && len(prov.Coasts) > 0 && !o.Loc.IsCoastedVariant() {
			return o, &ValidationError{o, "must specify coast for fleet build"}
		}
		return o, &ValidationError{o, fmt.Sprintf("%s cannot be built at %s", o.UnitType, o.Loc)}
	}
	return o, nil
}

func validateAdjustmentDisband(o Order, s *State) (Order, error) {
	o, _, err := ownUnitAt(o, s)
	return o, err
}

// ValidateAndDefaultMovement validates submitted movement orders,
// demotes invalid ones to holds, keeps the last order per unit, and
// defaults every unordered unit to hold. The effective orders are
// returned sorted by loc index so adjudication is input-order
// independent; the second return value is the submitted orders with
// their validity flags settled, in submission order.
func ValidateAndDefaultMovement(orders []Order, s *State, m *Map) ([]Order, []Order) {
	submitted := make([]Order, len(orders))
	byRoot := make(map[Loc]Order, len(orders))

	for i, o := range orders {
		vo, err := ValidateOrder(o, s, m)
		if err != nil {
			vo.Valid = false
			submitted[i] = vo
			if u := s.UnitAt(o.Loc); u != nil && u.Power == o.Power {
				byRoot[u.Loc.Root()] = holdFor(*u, vo.Raw)
			}
			continue
		}
		vo.Valid = true
		submitted[i] = vo
		byRoot[vo.Loc.Root()] = vo
	}

	for _, u := range s.Units {
		if _, ok := byRoot[u.Loc.Root()]; !ok {
			byRoot[u.Loc.Root()] = holdFor(u, "")
		}
	}

	effective := make([]Order, 0, len(byRoot))
	for _, o := range byRoot {
		effective = append(effective, o)
	}
	sortOrdersByLoc(effective)
	return effective, submitted
}

func holdFor(u Unit, raw string) Order {
	return Order{
		Type:     OrderHold,
		Power:    u.Power,
		UnitType: u.Type,
		Loc:      u.Loc,
		Valid:    true,
		Raw:      raw,
	}
}

func sortOrdersByLoc(orders []Order) {
	for i := 1; i < len(orders); i++ {
		for j := i; j > 0 && LocIndex(orders[j].Loc) < LocIndex(orders[j-1].Loc); j-- {
			orders[j], orders[j-1] = orders[j-1], orders[j]
		}
	}
}

// convoyRouteExists reports whether a chain of sea provinces occupied by
// fleets connects src to dst, regardless of convoy orders. Used at
// validation time; adjudication separately requires matching convoy
// orders that survive.
func convoyRouteExists(src, dst Loc, s *State, m *Map) bool {
	src, dst = src.Root(), dst.Root()
	srcProv, dstProv := m.Province(src), m.Province(dst)
	if srcProv == nil || dstProv == nil || srcProv.Type == Sea || dstProv.Type == Sea {
		return false
	}

	visited := make(map[Loc]bool)
	var queue []Loc
	push := func(from Loc) {
		for _, adj := range m.fleetAdj[from] {
			root := adj.Root()
			if visited[root] {
				continue
			}
			p := m.Province(root)
			if p == nil || p.Type != Sea {
				continue
			}
			if u := s.UnitAt(root); u != nil && u.Type == Fleet {
				visited[root] = true
				queue = append(queue, root)
			}
		}
	}

	// Armies have no fleet adjacency; seed from every sea neighbor of the
	// source province's coasts.
	for _, l := range coastalApproaches(src, m) {
		push(l)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, adj := range m.fleetAdj[cur] {
			if adj.Root() == dst {
				return true
			}
		}
		push(cur)
	}
	return false
}

// coastalApproaches returns the fleet-graph entry points of a coastal
// province: the province itself plus its coasted variants.
func coastalApproaches(root Loc, m *Map) []Loc {
	p := m.Province(root)
	if p == nil {
		return nil
	}
	if len(p.Coasts) == 0 {
		return []Loc{root}
	}
	out := make([]Loc, 0, len(p.Coasts)+1)
	out = append(out, root)
	out = append(out, p.Coasts...)
	return out
}
