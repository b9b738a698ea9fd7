package diplomacy

// ProvinceType classifies a province as land, sea, or coastal.
type ProvinceType int

const (
	Land    ProvinceType = iota // Inland province (armies only)
	Sea                         // Sea province (fleets only)
	Coastal                     // Coastal province (armies or fleets)
)

// Province represents a single province on the map, keyed by its root Loc.
type Province struct {
	Loc            Loc
	Name           string
	Type           ProvinceType
	IsSupplyCenter bool
	HomePower      Power // Power whose home SC this is (Neutral if not a home SC)
	Coasts         []Loc // Coasted variant locs, non-empty only for split-coast provinces
}

// Map holds the full province and adjacency graph. Army adjacency is
// between root provinces; fleet adjacency is between exact locations, so
// fleets on split-coast provinces move along their own coast's edges.
type Map struct {
	Provinces map[Loc]*Province
	armyAdj   map[Loc][]Loc
	fleetAdj  map[Loc][]Loc
}

// Province returns the province record for a location (coasted variants
// resolve to their parent), or nil if unknown.
func (m *Map) Province(l Loc) *Province {
	return m.Provinces[l.Root()]
}

// Adjacent returns true if a unit of the given type may move from src to
// dst in one step. For fleets both locations must match exactly,
// including the coast.
func (m *Map) Adjacent(src, dst Loc, ut UnitType) bool {
	if ut == Army {
		src, dst = src.Root(), dst.Root()
		for _, a := range m.armyAdj[src] {
			if a == dst {
				return true
			}
		}
		return false
	}
	for _, a := range m.fleetAdj[src] {
		if a == dst {
			return true
		}
	}
	return false
}

// CanReachProvince returns true if a unit of the given type at src can
// move to some location of the dst province (any coast).
func (m *Map) CanReachProvince(src Loc, dst Loc, ut UnitType) bool {
	dst = dst.Root()
	if ut == Army {
		return m.Adjacent(src, dst, Army)
	}
	for _, a := range m.fleetAdj[src] {
		if a.Root() == dst {
			return true
		}
	}
	return false
}

// Dests returns every location a unit of the given type at src may move
// to, in canonical index order.
func (m *Map) Dests(src Loc, ut UnitType) []Loc {
	if ut == Army {
		return m.armyAdj[src.Root()]
	}
	return m.fleetAdj[src]
}

// FleetCoastsTo returns the coasted variants of the dst province
// reachable by a fleet at src. For provinces without split coasts the
// root loc itself is returned when reachable.
func (m *Map) FleetCoastsTo(src Loc, dst Loc) []Loc {
	dst = dst.Root()
	var out []Loc
	for _, a := range m.fleetAdj[src] {
		if a.Root() == dst {
			out = append(out, a)
		}
	}
	return out
}

// HasCoasts returns true if the province has split coasts.
func (m *Map) HasCoasts(l Loc) bool {
	p := m.Provinces[l.Root()]
	return p != nil && len(p.Coasts) > 0
}

// CanOccupy returns true if a unit of the given type may stand at the
// exact location l.
func (m *Map) CanOccupy(ut UnitType, l Loc) bool {
	p := m.Provinces[l.Root()]
	if p == nil {
		return false
	}
	if ut == Army {
		return !l.IsCoastedVariant() && p.Type != Sea
	}
	if p.Type == Land {
		return false
	}
	if len(p.Coasts) > 0 {
		return l.IsCoastedVariant()
	}
	return !l.IsCoastedVariant()
}

// SupplyCenters returns all supply-center root locs in canonical order.
func (m *Map) SupplyCenters() []Loc {
	var out []Loc
	for _, l := range AllLocs() {
		if l.IsCoastedVariant() {
			continue
		}
		if p := m.Provinces[l]; p != nil && p.IsSupplyCenter {
			out = append(out, l)
		}
	}
	return out
}

// HomeCenters returns the home supply-center locs of a power in
// canonical order.
func (m *Map) HomeCenters(p Power) []Loc {
	var out []Loc
	for _, l := range AllLocs() {
		if l.IsCoastedVariant() {
			continue
		}
		if pr := m.Provinces[l]; pr != nil && pr.IsSupplyCenter && pr.HomePower == p {
			out = append(out, l)
		}
	}
	return out
}
