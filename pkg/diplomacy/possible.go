package diplomacy

// OrderableLocations returns, per power, the locations that owe an order
// in the current phase: unit locations during movement, dislodged unit
// locations during retreats, and during winter either free home centers
// (builds owed) or unit locations (disbands owed).
func OrderableLocations(s *State, m *Map) map[Power][]Loc {
	out := make(map[Power][]Loc, 7)

	switch s.Phase.Kind {
	case Movement:
		for _, u := range s.Units {
			out[u.Power] = append(out[u.Power], u.Loc)
		}
	case Retreat:
		for _, d := range s.Dislodged {
			out[d.Unit.Power] = append(out[d.Unit.Power], d.Unit.Loc)
		}
	case Adjustment:
		for _, p := range AllPowers() {
			delta := s.BuildDelta(p)
			switch {
			case delta > 0:
				for _, h := range m.HomeCenters(p) {
					if s.Centers[h] == p && s.UnitAt(h) == nil {
						out[p] = append(out[p], h)
					}
				}
			case delta < 0:
				for _, u := range s.UnitsOf(p) {
					out[p] = append(out[p], u.Loc)
				}
			}
		}
	}

	for p := range out {
		sortLocs(out[p])
	}
	return out
}

// PossibleOrders enumerates every legal order for every orderable
// location in the current phase, keyed by the unit's (or build site's)
// location. Enumeration order is deterministic.
func PossibleOrders(s *State, m *Map) map[Loc][]Order {
	out := make(map[Loc][]Order)

	switch s.Phase.Kind {
	case Movement:
		seas := occupiedFleetSeas(s, m)
		for _, u := range s.Units {
			out[u.Loc] = movementOrdersFor(u, s, m, seas)
		}
	case Retreat:
		for _, d := range s.Dislodged {
			out[d.Unit.Loc] = retreatOrdersFor(d, s, m)
		}
	case Adjustment:
		for p, locs := range OrderableLocations(s, m) {
			delta := s.BuildDelta(p)
			for _, l := range locs {
				if delta > 0 {
					out[l] = buildOrdersFor(p, l, m)
				} else {
					u := s.UnitAt(l)
					out[l] = []Order{{
						Type: OrderDisband, Power: p, UnitType: u.Type, Loc: u.Loc, Valid: true,
					}}
				}
			}
		}
	}
	return out
}

func movementOrdersFor(u Unit, s *State, m *Map, seas map[Loc]bool) []Order {
	orders := []Order{{
		Type: OrderHold, Power: u.Power, UnitType: u.Type, Loc: u.Loc, Valid: true,
	}}

	// Direct moves.
	for _, dest := range m.Dests(u.Loc, u.Type) {
		if !m.CanOccupy(u.Type, dest) {
			continue
		}
		orders = append(orders, Order{
			Type: OrderMove, Power: u.Power, UnitType: u.Type,
			Loc: u.Loc, Dest: dest, Valid: true,
		})
	}

	// Convoyed moves for armies.
	if u.Type == Army {
		for _, dest := range convoyDestinations(u.Loc, s, m, seas) {
			if m.Adjacent(u.Loc, dest, Army) {
				continue // already listed as a direct move
			}
			orders = append(orders, Order{
				Type: OrderMove, Power: u.Power, UnitType: u.Type,
				Loc: u.Loc, Dest: dest, ViaConvoy: true, Valid: true,
			})
		}
	}

	// Supports into every province this unit could move to.
	for _, destRoot := range reachableRoots(u, m) {
		if other := s.UnitAt(destRoot); other != nil {
			orders = append(orders, Order{
				Type: OrderSupportHold, Power: u.Power, UnitType: u.Type, Loc: u.Loc,
				AuxUnitType: other.Type, AuxLoc: other.Loc, Valid: true,
			})
		}
		for _, mover := range s.Units {
			if mover.Loc.Root() == u.Loc.Root() || mover.Loc.Root() == destRoot {
				continue
			}
			canReach := m.CanReachProvince(mover.Loc, destRoot, mover.Type)
			if !canReach && mover.Type == Army {
				canReach = convoyRouteExists(mover.Loc, destRoot, s, m)
			}
			if !canReach {
				continue
			}
			orders = append(orders, Order{
				Type: OrderSupportMove, Power: u.Power, UnitType: u.Type, Loc: u.Loc,
				AuxUnitType: mover.Type, AuxLoc: mover.Loc, AuxDest: destRoot, Valid: true,
			})
		}
	}

	// Convoys for fleets at sea.
	if u.Type == Fleet && m.Province(u.Loc).Type == Sea {
		for _, army := range s.Units {
			if army.Type != Army {
				continue
			}
			from := reachableSeas(army.Loc, s, m, seas)
			if !from[u.Loc.Root()] {
				continue
			}
			to := reachableSeasFrom(u.Loc.Root(), s, m, seas)
			for _, dest := range convoyLandings(to, army.Loc.Root(), m) {
				orders = append(orders, Order{
					Type: OrderConvoy, Power: u.Power, UnitType: Fleet, Loc: u.Loc,
					AuxUnitType: Army, AuxLoc: army.Loc, AuxDest: dest, Valid: true,
				})
			}
		}
	}

	return orders
}

func retreatOrdersFor(d DislodgedUnit, s *State, m *Map) []Order {
	u := d.Unit
	orders := []Order{{
		Type: OrderDisband, Power: u.Power, UnitType: u.Type, Loc: u.Loc, Valid: true,
	}}
	for _, dest := range d.Dests {
		orders = append(orders, Order{
			Type: OrderRetreat, Power: u.Power, UnitType: u.Type,
			Loc: u.Loc, Dest: dest, Valid: true,
		})
	}
	return orders
}

func buildOrdersFor(p Power, site Loc, m *Map) []Order {
	var orders []Order
	if m.CanOccupy(Army, site) {
		orders = append(orders, Order{
			Type: OrderBuild, Power: p, UnitType: Army, Loc: site, Valid: true,
		})
	}
	prov := m.Province(site)
	if len(prov.Coasts) > 0 {
		for _, c := range prov.Coasts {
			orders = append(orders, Order{
				Type: OrderBuild, Power: p, UnitType: Fleet, Loc: c, Valid: true,
			})
		}
	} else if m.CanOccupy(Fleet, site) {
		orders = append(orders, Order{
			Type: OrderBuild, Power: p, UnitType: Fleet, Loc: site, Valid: true,
		})
	}
	orders = append(orders, Order{Type: OrderWaive, Power: p, Valid: true})
	return orders
}

// convoyDestinations lists the coastal provinces an army could reach by
// convoy through the currently occupied fleet seas.
func convoyDestinations(from Loc, s *State, m *Map, seas map[Loc]bool) []Loc {
	reach := reachableSeas(from, s, m, seas)
	return convoyLandings(reach, from.Root(), m)
}

// reachableRoots lists the root provinces a unit could move to directly,
// in canonical order.
func reachableRoots(u Unit, m *Map) []Loc {
	seen := make(map[Loc]bool)
	var out []Loc
	for _, dest := range m.Dests(u.Loc, u.Type) {
		root := dest.Root()
		if !seen[root] {
			seen[root] = true
			out = append(out, root)
		}
	}
	sortLocs(out)
	return out
}

// occupiedFleetSeas returns the set of sea provinces holding a fleet.
func occupiedFleetSeas(s *State, m *Map) map[Loc]bool {
	seas := make(map[Loc]bool)
	for _, u := range s.Units {
		if u.Type == Fleet && m.Province(u.Loc).Type == Sea {
			seas[u.Loc.Root()] = true
		}
	}
	return seas
}

// reachableSeas runs a BFS from a coastal province through occupied
// fleet seas, returning the seas reachable along potential convoy chains.
func reachableSeas(from Loc, s *State, m *Map, seas map[Loc]bool) map[Loc]bool {
	visited := make(map[Loc]bool)
	var queue []Loc
	for _, entry := range coastalApproaches(from.Root(), m) {
		for _, adj := range m.fleetAdj[entry] {
			root := adj.Root()
			if seas[root] && !visited[root] {
				visited[root] = true
				queue = append(queue, root)
			}
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, adj := range m.fleetAdj[cur] {
			root := adj.Root()
			if seas[root] && !visited[root] {
				visited[root] = true
				queue = append(queue, root)
			}
		}
	}
	return visited
}

// reachableSeasFrom runs the same BFS seeded at a single sea province.
func reachableSeasFrom(sea Loc, s *State, m *Map, seas map[Loc]bool) map[Loc]bool {
	visited := map[Loc]bool{sea: true}
	queue := []Loc{sea}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, adj := range m.fleetAdj[cur] {
			root := adj.Root()
			if seas[root] && !visited[root] {
				visited[root] = true
				queue = append(queue, root)
			}
		}
	}
	return visited
}

// convoyLandings lists the coastal provinces bordering any sea in the
// reachable set, excluding the army's own province.
func convoyLandings(reach map[Loc]bool, exclude Loc, m *Map) []Loc {
	seen := make(map[Loc]bool)
	var out []Loc
	for sea := range reach {
		for _, adj := range m.fleetAdj[sea] {
			root := adj.Root()
			p := m.Province(root)
			if p == nil || p.Type == Sea || root == exclude || seen[root] {
				continue
			}
			seen[root] = true
			out = append(out, root)
		}
	}
	sortLocs(out)
	return out
}
