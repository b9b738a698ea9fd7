package diplomacy

// ResolveRetreats adjudicates retreat-phase orders. Invalid retreats and
// unordered dislodged units disband; two or more units retreating to the
// same province all disband.
func ResolveRetreats(orders []Order, s *State, m *Map) []ResolvedOrder {
	// The last order submitted for a dislodged unit wins, valid or not;
	// an invalid one demotes the unit to disband and is reported void.
	type staged struct {
		order Order
		void  bool
	}
	byRoot := make(map[Loc]staged, len(s.Dislodged))
	for _, o := range orders {
		vo, err := ValidateOrder(o, s, m)
		if err != nil {
			if d := s.DislodgedAt(o.Loc); d != nil && d.Unit.Power == o.Power {
				byRoot[d.Unit.Loc.Root()] = staged{order: vo, void: true}
			}
			continue
		}
		byRoot[vo.Loc.Root()] = staged{order: vo}
	}

	// Unordered dislodged units disband.
	for _, d := range s.Dislodged {
		root := d.Unit.Loc.Root()
		if _, ok := byRoot[root]; !ok {
			byRoot[root] = staged{order: Order{
				Type:     OrderDisband,
				Power:    d.Unit.Power,
				UnitType: d.Unit.Type,
				Loc:      d.Unit.Loc,
				Valid:    true,
			}}
		}
	}

	// Count competing retreat destinations by root province.
	destCount := make(map[Loc]int)
	for _, st := range byRoot {
		if !st.void && st.order.Type == OrderRetreat {
			destCount[st.order.Dest.Root()]++
		}
	}

	results := make([]ResolvedOrder, 0, len(byRoot))
	for _, d := range s.Dislodged {
		st := byRoot[d.Unit.Loc.Root()]
		switch {
		case st.void:
			results = append(results, ResolvedOrder{Order: st.order, Status: StatusVoid})
		case st.order.Type == OrderDisband:
			results = append(results, ResolvedOrder{Order: st.order, Status: StatusSucceeded})
		case destCount[st.order.Dest.Root()] > 1:
			results = append(results, ResolvedOrder{Order: st.order, Status: StatusBounced})
		default:
			results = append(results, ResolvedOrder{Order: st.order, Status: StatusSucceeded})
		}
	}
	return results
}

// ApplyRetreats updates the state with resolved retreat orders.
// Successful retreats re-enter the board; everything else disbands.
func ApplyRetreats(s *State, results []ResolvedOrder) {
	for _, r := range results {
		if r.Order.Type == OrderRetreat && r.Status == StatusSucceeded {
			u := Unit{Type: r.Order.UnitType, Power: r.Order.Power, Loc: r.Order.Dest}
			s.Units = append(s.Units, u)
			s.Influence[u.Loc.Root()] = u.Power
		}
	}
	s.Dislodged = nil
	s.Contested = make(map[Loc]bool)
	s.Normalize()
}
