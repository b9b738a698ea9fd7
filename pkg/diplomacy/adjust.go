package diplomacy

import "sort"

// AdjustmentResult is the outcome of resolving a winter phase.
type AdjustmentResult struct {
	Resolved      []ResolvedOrder
	CivilDisorder map[Power]bool // Powers that had units auto-disbanded
}

// ResolveAdjustments processes build/disband/waive orders for every
// power. Builds beyond a power's delta fail, invalid orders are void,
// and powers that under-submit disbands lose units by civil-disorder
// selection.
func ResolveAdjustments(ordersByPower map[Power][]Order, s *State, m *Map) *AdjustmentResult {
	res := &AdjustmentResult{CivilDisorder: make(map[Power]bool)}

	for _, power := range AllPowers() {
		delta := s.BuildDelta(power)
		submitted := ordersByPower[power]

		switch {
		case delta > 0:
			res.resolveBuilds(power, delta, submitted, s, m)
		case delta < 0:
			res.resolveDisbands(power, -delta, submitted, s)
		}
	}
	return res
}

func (res *AdjustmentResult) resolveBuilds(power Power, delta int, submitted []Order, s *State, m *Map) {
	built := 0
	taken := make(map[Loc]bool)
	for _, o := range submitted {
		if o.Type != OrderBuild && o.Type != OrderWaive {
			res.Resolved = append(res.Resolved, ResolvedOrder{Order: o, Status: StatusVoid})
			continue
		}
		if built >= delta {
			res.Resolved = append(res.Resolved, ResolvedOrder{Order: o, Status: StatusFailed})
			continue
		}
		if o.Type == OrderWaive {
			res.Resolved = append(res.Resolved, ResolvedOrder{Order: o, Status: StatusSucceeded})
			built++
			continue
		}
		vo, err := ValidateOrder(o, s, m)
		if err != nil || taken[vo.Loc.Root()] {
			vo.Valid = false
			res.Resolved = append(res.Resolved, ResolvedOrder{Order: vo, Status: StatusVoid})
			continue
		}
		taken[vo.Loc.Root()] = true
		res.Resolved = append(res.Resolved, ResolvedOrder{Order: vo, Status: StatusSucceeded})
		built++
	}
	// Unused builds are implicitly waived.
}

func (res *AdjustmentResult) resolveDisbands(power Power, needed int, submitted []Order, s *State) {
	disbanded := 0
	taken := make(map[Loc]bool)
	for _, o := range submitted {
		if o.Type != OrderDisband {
			res.Resolved = append(res.Resolved, ResolvedOrder{Order: o, Status: StatusVoid})
			continue
		}
		vo, _, err := ownUnitAt(o, s)
		if err != nil || taken[vo.Loc.Root()] {
			vo.Valid = false
			res.Resolved = append(res.Resolved, ResolvedOrder{Order: vo, Status: StatusVoid})
			continue
		}
		if disbanded >= needed {
			res.Resolved = append(res.Resolved, ResolvedOrder{Order: vo, Status: StatusFailed})
			continue
		}
		taken[vo.Loc.Root()] = true
		res.Resolved = append(res.Resolved, ResolvedOrder{Order: vo, Status: StatusSucceeded})
		disbanded++
	}

	if disbanded < needed {
		auto := CivilDisorderDisbands(power, needed-disbanded, s, taken)
		if len(auto) > 0 {
			res.CivilDisorder[power] = true
			res.Resolved = append(res.Resolved, auto...)
		}
	}
}

// CivilDisorderDisbands picks which units a deficient power loses, in
// the deterministic order: greatest table distance first, fleets before
// armies, then descending alphabetic loc index. Units at table value -1
// are skipped while any eligible unit remains. Units already chosen by
// explicit disbands are excluded.
func CivilDisorderDisbands(power Power, count int, s *State, exclude map[Loc]bool) []ResolvedOrder {
	var pool []Unit
	for _, u := range s.UnitsOf(power) {
		if exclude == nil || !exclude[u.Loc.Root()] {
			pool = append(pool, u)
		}
	}
	if len(pool) == 0 || count <= 0 {
		return nil
	}

	sort.SliceStable(pool, func(i, j int) bool {
		di, dj := DisorderDistance(pool[i]), DisorderDistance(pool[j])
		// Ineligible (-1) units sort last.
		if (di < 0) != (dj < 0) {
			return dj < 0
		}
		if di != dj {
			return di > dj
		}
		if pool[i].Type != pool[j].Type {
			return pool[i].Type == Fleet
		}
		return LocIndex(pool[i].Loc) > LocIndex(pool[j].Loc)
	})

	if count > len(pool) {
		count = len(pool)
	}
	results := make([]ResolvedOrder, 0, count)
	for _, u := range pool[:count] {
		results = append(results, ResolvedOrder{
			Order: Order{
				Type:     OrderDisband,
				Power:    power,
				UnitType: u.Type,
				Loc:      u.Loc,
				Valid:    true,
			},
			Status: StatusSucceeded,
		})
	}
	return results
}

// ApplyAdjustments updates the state with resolved winter orders and
// records which powers fell into civil disorder.
func ApplyAdjustments(s *State, res *AdjustmentResult) {
	for _, r := range res.Resolved {
		if r.Status != StatusSucceeded {
			continue
		}
		switch r.Order.Type {
		case OrderBuild:
			u := Unit{Type: r.Order.UnitType, Power: r.Order.Power, Loc: r.Order.Loc}
			s.Units = append(s.Units, u)
			s.Influence[u.Loc.Root()] = u.Power
		case OrderDisband:
			root := r.Order.Loc.Root()
			for i := range s.Units {
				if s.Units[i].Loc.Root() == root && s.Units[i].Power == r.Order.Power {
					s.Units = append(s.Units[:i], s.Units[i+1:]...)
					break
				}
			}
		}
	}
	for p, cd := range res.CivilDisorder {
		if cd {
			s.CivilDisorder[p] = true
		}
	}
	s.Normalize()
}
