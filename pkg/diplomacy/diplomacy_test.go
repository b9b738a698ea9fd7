package diplomacy

import "testing"

// stateWith builds a movement-phase test state holding the given units.
func stateWith(units ...Unit) *State {
	s := &State{
		Phase:         Phase{Season: Spring, Year: 1901, Kind: Movement},
		Units:         units,
		Centers:       InitialCenters(),
		Influence:     make(map[Loc]Power),
		Contested:     make(map[Loc]bool),
		CivilDisorder: make(map[Power]bool),
	}
	for _, u := range units {
		s.Influence[u.Loc.Root()] = u.Power
	}
	s.Normalize()
	return s
}

// resolve validates, defaults, and adjudicates the given orders.
func resolve(t *testing.T, s *State, orders ...Order) *MovementResult {
	t.Helper()
	effective, _ := ValidateAndDefaultMovement(orders, s, StandardMap())
	res, err := ResolveMovement(effective, s, StandardMap(), false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return res
}

// statusAt returns the adjudicated status of the order at a province.
func statusAt(res *MovementResult, l Loc) OrderStatus {
	for _, ro := range res.Resolved {
		if ro.Order.Loc.Root() == l.Root() {
			return ro.Status
		}
	}
	return StatusVoid
}

func move(p Power, ut UnitType, from, to Loc) Order {
	return Order{Type: OrderMove, Power: p, UnitType: ut, Loc: from, Dest: to, Valid: true}
}

func moveVia(p Power, from, to Loc) Order {
	return Order{Type: OrderMove, Power: p, UnitType: Army, Loc: from, Dest: to, ViaConvoy: true, Valid: true}
}

func hold(p Power, ut UnitType, at Loc) Order {
	return Order{Type: OrderHold, Power: p, UnitType: ut, Loc: at, Valid: true}
}

func supportHold(p Power, ut UnitType, at Loc, auxType UnitType, aux Loc) Order {
	return Order{Type: OrderSupportHold, Power: p, UnitType: ut, Loc: at, AuxUnitType: auxType, AuxLoc: aux, Valid: true}
}

func supportMove(p Power, ut UnitType, at Loc, auxType UnitType, aux, dest Loc) Order {
	return Order{Type: OrderSupportMove, Power: p, UnitType: ut, Loc: at, AuxUnitType: auxType, AuxLoc: aux, AuxDest: dest, Valid: true}
}

func convoy(p Power, at, army, dest Loc) Order {
	return Order{Type: OrderConvoy, Power: p, UnitType: Fleet, Loc: at, AuxUnitType: Army, AuxLoc: army, AuxDest: dest, Valid: true}
}

func TestLocIndexIsAlphabetic(t *testing.T) {
	locs := AllLocs()
	if len(locs) != NumLocs {
		t.Fatalf("expected %d locs, got %d", NumLocs, len(locs))
	}
	for i := 1; i < len(locs); i++ {
		if string(locs[i-1]) >= string(locs[i]) {
			t.Errorf("locs out of order at %d: %s >= %s", i, locs[i-1], locs[i])
		}
	}
	if LocIndex("ADR") != 0 || LocIndex("YOR") != 80 {
		t.Errorf("alphabetic anchors wrong: ADR=%d YOR=%d", LocIndex("ADR"), LocIndex("YOR"))
	}
	if LocIndex("BUL/EC") != 16 || LocIndex("SPA/SC") != 63 || LocIndex("STP/NC") != 65 {
		t.Errorf("coasted variant indices wrong: %d %d %d",
			LocIndex("BUL/EC"), LocIndex("SPA/SC"), LocIndex("STP/NC"))
	}
}

func TestStandardMapProvinceCount(t *testing.T) {
	m := StandardMap()
	if len(m.Provinces) != 75 {
		t.Errorf("expected 75 provinces, got %d", len(m.Provinces))
	}
}

func TestStandardMapSupplyCenterCount(t *testing.T) {
	m := StandardMap()
	if got := len(m.SupplyCenters()); got != 34 {
		t.Errorf("expected 34 supply centers, got %d", got)
	}
	for _, p := range AllPowers() {
		want := 3
		if p == Russia {
			want = 4
		}
		if got := len(m.HomeCenters(p)); got != want {
			t.Errorf("%s: expected %d home centers, got %d", p, want, got)
		}
	}
}

func TestStandardMapAdjacencyBidirectional(t *testing.T) {
	m := StandardMap()
	for from, tos := range m.armyAdj {
		for _, to := range tos {
			if !m.Adjacent(to, from, Army) {
				t.Errorf("army adjacency %s->%s not mirrored", from, to)
			}
		}
	}
	for from, tos := range m.fleetAdj {
		for _, to := range tos {
			if !m.Adjacent(to, from, Fleet) {
				t.Errorf("fleet adjacency %s->%s not mirrored", from, to)
			}
		}
	}
}

func TestSplitCoastAdjacency(t *testing.T) {
	m := StandardMap()
	if !m.Adjacent("MAO", "SPA/NC", Fleet) || !m.Adjacent("MAO", "SPA/SC", Fleet) {
		t.Error("MAO should reach both coasts of Spain")
	}
	if m.Adjacent("LYO", "SPA/NC", Fleet) {
		t.Error("LYO must not reach Spain's north coast")
	}
	if !m.Adjacent("BAR", "STP/NC", Fleet) || m.Adjacent("BAR", "STP/SC", Fleet) {
		t.Error("Barents reaches only St. Petersburg's north coast")
	}
	if !m.Adjacent("GAS", "SPA", Army) {
		t.Error("armies use the parent province for split coasts")
	}
}

func TestCanOccupy(t *testing.T) {
	m := StandardMap()
	if m.CanOccupy(Army, "NTH") {
		t.Error("armies cannot occupy seas")
	}
	if m.CanOccupy(Fleet, "MOS") {
		t.Error("fleets cannot occupy inland provinces")
	}
	if m.CanOccupy(Fleet, "SPA") || !m.CanOccupy(Fleet, "SPA/SC") {
		t.Error("fleets occupy the coasted variant of split provinces")
	}
	if m.CanOccupy(Army, "SPA/NC") || !m.CanOccupy(Army, "SPA") {
		t.Error("armies occupy the parent of split provinces")
	}
}

func TestInitialStateSetup(t *testing.T) {
	s := NewInitialState()
	if s.Phase.String() != "S1901M" {
		t.Errorf("initial phase: got %s", s.Phase)
	}
	if len(s.Units) != 22 {
		t.Errorf("expected 22 starting units, got %d", len(s.Units))
	}
	for _, p := range AllPowers() {
		want := 3
		if p == Russia {
			want = 4
		}
		if got := s.UnitCount(p); got != want {
			t.Errorf("%s: %d starting units, want %d", p, got, want)
		}
		if got := s.CenterCount(p); got != want {
			t.Errorf("%s: %d starting centers, want %d", p, got, want)
		}
	}
	if u := s.UnitAt("STP"); u == nil || u.Loc != "STP/SC" || u.Type != Fleet {
		t.Error("Russia starts with a fleet on StP's south coast")
	}
	if s.NeedsAdjustment() {
		t.Error("initial position has no build deltas")
	}
}
