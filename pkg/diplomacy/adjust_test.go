package diplomacy

import "testing"

// adjustmentState builds a winter-phase state with the given units and
// center assignments layered over a neutral board.
func adjustmentState(units []Unit, centers map[Loc]Power) *State {
	s := &State{
		Phase:         Phase{Season: Winter, Year: 1901, Kind: Adjustment},
		Units:         units,
		Centers:       make(map[Loc]Power),
		Influence:     make(map[Loc]Power),
		Contested:     make(map[Loc]bool),
		CivilDisorder: make(map[Power]bool),
	}
	for _, sc := range StandardMap().SupplyCenters() {
		s.Centers[sc] = Neutral
	}
	for sc, p := range centers {
		s.Centers[sc] = p
	}
	s.Normalize()
	return s
}

func build(p Power, ut UnitType, at Loc) Order {
	return Order{Type: OrderBuild, Power: p, UnitType: ut, Loc: at, Valid: true}
}

func waive(p Power) Order {
	return Order{Type: OrderWaive, Power: p, Valid: true}
}

func TestBuildsAtFreeOwnedHomeCenters(t *testing.T) {
	s := adjustmentState(
		[]Unit{{Army, France, "GAS"}},
		map[Loc]Power{"PAR": France, "BRE": France, "MAR": France},
	)
	if got := s.BuildDelta(France); got != 2 {
		t.Fatalf("delta: got %d, want 2", got)
	}

	res := ResolveAdjustments(map[Power][]Order{
		France: {build(France, Army, "PAR"), build(France, Fleet, "BRE")},
	}, s, StandardMap())

	for _, r := range res.Resolved {
		if r.Status != StatusSucceeded {
			t.Errorf("build should succeed: %+v", r)
		}
	}

	next := s.Clone()
	ApplyAdjustments(next, res)
	if next.UnitCount(France) != 3 {
		t.Errorf("France should end with 3 units, got %d", next.UnitCount(France))
	}
	if u := next.UnitAt("BRE"); u == nil || u.Type != Fleet {
		t.Error("fleet should stand in Brest")
	}
}

func TestBuildRejections(t *testing.T) {
	s := adjustmentState(
		[]Unit{{Army, France, "PAR"}},
		map[Loc]Power{"PAR": France, "BRE": France, "MAR": France, "SPA": France, "BER": Germany},
	)

	cases := []struct {
		name  string
		order Order
	}{
		{"occupied home center", build(France, Army, "PAR")},
		{"non-home owned center", build(France, Army, "SPA")},
		{"unowned home center", build(Germany, Army, "KIE")},
		{"fleet at inland center", build(France, Fleet, "PAR")},
	}
	for _, c := range cases {
		res := ResolveAdjustments(map[Power][]Order{c.order.Power: {c.order}}, s, StandardMap())
		if len(res.Resolved) == 0 || res.Resolved[len(res.Resolved)-1].Status != StatusVoid {
			t.Errorf("%s: expected void, got %+v", c.name, res.Resolved)
		}
	}
}

func TestBuildsBeyondDeltaFail(t *testing.T) {
	s := adjustmentState(
		[]Unit{{Army, France, "GAS"}, {Army, France, "PIC"}},
		map[Loc]Power{"PAR": France, "BRE": France, "MAR": France},
	)
	res := ResolveAdjustments(map[Power][]Order{
		France: {build(France, Army, "PAR"), build(France, Fleet, "BRE")},
	}, s, StandardMap())

	if res.Resolved[0].Status != StatusSucceeded {
		t.Errorf("first build should succeed: %+v", res.Resolved[0])
	}
	if res.Resolved[1].Status != StatusFailed {
		t.Errorf("build beyond delta should fail: %+v", res.Resolved[1])
	}
}

func TestWaiveConsumesBuild(t *testing.T) {
	s := adjustmentState(
		[]Unit{{Army, France, "GAS"}},
		map[Loc]Power{"PAR": France, "BRE": France},
	)
	res := ResolveAdjustments(map[Power][]Order{
		France: {waive(France), build(France, Army, "PAR")},
	}, s, StandardMap())

	if res.Resolved[0].Status != StatusSucceeded {
		t.Errorf("waive should succeed: %+v", res.Resolved[0])
	}
	if res.Resolved[1].Status != StatusFailed {
		t.Errorf("build after waive exhausts the delta: %+v", res.Resolved[1])
	}
}

func TestSplitCoastFleetBuildNeedsCoast(t *testing.T) {
	s := adjustmentState(
		[]Unit{{Army, Russia, "UKR"}},
		map[Loc]Power{"STP": Russia, "MOS": Russia},
	)
	res := ResolveAdjustments(map[Power][]Order{
		Russia: {build(Russia, Fleet, "STP")},
	}, s, StandardMap())
	if res.Resolved[0].Status != StatusVoid {
		t.Errorf("coast-less fleet build at StP should be void: %+v", res.Resolved[0])
	}

	res = ResolveAdjustments(map[Power][]Order{
		Russia: {build(Russia, Fleet, "STP/NC")},
	}, s, StandardMap())
	if res.Resolved[0].Status != StatusSucceeded {
		t.Errorf("coasted fleet build should succeed: %+v", res.Resolved[0])
	}
}

func TestExplicitDisbands(t *testing.T) {
	s := adjustmentState(
		[]Unit{{Army, Turkey, "CON"}, {Army, Turkey, "SYR"}},
		map[Loc]Power{"CON": Turkey},
	)
	res := ResolveAdjustments(map[Power][]Order{
		Turkey: {disband(Turkey, Army, "SYR")},
	}, s, StandardMap())

	if len(res.Resolved) != 1 || res.Resolved[0].Status != StatusSucceeded {
		t.Fatalf("explicit disband should succeed: %+v", res.Resolved)
	}
	if res.CivilDisorder[Turkey] {
		t.Error("no civil disorder when disbands are fully submitted")
	}

	next := s.Clone()
	ApplyAdjustments(next, res)
	if next.UnitCount(Turkey) != 1 || next.UnitAt("SYR") != nil {
		t.Error("Syria should be disbanded")
	}
}

func TestCivilDisorderPicksMostDistantUnit(t *testing.T) {
	// England: 3 centers, 5 units, one explicit disband. The engine must
	// auto-disband exactly one more: the unit farthest from home.
	s := adjustmentState(
		[]Unit{
			{Fleet, England, "NTH"},
			{Fleet, England, "MAO"},
			{Army, England, "PAR"},
			{Army, England, "LON"},
			{Fleet, England, "EDI"},
		},
		map[Loc]Power{"LON": England, "EDI": England, "LVP": England},
	)
	res := ResolveAdjustments(map[Power][]Order{
		England: {disband(England, Fleet, "MAO")},
	}, s, StandardMap())

	if !res.CivilDisorder[England] {
		t.Fatal("under-submitting disbands must trigger civil disorder")
	}

	var auto []Order
	for _, r := range res.Resolved[1:] {
		auto = append(auto, r.Order)
	}
	if len(auto) != 1 {
		t.Fatalf("expected exactly one auto-disband, got %d", len(auto))
	}
	if auto[0].Loc != "PAR" {
		t.Errorf("auto-disband should pick the most distant unit (PAR), got %s", auto[0].Loc)
	}

	next := s.Clone()
	ApplyAdjustments(next, res)
	if got := next.UnitCount(England); got != 3 {
		t.Errorf("England should end with 3 units, got %d", got)
	}
	if !next.CivilDisorder[England] {
		t.Error("civil-disorder flag should persist on the state")
	}
}

func TestCivilDisorderTieBreaks(t *testing.T) {
	// F NTH and A YOR are both one step from home: the fleet goes first.
	s := adjustmentState(
		[]Unit{
			{Fleet, England, "NTH"},
			{Army, England, "YOR"},
			{Army, England, "LON"},
		},
		map[Loc]Power{"LON": England},
	)
	res := ResolveAdjustments(map[Power][]Order{}, s, StandardMap())

	var locs []Loc
	for _, r := range res.Resolved {
		locs = append(locs, r.Order.Loc)
	}
	if len(locs) != 2 {
		t.Fatalf("expected two auto-disbands, got %v", locs)
	}
	if locs[0] != "NTH" || locs[1] != "YOR" {
		t.Errorf("fleet-before-army tie-break violated: %v", locs)
	}
}

func TestCivilDisorderAlphabeticTieBreak(t *testing.T) {
	// Two armies at equal distance and type: the higher loc index goes.
	s := adjustmentState(
		[]Unit{
			{Army, England, "YOR"},
			{Army, England, "WAL"},
			{Army, England, "LON"},
		},
		map[Loc]Power{"LON": England},
	)
	res := ResolveAdjustments(map[Power][]Order{}, s, StandardMap())
	if len(res.Resolved) != 2 {
		t.Fatalf("expected two auto-disbands, got %+v", res.Resolved)
	}
	if res.Resolved[0].Order.Loc != "YOR" {
		t.Errorf("descending loc index tie-break violated: %v", res.Resolved[0].Order.Loc)
	}
}
