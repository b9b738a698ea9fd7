package diplomacy

import "testing"

func TestOrderableLocationsMovement(t *testing.T) {
	s := NewInitialState()
	locs := OrderableLocations(s, StandardMap())
	for _, p := range AllPowers() {
		want := 3
		if p == Russia {
			want = 4
		}
		if len(locs[p]) != want {
			t.Errorf("%s: %d orderable locs, want %d", p, len(locs[p]), want)
		}
	}
}

func TestPossibleOrdersInitialParis(t *testing.T) {
	s := NewInitialState()
	orders := PossibleOrders(s, StandardMap())

	par := orders["PAR"]
	if len(par) == 0 {
		t.Fatal("Paris should have possible orders")
	}

	var hasHold, hasBur, hasSupportMarToBur bool
	for _, o := range par {
		switch {
		case o.Type == OrderHold:
			hasHold = true
		case o.Type == OrderMove && o.Dest == "BUR":
			hasBur = true
		case o.Type == OrderSupportMove && o.AuxLoc == "MAR" && o.AuxDest == "BUR":
			hasSupportMarToBur = true
		}
		if o.Type == OrderMove && o.Dest.Root() == "PAR" {
			t.Error("a unit cannot move to its own province")
		}
	}
	if !hasHold || !hasBur {
		t.Error("Paris must be able to hold and to move to Burgundy")
	}
	if !hasSupportMarToBur {
		t.Error("Paris should be able to support Marseilles into Burgundy")
	}
}

func TestPossibleOrdersFleetCoasts(t *testing.T) {
	s := stateWith(Unit{Fleet, France, "MAO"})
	orders := PossibleOrders(s, StandardMap())

	var nc, sc, root bool
	for _, o := range orders["MAO"] {
		if o.Type != OrderMove {
			continue
		}
		switch o.Dest {
		case "SPA/NC":
			nc = true
		case "SPA/SC":
			sc = true
		case "SPA":
			root = true
		}
	}
	if !nc || !sc {
		t.Error("MAO fleet should list moves to both Spanish coasts")
	}
	if root {
		t.Error("fleet moves to a split province must name the coast")
	}
}

func TestPossibleOrdersIncludeConvoys(t *testing.T) {
	s := stateWith(
		Unit{Army, England, "LON"},
		Unit{Fleet, England, "NTH"},
	)
	orders := PossibleOrders(s, StandardMap())

	var armyVia, fleetConvoy bool
	for _, o := range orders["LON"] {
		if o.Type == OrderMove && o.ViaConvoy && o.Dest == "NWY" {
			armyVia = true
		}
	}
	for _, o := range orders["NTH"] {
		if o.Type == OrderConvoy && o.AuxLoc == "LON" && o.AuxDest == "NWY" {
			fleetConvoy = true
		}
	}
	if !armyVia {
		t.Error("army should list a convoyed move to Norway")
	}
	if !fleetConvoy {
		t.Error("fleet should list the matching convoy order")
	}
}

func TestPossibleOrdersRetreatPhase(t *testing.T) {
	s := dislodgedState(t)
	orders := PossibleOrders(s, StandardMap())

	hol := orders["HOL"]
	if len(hol) == 0 {
		t.Fatal("dislodged unit should have retreat options")
	}
	if hol[0].Type != OrderDisband {
		t.Error("disband is always available to a dislodged unit")
	}
	for _, o := range hol[1:] {
		if o.Type != OrderRetreat {
			t.Errorf("unexpected order kind in retreat phase: %s", o.Type)
		}
		if o.Dest.Root() == "NTH" {
			t.Error("retreat to the attacker's origin offered")
		}
	}
}

func TestPossibleOrdersAdjustmentPhase(t *testing.T) {
	s := adjustmentState(
		[]Unit{{Army, Russia, "UKR"}},
		map[Loc]Power{"STP": Russia, "MOS": Russia, "WAR": Russia},
	)
	orders := PossibleOrders(s, StandardMap())

	stp := orders["STP"]
	var army, ncFleet, scFleet, waived bool
	for _, o := range stp {
		switch {
		case o.Type == OrderBuild && o.UnitType == Army && o.Loc == "STP":
			army = true
		case o.Type == OrderBuild && o.UnitType == Fleet && o.Loc == "STP/NC":
			ncFleet = true
		case o.Type == OrderBuild && o.UnitType == Fleet && o.Loc == "STP/SC":
			scFleet = true
		case o.Type == OrderWaive:
			waived = true
		}
	}
	if !army || !ncFleet || !scFleet || !waived {
		t.Errorf("StP build menu incomplete: %+v", stp)
	}

	if len(orders["MOS"]) == 0 {
		t.Error("Moscow is a free owned home center and should be buildable")
	}
	if len(orders["UKR"]) != 0 {
		t.Error("no orders owed at a plain unit loc during builds")
	}
}
