package diplomacy

import "testing"

func TestDisorderDistanceAnchors(t *testing.T) {
	cases := []struct {
		unit Unit
		want int
	}{
		{Unit{Army, England, "LON"}, 0},
		{Unit{Fleet, England, "LON"}, 0},
		{Unit{Fleet, England, "NTH"}, 1},
		{Unit{Army, England, "YOR"}, 1},
		{Unit{Army, France, "PAR"}, 0},
		{Unit{Army, France, "BUR"}, 1},
		{Unit{Fleet, Russia, "STP/NC"}, 0},
		{Unit{Fleet, Russia, "STP/SC"}, 0},
	}
	for _, c := range cases {
		if got := DisorderDistance(c.unit); got != c.want {
			t.Errorf("%s %s: distance %d, want %d", c.unit.Power, c.unit, got, c.want)
		}
	}
}

func TestDisorderDistanceIneligible(t *testing.T) {
	// Fleets can never stand inland, armies never on a coasted variant;
	// both read as -1.
	if got := DisorderDistance(Unit{Fleet, France, "PAR"}); got != -1 {
		t.Errorf("fleet at inland province: %d, want -1", got)
	}
	if got := DisorderDistance(Unit{Fleet, Germany, "MOS"}); got != -1 {
		t.Errorf("fleet at Moscow: %d, want -1", got)
	}
	if got := DisorderDistance(Unit{Army, Russia, "STP/NC"}); got != -1 {
		t.Errorf("army at a coasted variant: %d, want -1", got)
	}
}

func TestDisorderDistanceCoversAllFleetLocs(t *testing.T) {
	m := StandardMap()
	for _, p := range AllPowers() {
		for _, l := range AllLocs() {
			if !m.CanOccupy(Fleet, l) {
				continue
			}
			if d := DisorderDistance(Unit{Fleet, p, l}); d < 0 {
				t.Errorf("%s fleet at %s: unreachable (%d)", p, l, d)
			}
		}
	}
}

func TestDisorderDistanceCoversAllArmyLocs(t *testing.T) {
	m := StandardMap()
	for _, p := range AllPowers() {
		for _, l := range AllLocs() {
			if !m.CanOccupy(Army, l) {
				continue
			}
			if d := DisorderDistance(Unit{Army, p, l}); d < 0 {
				t.Errorf("%s army at %s: unreachable (%d)", p, l, d)
			}
		}
	}
}
