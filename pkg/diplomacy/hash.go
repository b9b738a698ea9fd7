package diplomacy

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// BoardHash computes a stable 64-bit digest of a state: the phase, every
// unit, and every supply-center owner. Units and centers are folded in
// canonical index order, so the hash is independent of insertion order.
func BoardHash(s *State) uint64 {
	d := xxhash.New()

	d.WriteString(s.Phase.String())
	d.Write([]byte{0})

	units := make([]Unit, len(s.Units))
	copy(units, s.Units)
	sort.Slice(units, func(i, j int) bool {
		return LocIndex(units[i].Loc) < LocIndex(units[j].Loc)
	})
	for _, u := range units {
		d.Write([]byte{byte(LocIndex(u.Loc)), byte(u.Type), byte(PowerIndex(u.Power) + 1)})
	}
	d.Write([]byte{0xff})

	centers := make([]Loc, 0, len(s.Centers))
	for sc := range s.Centers {
		centers = append(centers, sc)
	}
	sort.Slice(centers, func(i, j int) bool {
		return LocIndex(centers[i]) < LocIndex(centers[j])
	})
	for _, sc := range centers {
		d.Write([]byte{byte(LocIndex(sc)), byte(PowerIndex(s.Centers[sc]) + 1)})
	}

	return d.Sum64()
}
