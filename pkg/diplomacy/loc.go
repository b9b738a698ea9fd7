package diplomacy

import "strings"

// Loc identifies a location on the standard map. Most locations are plain
// provinces ("PAR", "NTH"); the three split-coast provinces additionally
// have coasted variants ("BUL/EC", "SPA/NC", "STP/SC"). Fleets occupy the
// coasted variant when a province has multiple coasts; armies always occupy
// the parent province.
type Loc string

// NumLocs is the number of distinct locations: 75 provinces plus 6 coasted
// variants of the three split-coast provinces.
const NumLocs = 81

// allLocs lists every location in canonical alphabetic order. The slice
// position is the location's canonical index, which is externally visible:
// scoring vectors, civil-disorder tables, and the board hash all use it.
var allLocs = [NumLocs]Loc{
	"ADR", "AEG", "ALB", "ANK", "APU", "ARM", "BAL", "BAR", "BEL", "BER",
	"BLA", "BOH", "BOT", "BRE", "BUD", "BUL", "BUL/EC", "BUL/SC", "BUR", "CLY",
	"CON", "DEN", "EAS", "EDI", "ENG", "FIN", "GAL", "GAS", "GRE", "HEL",
	"HOL", "ION", "IRI", "KIE", "LON", "LVN", "LVP", "LYO", "MAO", "MAR",
	"MOS", "MUN", "NAF", "NAO", "NAP", "NTH", "NWG", "NWY", "PAR", "PIC",
	"PIE", "POR", "PRU", "ROM", "RUH", "RUM", "SER", "SEV", "SIL", "SKA",
	"SMY", "SPA", "SPA/NC", "SPA/SC", "STP", "STP/NC", "STP/SC", "SWE", "SYR", "TRI",
	"TUN", "TUS", "TYR", "TYS", "UKR", "VEN", "VIE", "WAL", "WAR", "WES",
	"YOR",
}

var locIndex = func() map[Loc]int {
	m := make(map[Loc]int, NumLocs)
	for i, l := range allLocs {
		m[l] = i
	}
	return m
}()

// AllLocs returns every location in canonical alphabetic order.
// Callers must not mutate the returned slice.
func AllLocs() []Loc {
	return allLocs[:]
}

// LocIndex returns the canonical alphabetic index (0..80) of a location,
// or -1 if the location is unknown.
func LocIndex(l Loc) int {
	idx, ok := locIndex[l]
	if !ok {
		return -1
	}
	return idx
}

// LocFromIndex returns the location at the given canonical index.
func LocFromIndex(idx int) Loc {
	return allLocs[idx]
}

// LocFromString normalizes a location token ("par", "Stp/Sc") to its
// canonical Loc form. Returns "" if the token names no known location.
func LocFromString(s string) Loc {
	l := Loc(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := locIndex[l]; !ok {
		return ""
	}
	return l
}

// Root returns the parent province of a coasted variant, or the location
// itself for plain provinces.
func (l Loc) Root() Loc {
	if i := strings.IndexByte(string(l), '/'); i >= 0 {
		return l[:i]
	}
	return l
}

// Coast returns the coast suffix of a coasted variant ("EC", "NC", "SC"),
// or "" for plain provinces.
func (l Loc) Coast() string {
	if i := strings.IndexByte(string(l), '/'); i >= 0 {
		return string(l[i+1:])
	}
	return ""
}

// IsCoastedVariant reports whether l is a coasted variant of a
// split-coast province.
func (l Loc) IsCoastedVariant() bool {
	return strings.IndexByte(string(l), '/') >= 0
}
