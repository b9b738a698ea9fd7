package diplomacy

import (
	"sort"
	"sync"
)

var (
	stdMapOnce sync.Once
	stdMapInst *Map
)

// StandardMap returns the standard Diplomacy map with all provinces and
// adjacencies. The map is built once and cached; subsequent calls return
// the same pointer. Callers must not mutate the returned map.
func StandardMap() *Map {
	stdMapOnce.Do(func() {
		stdMapInst = buildStandardMap()
	})
	return stdMapInst
}

func buildStandardMap() *Map {
	m := &Map{
		Provinces: make(map[Loc]*Province, 75),
		armyAdj:   make(map[Loc][]Loc, 75),
		fleetAdj:  make(map[Loc][]Loc, 90),
	}

	prov := func(loc Loc, name string, pt ProvinceType, sc bool, hp Power, coasts ...Loc) {
		m.Provinces[loc] = &Province{
			Loc:            loc,
			Name:           name,
			Type:           pt,
			IsSupplyCenter: sc,
			HomePower:      hp,
			Coasts:         coasts,
		}
	}

	// addArmy adds a bidirectional army adjacency between two root provinces.
	addArmy := func(a, b Loc) {
		m.armyAdj[a] = append(m.armyAdj[a], b)
		m.armyAdj[b] = append(m.armyAdj[b], a)
	}

	// addFleet adds a bidirectional fleet adjacency between two exact
	// locations (coasted variants where applicable).
	addFleet := func(a, b Loc) {
		m.fleetAdj[a] = append(m.fleetAdj[a], b)
		m.fleetAdj[b] = append(m.fleetAdj[b], a)
	}

	// addBoth adds a bidirectional adjacency for both armies and fleets.
	addBoth := func(a, b Loc) {
		addArmy(a, b)
		addFleet(a, b)
	}

	// =========================================================================
	// Provinces: 14 inland + 39 coastal + 3 split-coast + 19 sea = 75
	// =========================================================================

	// --- Inland provinces (14) ---
	prov("BOH", "Bohemia", Land, false, Neutral)
	prov("BUD", "Budapest", Land, true, Austria)
	prov("BUR", "Burgundy", Land, false, Neutral)
	prov("GAL", "Galicia", Land, false, Neutral)
	prov("MOS", "Moscow", Land, true, Russia)
	prov("MUN", "Munich", Land, true, Germany)
	prov("PAR", "Paris", Land, true, France)
	prov("RUH", "Ruhr", Land, false, Neutral)
	prov("SER", "Serbia", Land, true, Neutral)
	prov("SIL", "Silesia", Land, false, Neutral)
	prov("TYR", "Tyrolia", Land, false, Neutral)
	prov("UKR", "Ukraine", Land, false, Neutral)
	prov("VIE", "Vienna", Land, true, Austria)
	prov("WAR", "Warsaw", Land, true, Russia)

	// --- Coastal provinces without split coasts (39) ---
	prov("ALB", "Albania", Coastal, false, Neutral)
	prov("ANK", "Ankara", Coastal, true, Turkey)
	prov("APU", "Apulia", Coastal, false, Neutral)
	prov("ARM", "Armenia", Coastal, false, Neutral)
	prov("BEL", "Belgium", Coastal, true, Neutral)
	prov("BER", "Berlin", Coastal, true, Germany)
	prov("BRE", "Brest", Coastal, true, France)
	prov("CLY", "Clyde", Coastal, false, Neutral)
	prov("CON", "Constantinople", Coastal, true, Turkey)
	prov("DEN", "Denmark", Coastal, true, Neutral)
	prov("EDI", "Edinburgh", Coastal, true, England)
	prov("FIN", "Finland", Coastal, false, Neutral)
	prov("GAS", "Gascony", Coastal, false, Neutral)
	prov("GRE", "Greece", Coastal, true, Neutral)
	prov("HOL", "Holland", Coastal, true, Neutral)
	prov("KIE", "Kiel", Coastal, true, Germany)
	prov("LON", "London", Coastal, true, England)
	prov("LVN", "Livonia", Coastal, false, Neutral)
	prov("LVP", "Liverpool", Coastal, true, England)
	prov("MAR", "Marseilles", Coastal, true, France)
	prov("NAF", "North Africa", Coastal, false, Neutral)
	prov("NAP", "Naples", Coastal, true, Italy)
	prov("NWY", "Norway", Coastal, true, Neutral)
	prov("PIC", "Picardy", Coastal, false, Neutral)
	prov("PIE", "Piedmont", Coastal, false, Neutral)
	prov("POR", "Portugal", Coastal, true, Neutral)
	prov("PRU", "Prussia", Coastal, false, Neutral)
	prov("ROM", "Rome", Coastal, true, Italy)
	prov("RUM", "Rumania", Coastal, true, Neutral)
	prov("SEV", "Sevastopol", Coastal, true, Russia)
	prov("SMY", "Smyrna", Coastal, true, Turkey)
	prov("SWE", "Sweden", Coastal, true, Neutral)
	prov("SYR", "Syria", Coastal, false, Neutral)
	prov("TRI", "Trieste", Coastal, true, Austria)
	prov("TUN", "Tunisia", Coastal, true, Neutral)
	prov("TUS", "Tuscany", Coastal, false, Neutral)
	prov("VEN", "Venice", Coastal, true, Italy)
	prov("WAL", "Wales", Coastal, false, Neutral)
	prov("YOR", "Yorkshire", Coastal, false, Neutral)

	// --- Split-coast provinces (3) ---
	prov("BUL", "Bulgaria", Coastal, true, Neutral, "BUL/EC", "BUL/SC")
	prov("SPA", "Spain", Coastal, true, Neutral, "SPA/NC", "SPA/SC")
	prov("STP", "St. Petersburg", Coastal, true, Russia, "STP/NC", "STP/SC")

	// --- Sea provinces (19) ---
	prov("ADR", "Adriatic Sea", Sea, false, Neutral)
	prov("AEG", "Aegean Sea", Sea, false, Neutral)
	prov("BAL", "Baltic Sea", Sea, false, Neutral)
	prov("BAR", "Barents Sea", Sea, false, Neutral)
	prov("BLA", "Black Sea", Sea, false, Neutral)
	prov("BOT", "Gulf of Bothnia", Sea, false, Neutral)
	prov("EAS", "Eastern Mediterranean", Sea, false, Neutral)
	prov("ENG", "English Channel", Sea, false, Neutral)
	prov("HEL", "Heligoland Bight", Sea, false, Neutral)
	prov("ION", "Ionian Sea", Sea, false, Neutral)
	prov("IRI", "Irish Sea", Sea, false, Neutral)
	prov("LYO", "Gulf of Lyon", Sea, false, Neutral)
	prov("MAO", "Mid-Atlantic Ocean", Sea, false, Neutral)
	prov("NAO", "North Atlantic Ocean", Sea, false, Neutral)
	prov("NTH", "North Sea", Sea, false, Neutral)
	prov("NWG", "Norwegian Sea", Sea, false, Neutral)
	prov("SKA", "Skagerrak", Sea, false, Neutral)
	prov("TYS", "Tyrrhenian Sea", Sea, false, Neutral)
	prov("WES", "Western Mediterranean", Sea, false, Neutral)

	// =========================================================================
	// Adjacencies. Each pair appears exactly once.
	//
	// Categories:
	//   addFleet - sea<->sea, sea<->coastal, or coastal<->coastal with ONLY a
	//              sea border; split-coast endpoints name the exact coast
	//   addArmy  - involves an inland province, or coastal<->coastal ONLY land
	//   addBoth  - coastal<->coastal sharing both a land and a sea border
	// =========================================================================

	// ---- Sea-to-sea (fleet only) ----
	addFleet("ADR", "ION")
	addFleet("AEG", "EAS")
	addFleet("AEG", "ION")
	addFleet("BAL", "BOT")
	addFleet("ENG", "IRI")
	addFleet("ENG", "MAO")
	addFleet("ENG", "NTH")
	addFleet("HEL", "NTH")
	addFleet("ION", "EAS")
	addFleet("ION", "TYS")
	addFleet("IRI", "MAO")
	addFleet("IRI", "NAO")
	addFleet("LYO", "TYS")
	addFleet("LYO", "WES")
	addFleet("MAO", "NAO")
	addFleet("MAO", "WES")
	addFleet("NAO", "NWG")
	addFleet("NTH", "NWG")
	addFleet("NTH", "SKA")
	addFleet("NWG", "BAR")
	addFleet("TYS", "WES")

	// ---- Sea-to-coastal (fleet only) ----

	// Adriatic Sea
	addFleet("ADR", "ALB")
	addFleet("ADR", "APU")
	addFleet("ADR", "TRI")
	addFleet("ADR", "VEN")

	// Aegean Sea
	addFleet("AEG", "BUL/SC")
	addFleet("AEG", "CON")
	addFleet("AEG", "GRE")
	addFleet("AEG", "SMY")

	// Baltic Sea
	addFleet("BAL", "BER")
	addFleet("BAL", "DEN")
	addFleet("BAL", "KIE")
	addFleet("BAL", "LVN")
	addFleet("BAL", "PRU")
	addFleet("BAL", "SWE")

	// Barents Sea
	addFleet("BAR", "NWY")
	addFleet("BAR", "STP/NC")

	// Black Sea
	addFleet("BLA", "ANK")
	addFleet("BLA", "ARM")
	addFleet("BLA", "BUL/EC")
	addFleet("BLA", "CON")
	addFleet("BLA", "RUM")
	addFleet("BLA", "SEV")

	// Gulf of Bothnia
	addFleet("BOT", "FIN")
	addFleet("BOT", "LVN")
	addFleet("BOT", "STP/SC")
	addFleet("BOT", "SWE")

	// Eastern Mediterranean
	addFleet("EAS", "SMY")
	addFleet("EAS", "SYR")

	// English Channel
	addFleet("ENG", "BEL")
	addFleet("ENG", "BRE")
	addFleet("ENG", "LON")
	addFleet("ENG", "PIC")
	addFleet("ENG", "WAL")

	// Gulf of Lyon
	addFleet("LYO", "MAR")
	addFleet("LYO", "PIE")
	addFleet("LYO", "SPA/SC")
	addFleet("LYO", "TUS")

	// Heligoland Bight
	addFleet("HEL", "DEN")
	addFleet("HEL", "HOL")
	addFleet("HEL", "KIE")

	// Ionian Sea
	addFleet("ION", "ALB")
	addFleet("ION", "APU")
	addFleet("ION", "GRE")
	addFleet("ION", "NAP")
	addFleet("ION", "TUN")

	// Irish Sea
	addFleet("IRI", "LVP")
	addFleet("IRI", "WAL")

	// Mid-Atlantic Ocean
	addFleet("MAO", "BRE")
	addFleet("MAO", "GAS")
	addFleet("MAO", "NAF")
	addFleet("MAO", "POR")
	addFleet("MAO", "SPA/NC")
	addFleet("MAO", "SPA/SC")

	// North Atlantic Ocean
	addFleet("NAO", "CLY")
	addFleet("NAO", "LVP")

	// North Sea
	addFleet("NTH", "BEL")
	addFleet("NTH", "DEN")
	addFleet("NTH", "EDI")
	addFleet("NTH", "HOL")
	addFleet("NTH", "LON")
	addFleet("NTH", "NWY")
	addFleet("NTH", "YOR")

	// Norwegian Sea
	addFleet("NWG", "CLY")
	addFleet("NWG", "EDI")
	addFleet("NWG", "NWY")

	// Skagerrak
	addFleet("SKA", "DEN")
	addFleet("SKA", "NWY")
	addFleet("SKA", "SWE")

	// Tyrrhenian Sea
	addFleet("TYS", "NAP")
	addFleet("TYS", "ROM")
	addFleet("TYS", "TUN")
	addFleet("TYS", "TUS")

	// Western Mediterranean
	addFleet("WES", "NAF")
	addFleet("WES", "SPA/SC")
	addFleet("WES", "TUN")

	// ---- Inland-to-inland (army only) ----
	addArmy("BOH", "GAL")
	addArmy("BOH", "MUN")
	addArmy("BOH", "SIL")
	addArmy("BOH", "TYR")
	addArmy("BOH", "VIE")
	addArmy("BUD", "GAL")
	addArmy("BUD", "VIE")
	addArmy("BUR", "MUN")
	addArmy("BUR", "PAR")
	addArmy("BUR", "RUH")
	addArmy("GAL", "SIL")
	addArmy("GAL", "UKR")
	addArmy("GAL", "VIE")
	addArmy("GAL", "WAR")
	addArmy("MOS", "UKR")
	addArmy("MOS", "WAR")
	addArmy("MUN", "RUH")
	addArmy("MUN", "SIL")
	addArmy("MUN", "TYR")
	addArmy("SIL", "WAR")
	addArmy("TYR", "VIE")
	addArmy("UKR", "WAR")

	// ---- Inland-to-coastal (army only) ----
	addArmy("BUD", "RUM")
	addArmy("BUD", "SER")
	addArmy("BUD", "TRI")
	addArmy("BUR", "BEL")
	addArmy("BUR", "GAS")
	addArmy("BUR", "MAR")
	addArmy("BUR", "PIC")
	addArmy("GAL", "RUM")
	addArmy("GAS", "MAR")
	addArmy("MOS", "LVN")
	addArmy("MOS", "SEV")
	addArmy("MOS", "STP")
	addArmy("MUN", "BER")
	addArmy("MUN", "KIE")
	addArmy("PAR", "BRE")
	addArmy("PAR", "GAS")
	addArmy("PAR", "PIC")
	addArmy("RUH", "BEL")
	addArmy("RUH", "HOL")
	addArmy("RUH", "KIE")
	addArmy("SER", "ALB")
	addArmy("SER", "BUL")
	addArmy("SER", "GRE")
	addArmy("SER", "RUM")
	addArmy("SER", "TRI")
	addArmy("SIL", "BER")
	addArmy("SIL", "PRU")
	addArmy("TYR", "PIE")
	addArmy("TYR", "TRI")
	addArmy("TYR", "VEN")
	addArmy("UKR", "RUM")
	addArmy("UKR", "SEV")
	addArmy("VIE", "TRI")
	addArmy("WAR", "LVN")
	addArmy("WAR", "PRU")

	// ---- Coastal-to-coastal: both army and fleet ----
	addBoth("ALB", "GRE")
	addBoth("ALB", "TRI")
	addBoth("ANK", "ARM")
	addBoth("ANK", "CON")
	addBoth("APU", "NAP")
	addBoth("APU", "VEN")
	addBoth("BEL", "HOL")
	addBoth("BEL", "PIC")
	addBoth("BER", "KIE")
	addBoth("BER", "PRU")
	addBoth("BRE", "GAS")
	addBoth("BRE", "PIC")
	addBoth("CLY", "EDI")
	addBoth("CLY", "LVP")
	addBoth("CON", "SMY")
	addBoth("DEN", "KIE")
	addBoth("DEN", "SWE")
	addBoth("EDI", "YOR")
	addBoth("FIN", "SWE")
	addBoth("HOL", "KIE")
	addBoth("LON", "WAL")
	addBoth("LON", "YOR")
	addBoth("LVP", "WAL")
	addBoth("MAR", "PIE")
	addBoth("NAF", "TUN")
	addBoth("NWY", "SWE")
	addBoth("PIE", "TUS")
	addBoth("PRU", "LVN")
	addBoth("ROM", "NAP")
	addBoth("ROM", "TUS")
	addBoth("SEV", "ARM")
	addBoth("SEV", "RUM")
	addBoth("SMY", "SYR")
	addBoth("TRI", "VEN")

	// Coastal-to-coastal army-only: shared land border, different seas.
	addArmy("ANK", "SMY")
	addArmy("APU", "ROM")
	addArmy("ARM", "SMY")
	addArmy("ARM", "SYR")
	addArmy("EDI", "LVP")
	addArmy("FIN", "NWY")
	addArmy("LVP", "YOR")
	addArmy("PIE", "VEN")
	addArmy("ROM", "VEN")
	addArmy("TUS", "VEN")
	addArmy("WAL", "YOR")

	// ---- Coastal-to-split-coast: fleet only ----
	addFleet("CON", "BUL/EC")
	addFleet("CON", "BUL/SC")
	addFleet("GRE", "BUL/SC")
	addFleet("RUM", "BUL/EC")
	addFleet("GAS", "SPA/NC")
	addFleet("MAR", "SPA/SC")
	addFleet("POR", "SPA/NC")
	addFleet("POR", "SPA/SC")
	addFleet("FIN", "STP/SC")
	addFleet("LVN", "STP/SC")
	addFleet("NWY", "STP/NC")

	// ---- Coastal-to-split-coast: army only (land border, no shared sea) ----
	addArmy("CON", "BUL")
	addArmy("GRE", "BUL")
	addArmy("RUM", "BUL")
	addArmy("GAS", "SPA")
	addArmy("MAR", "SPA")
	addArmy("POR", "SPA")
	addArmy("FIN", "STP")
	addArmy("LVN", "STP")
	addArmy("NWY", "STP")

	// Sort adjacency lists into canonical index order so every
	// enumeration downstream is deterministic.
	for _, adj := range []map[Loc][]Loc{m.armyAdj, m.fleetAdj} {
		for l := range adj {
			sort.Slice(adj[l], func(i, j int) bool {
				return LocIndex(adj[l][i]) < LocIndex(adj[l][j])
			})
		}
	}

	return m
}

// InitialUnits returns the standard starting units (Spring 1901).
func InitialUnits() []Unit {
	return []Unit{
		// Austria
		{Army, Austria, "VIE"},
		{Army, Austria, "BUD"},
		{Fleet, Austria, "TRI"},
		// England
		{Fleet, England, "LON"},
		{Fleet, England, "EDI"},
		{Army, England, "LVP"},
		// France
		{Fleet, France, "BRE"},
		{Army, France, "PAR"},
		{Army, France, "MAR"},
		// Germany
		{Fleet, Germany, "KIE"},
		{Army, Germany, "BER"},
		{Army, Germany, "MUN"},
		// Italy
		{Fleet, Italy, "NAP"},
		{Army, Italy, "ROM"},
		{Army, Italy, "VEN"},
		// Russia
		{Fleet, Russia, "STP/SC"},
		{Army, Russia, "MOS"},
		{Army, Russia, "WAR"},
		{Fleet, Russia, "SEV"},
		// Turkey
		{Fleet, Turkey, "ANK"},
		{Army, Turkey, "CON"},
		{Army, Turkey, "SMY"},
	}
}

// InitialCenters returns the standard starting supply-center ownership.
func InitialCenters() map[Loc]Power {
	return map[Loc]Power{
		// Austria
		"VIE": Austria, "BUD": Austria, "TRI": Austria,
		// England
		"LON": England, "EDI": England, "LVP": England,
		// France
		"BRE": France, "PAR": France, "MAR": France,
		// Germany
		"KIE": Germany, "BER": Germany, "MUN": Germany,
		// Italy
		"NAP": Italy, "ROM": Italy, "VEN": Italy,
		// Russia
		"STP": Russia, "MOS": Russia, "WAR": Russia, "SEV": Russia,
		// Turkey
		"ANK": Turkey, "CON": Turkey, "SMY": Turkey,
		// Neutral supply centers
		"NWY": Neutral, "SWE": Neutral, "DEN": Neutral,
		"HOL": Neutral, "BEL": Neutral, "SPA": Neutral,
		"POR": Neutral, "TUN": Neutral, "GRE": Neutral,
		"SER": Neutral, "BUL": Neutral, "RUM": Neutral,
	}
}
