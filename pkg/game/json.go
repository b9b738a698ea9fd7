package game

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/entente-games/entente/pkg/diplomacy"
)

// Snapshot wire format. Phase-keyed maps use the short phase form
// ("S1901M"); the top-level phase is the long form. Map keys are sorted
// by the encoder, so two equal games marshal to identical bytes.

type gameJSON struct {
	ID           string                           `json:"id"`
	Map          string                           `json:"map"`
	Rules        []string                         `json:"rules"`
	Phase        string                           `json:"phase"`
	State        stateJSON                        `json:"state"`
	StateHistory map[string]stateJSON             `json:"state_history"`
	OrderHistory map[string]map[string][]string   `json:"order_history"`
	Messages     map[string]map[string]msgJSON    `json:"messages"`
	Logs         map[string][]string              `json:"logs"`
}

type stateJSON struct {
	Name          string                         `json:"name"`
	Units         map[string][]string            `json:"units"`
	Retreats      map[string]map[string][]string `json:"retreats"`
	Centers       map[string][]string            `json:"centers"`
	Homes         map[string][]string            `json:"homes"`
	Influence     map[string][]string            `json:"influence"`
	CivilDisorder map[string]int                 `json:"civil_disorder"`
	Builds        map[string]buildsJSON          `json:"builds"`
	Contested     []string                       `json:"contested"`
}

type buildsJSON struct {
	Count int      `json:"count"`
	Homes []string `json:"homes"`
}

type msgJSON struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	TimeSent  uint64 `json:"time_sent"`
}

// ToJSON serializes the complete game record.
func (g *Game) ToJSON() (string, error) {
	out := gameJSON{
		ID:           g.ID,
		Map:          g.MapName(),
		Rules:        g.rules,
		Phase:        g.state.Phase.Long(),
		State:        encodeState(g.state, g.board),
		StateHistory: make(map[string]stateJSON, len(g.stateHistory)),
		OrderHistory: make(map[string]map[string][]string, len(g.orderHistory)),
		Messages:     make(map[string]map[string]msgJSON, len(g.messages)),
		Logs:         make(map[string][]string, len(g.logs)),
	}

	for phase, st := range g.stateHistory {
		out.StateHistory[phase.String()] = encodeState(st, g.board)
	}
	for phase, byPower := range g.orderHistory {
		enc := make(map[string][]string, len(byPower))
		for p, orders := range byPower {
			lines := make([]string, len(orders))
			for i, o := range orders {
				lines[i] = orderText(o)
			}
			enc[string(p)] = lines
		}
		out.OrderHistory[phase.String()] = enc
	}
	for phase, byTime := range g.messages {
		enc := make(map[string]msgJSON, len(byTime))
		for ts, msg := range byTime {
			enc[strconv.FormatUint(ts, 10)] = msgJSON{
				Sender:    string(msg.Sender),
				Recipient: string(msg.Recipient),
				Body:      msg.Body,
				TimeSent:  msg.TimeSent,
			}
		}
		out.Messages[phase.String()] = enc
	}
	for phase, lines := range g.logs {
		out.Logs[phase.String()] = append([]string(nil), lines...)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func orderText(o diplomacy.Order) string {
	if o.Raw != "" {
		return o.Raw
	}
	return o.String()
}

// FromJSON reconstructs a game from its serialized record. Structural
// inconsistencies yield a CorruptSnapshotError.
func FromJSON(s string) (*Game, error) {
	var in gameJSON
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, &diplomacy.CorruptSnapshotError{Reason: err.Error()}
	}
	if in.Map != "" && in.Map != "standard" {
		return nil, &diplomacy.CorruptSnapshotError{Reason: "unsupported map " + in.Map}
	}

	g := New()
	if in.ID != "" {
		g.ID = in.ID
	}
	if in.Rules != nil {
		g.rules = in.Rules
	}

	phase, err := diplomacy.ParsePhase(in.Phase)
	if err != nil {
		return nil, &diplomacy.CorruptSnapshotError{Reason: "bad phase " + in.Phase}
	}
	if g.state, err = decodeState(in.State, phase); err != nil {
		return nil, err
	}

	prevKey := -1
	for _, key := range sortedPhaseKeys(in.StateHistory) {
		p, perr := diplomacy.ParsePhase(key)
		if perr != nil {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad history phase " + key}
		}
		if p.SortKey() <= prevKey {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "phase sequence not increasing at " + key}
		}
		prevKey = p.SortKey()
		st, serr := decodeState(in.StateHistory[key], p)
		if serr != nil {
			return nil, serr
		}
		g.stateHistory[p] = st
	}
	if prevKey >= phase.SortKey() {
		return nil, &diplomacy.CorruptSnapshotError{Reason: "current phase precedes history"}
	}

	for key, byPower := range in.OrderHistory {
		p, perr := diplomacy.ParsePhase(key)
		if perr != nil {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad order phase " + key}
		}
		dec := make(map[diplomacy.Power][]diplomacy.Order, len(byPower))
		for powerName, lines := range byPower {
			power, ok := diplomacy.PowerFromString(powerName)
			if !ok {
				return nil, &diplomacy.CorruptSnapshotError{Reason: "bad power " + powerName}
			}
			dec[power] = diplomacy.ParseOrders(power, lines)
		}
		g.orderHistory[p] = dec
	}

	for key, byTime := range in.Messages {
		p, perr := diplomacy.ParsePhase(key)
		if perr != nil {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad message phase " + key}
		}
		dec := make(map[uint64]Message, len(byTime))
		for tsKey, msg := range byTime {
			ts, terr := strconv.ParseUint(tsKey, 10, 64)
			if terr != nil {
				return nil, &diplomacy.CorruptSnapshotError{Reason: "bad message timestamp " + tsKey}
			}
			sender, ok := diplomacy.PowerFromString(msg.Sender)
			if !ok {
				return nil, &diplomacy.CorruptSnapshotError{Reason: "bad message sender " + msg.Sender}
			}
			recipient, ok := diplomacy.PowerFromString(msg.Recipient)
			if !ok {
				return nil, &diplomacy.CorruptSnapshotError{Reason: "bad message recipient " + msg.Recipient}
			}
			dec[ts] = Message{Sender: sender, Recipient: recipient, Body: msg.Body, TimeSent: ts}
		}
		g.messages[p] = dec
	}

	for key, lines := range in.Logs {
		p, perr := diplomacy.ParsePhase(key)
		if perr != nil {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad log phase " + key}
		}
		g.logs[p] = lines
	}

	return g, nil
}

func sortedPhaseKeys(m map[string]stateJSON) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := diplomacy.ParsePhase(keys[i])
		b, _ := diplomacy.ParsePhase(keys[j])
		return a.Before(b)
	})
	return keys
}

func encodeState(s *diplomacy.State, m *diplomacy.Map) stateJSON {
	out := stateJSON{
		Name:          s.Phase.String(),
		Units:         make(map[string][]string, 7),
		Retreats:      make(map[string]map[string][]string, 7),
		Centers:       make(map[string][]string, 7),
		Homes:         make(map[string][]string, 7),
		Influence:     make(map[string][]string, 7),
		CivilDisorder: make(map[string]int, 7),
		Builds:        make(map[string]buildsJSON, 7),
		Contested:     []string{},
	}

	for _, p := range diplomacy.AllPowers() {
		key := string(p)
		out.Units[key] = []string{}
		out.Retreats[key] = map[string][]string{}
		out.Centers[key] = []string{}
		out.Homes[key] = []string{}
		out.Influence[key] = []string{}
		out.CivilDisorder[key] = 0
		if s.CivilDisorder[p] {
			out.CivilDisorder[key] = 1
		}

		for _, u := range s.UnitsOf(p) {
			out.Units[key] = append(out.Units[key], u.String())
		}
		for _, d := range s.Dislodged {
			if d.Unit.Power != p {
				continue
			}
			dests := make([]string, len(d.Dests))
			for i, l := range d.Dests {
				dests[i] = string(l)
			}
			out.Retreats[key][d.Unit.String()] = dests
		}
		for _, sc := range m.SupplyCenters() {
			if s.Centers[sc] == p {
				out.Centers[key] = append(out.Centers[key], string(sc))
			}
		}

		var freeHomes []string
		owned := 0
		for _, h := range m.HomeCenters(p) {
			if s.Centers[h] != p {
				continue
			}
			owned++
			out.Homes[key] = append(out.Homes[key], string(h))
			if s.UnitAt(h) == nil {
				freeHomes = append(freeHomes, string(h))
			}
		}

		for _, l := range diplomacy.AllLocs() {
			if !l.IsCoastedVariant() && s.Influence[l] == p {
				out.Influence[key] = append(out.Influence[key], string(l))
			}
		}

		builds := buildsJSON{Homes: []string{}}
		if s.Phase.Kind == diplomacy.Adjustment {
			builds.Count = s.BuildDelta(p)
			if builds.Count > 0 {
				builds.Homes = freeHomes
				if builds.Count > len(freeHomes) {
					builds.Count = len(freeHomes)
				}
			}
		}
		out.Builds[key] = builds
	}

	for _, l := range diplomacy.AllLocs() {
		if s.Contested[l] {
			out.Contested = append(out.Contested, string(l))
		}
	}
	return out
}

func decodeState(in stateJSON, phase diplomacy.Phase) (*diplomacy.State, error) {
	s := &diplomacy.State{
		Phase:         phase,
		Centers:       make(map[diplomacy.Loc]diplomacy.Power),
		Influence:     make(map[diplomacy.Loc]diplomacy.Power),
		Contested:     make(map[diplomacy.Loc]bool),
		CivilDisorder: make(map[diplomacy.Power]bool),
	}
	for _, sc := range diplomacy.StandardMap().SupplyCenters() {
		s.Centers[sc] = diplomacy.Neutral
	}

	occupied := make(map[diplomacy.Loc]bool)
	for powerName, units := range in.Units {
		power, ok := diplomacy.PowerFromString(powerName)
		if !ok {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad power " + powerName}
		}
		for _, us := range units {
			u, err := parseUnit(power, us)
			if err != nil {
				return nil, err
			}
			if occupied[u.Loc.Root()] {
				return nil, &diplomacy.CorruptSnapshotError{Reason: "two units at " + string(u.Loc.Root())}
			}
			occupied[u.Loc.Root()] = true
			s.Units = append(s.Units, u)
		}
	}

	for powerName, retreats := range in.Retreats {
		power, ok := diplomacy.PowerFromString(powerName)
		if !ok {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad power " + powerName}
		}
		for us, dests := range retreats {
			u, err := parseUnit(power, us)
			if err != nil {
				return nil, err
			}
			d := diplomacy.DislodgedUnit{Unit: u}
			for _, ds := range dests {
				l := diplomacy.LocFromString(ds)
				if l == "" {
					return nil, &diplomacy.CorruptSnapshotError{Reason: "bad retreat destination " + ds}
				}
				d.Dests = append(d.Dests, l)
			}
			s.Dislodged = append(s.Dislodged, d)
		}
	}

	for powerName, centers := range in.Centers {
		power, ok := diplomacy.PowerFromString(powerName)
		if !ok {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad power " + powerName}
		}
		for _, cs := range centers {
			l := diplomacy.LocFromString(cs)
			if l == "" {
				return nil, &diplomacy.CorruptSnapshotError{Reason: "bad center " + cs}
			}
			if _, isSC := s.Centers[l]; !isSC {
				return nil, &diplomacy.CorruptSnapshotError{Reason: cs + " is not a supply center"}
			}
			if s.Centers[l] != diplomacy.Neutral {
				return nil, &diplomacy.CorruptSnapshotError{Reason: "center " + cs + " owned twice"}
			}
			s.Centers[l] = power
		}
	}

	for powerName, locs := range in.Influence {
		power, ok := diplomacy.PowerFromString(powerName)
		if !ok {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad power " + powerName}
		}
		for _, ls := range locs {
			l := diplomacy.LocFromString(ls)
			if l == "" {
				return nil, &diplomacy.CorruptSnapshotError{Reason: "bad influence loc " + ls}
			}
			s.Influence[l] = power
		}
	}

	for powerName, flag := range in.CivilDisorder {
		power, ok := diplomacy.PowerFromString(powerName)
		if !ok {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad power " + powerName}
		}
		if flag != 0 {
			s.CivilDisorder[power] = true
		}
	}

	for _, ls := range in.Contested {
		l := diplomacy.LocFromString(ls)
		if l == "" {
			return nil, &diplomacy.CorruptSnapshotError{Reason: "bad contested loc " + ls}
		}
		s.Contested[l] = true
	}

	s.Normalize()
	return s, nil
}

func parseUnit(power diplomacy.Power, s string) (diplomacy.Unit, error) {
	o, err := diplomacy.ParseOrder(power, s+" H")
	if err != nil || o.Type != diplomacy.OrderHold {
		return diplomacy.Unit{}, &diplomacy.CorruptSnapshotError{Reason: "bad unit " + s}
	}
	m := diplomacy.StandardMap()
	u := diplomacy.Unit{Type: o.UnitType, Power: power, Loc: o.Loc}
	if !m.CanOccupy(u.Type, u.Loc) {
		return diplomacy.Unit{}, &diplomacy.CorruptSnapshotError{Reason: "illegal placement " + s}
	}
	return u, nil
}
