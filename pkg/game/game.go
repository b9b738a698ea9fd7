// Package game holds the top-level Diplomacy game aggregate: staged
// orders, the phase-processing loop, replayable histories of states,
// orders, messages and logs, rollback, and the snapshot codec.
//
// A Game is purely computational and single-threaded; concurrent
// readers need external synchronization. Given the same starting state
// and the same submitted orders, Process always produces a bit-identical
// successor state and board hash.
package game

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/entente-games/entente/pkg/diplomacy"
)

// Game aggregates the current board state with its full history.
type Game struct {
	ID string

	state  *diplomacy.State
	board  *diplomacy.Map
	staged map[diplomacy.Power][]diplomacy.Order

	stateHistory map[diplomacy.Phase]*diplomacy.State
	orderHistory map[diplomacy.Phase]map[diplomacy.Power][]diplomacy.Order
	messages     map[diplomacy.Phase]map[uint64]Message
	logs         map[diplomacy.Phase][]string

	rules                    []string
	drawOnStalemateYears     int
	exceptionOnConvoyParadox bool

	clock     Clock
	crashDump func(json string)
	log       zerolog.Logger

	possible  map[diplomacy.Loc][]diplomacy.Order
	orderable map[diplomacy.Power][]diplomacy.Loc
}

// New creates a game at the standard Spring 1901 starting position.
func New() *Game {
	return &Game{
		ID:                   uuid.NewString(),
		state:                diplomacy.NewInitialState(),
		board:                diplomacy.StandardMap(),
		staged:               make(map[diplomacy.Power][]diplomacy.Order),
		stateHistory:         make(map[diplomacy.Phase]*diplomacy.State),
		orderHistory:         make(map[diplomacy.Phase]map[diplomacy.Power][]diplomacy.Order),
		messages:             make(map[diplomacy.Phase]map[uint64]Message),
		logs:                 make(map[diplomacy.Phase][]string),
		rules:                []string{"NO_PRESS", "POWER_CHOICE"},
		drawOnStalemateYears: -1,
		clock:                systemClock,
		log:                  zerolog.Nop(),
	}
}

// SetDrawOnStalemateYears configures the stalemate draw: the game is a
// draw once supply-center ownership has not changed for that many
// consecutive years. Zero or a negative value disables the check.
func (g *Game) SetDrawOnStalemateYears(years int) { g.drawOnStalemateYears = years }

// SetExceptionOnConvoyParadox makes Process fail with a ParadoxError
// instead of applying the Szykman fallback.
func (g *Game) SetExceptionOnConvoyParadox() { g.exceptionOnConvoyParadox = true }

// SetClock injects the timestamp source for messages.
func (g *Game) SetClock(c Clock) { g.clock = c }

// SetCrashDumpFunc installs a hook that receives the serialized game
// before any fatal Process error is returned.
func (g *Game) SetCrashDumpFunc(f func(json string)) { g.crashDump = f }

// SetLogger routes engine diagnostics to the given zerolog logger.
func (g *Game) SetLogger(l zerolog.Logger) { g.log = l }

// GetState returns the current (not yet archived) state.
func (g *Game) GetState() *diplomacy.State { return g.state }

// Phase returns the current phase.
func (g *Game) Phase() diplomacy.Phase { return g.state.Phase }

// MapName identifies the board; only the standard map is supported.
func (g *Game) MapName() string { return "standard" }

// Rules returns the inert rules metadata carried by the game record.
func (g *Game) Rules() []string { return g.rules }

// SetOrders replaces the staged orders of a power for the current
// phase. Orders that fail to parse are retained, flagged invalid, and
// will adjudicate as holds; only an unknown power aborts the call.
func (g *Game) SetOrders(power string, orders []string) error {
	p, ok := diplomacy.PowerFromString(power)
	if !ok {
		return &diplomacy.LookupError{Kind: "power", Value: power}
	}
	if g.IsGameDone() {
		return &diplomacy.IllegalStateError{Reason: "game is done"}
	}
	g.staged[p] = diplomacy.ParseOrders(p, orders)
	return nil
}

// StagedOrders returns the currently staged orders per power.
func (g *Game) StagedOrders() map[diplomacy.Power][]diplomacy.Order {
	out := make(map[diplomacy.Power][]diplomacy.Order, len(g.staged))
	for p, os := range g.staged {
		out[p] = append([]diplomacy.Order(nil), os...)
	}
	return out
}

// AddLog appends a free-form log line under the current phase.
func (g *Game) AddLog(body string) {
	phase := g.state.Phase
	g.logs[phase] = append(g.logs[phase], body)
}

func (g *Game) addLogf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	g.log.Debug().Str("game_id", g.ID).Str("phase", g.state.Phase.String()).Msg(line)
	g.AddLog(line)
}

// Process archives the current state and orders under the current
// phase, runs the phase-appropriate solver, installs the successor
// state, advances the phase (eliding empty retreat and adjustment
// phases), and clears staged orders. On error the game is unchanged
// apart from the crash-dump hook firing.
func (g *Game) Process() error {
	if g.IsGameDone() {
		return g.fatal(&diplomacy.IllegalStateError{Reason: "process called on a finished game"})
	}

	phase := g.state.Phase
	var successor *diplomacy.State
	var submitted map[diplomacy.Power][]diplomacy.Order
	var err error

	switch phase.Kind {
	case diplomacy.Movement:
		successor, submitted, err = g.processMovement()
	case diplomacy.Retreat:
		successor, submitted = g.processRetreat()
	case diplomacy.Adjustment:
		successor, submitted = g.processAdjustment()
	}
	if err != nil {
		return g.fatal(err)
	}

	g.stateHistory[phase] = g.state
	g.orderHistory[phase] = submitted
	g.state = successor
	g.staged = make(map[diplomacy.Power][]diplomacy.Order)
	g.ClearOldAllPossibleOrders()

	g.log.Info().Str("game_id", g.ID).
		Str("from", phase.String()).Str("to", successor.Phase.String()).
		Msg("phase processed")
	return nil
}

func (g *Game) fatal(err error) error {
	if g.crashDump != nil {
		if dump, dumpErr := g.ToJSON(); dumpErr == nil {
			g.crashDump(dump)
		}
	}
	g.log.Error().Str("game_id", g.ID).Err(err).Msg("process failed")
	return err
}

func (g *Game) processMovement() (*diplomacy.State, map[diplomacy.Power][]diplomacy.Order, error) {
	var all []diplomacy.Order
	for _, p := range diplomacy.AllPowers() {
		all = append(all, g.staged[p]...)
	}

	effective, settled := diplomacy.ValidateAndDefaultMovement(all, g.state, g.board)
	res, err := diplomacy.ResolveMovement(effective, g.state, g.board, g.exceptionOnConvoyParadox)
	if err != nil {
		return nil, nil, err
	}

	successor := g.state.Clone()
	diplomacy.ApplyMovement(successor, res, g.board)

	for _, ro := range res.Resolved {
		if ro.Status != diplomacy.StatusSucceeded {
			g.addLogf("%s: %s", ro.Order.String(), ro.Status)
		}
	}

	hasDislodgements := len(res.Dislodged) > 0
	if g.state.Phase.Season == diplomacy.Fall && !hasDislodgements {
		successor.UpdateCenters()
	}
	successor.Phase = diplomacy.NextPhase(g.state.Phase, hasDislodgements, successor.NeedsAdjustment())
	if successor.Phase.Kind != diplomacy.Retreat {
		successor.Contested = make(map[diplomacy.Loc]bool)
		successor.Dislodged = nil
	}

	return successor, groupByPower(settled), nil
}

func (g *Game) processRetreat() (*diplomacy.State, map[diplomacy.Power][]diplomacy.Order) {
	var all []diplomacy.Order
	for _, p := range diplomacy.AllPowers() {
		all = append(all, g.staged[p]...)
	}

	results := diplomacy.ResolveRetreats(all, g.state, g.board)
	successor := g.state.Clone()
	diplomacy.ApplyRetreats(successor, results)

	for _, ro := range results {
		if ro.Status != diplomacy.StatusSucceeded {
			g.addLogf("%s: %s", ro.Order.String(), ro.Status)
		}
	}

	if g.state.Phase.Season == diplomacy.Fall {
		successor.UpdateCenters()
	}
	successor.Phase = diplomacy.NextPhase(g.state.Phase, false, successor.NeedsAdjustment())

	return successor, groupByPower(settleFlags(all, g.state, g.board))
}

func (g *Game) processAdjustment() (*diplomacy.State, map[diplomacy.Power][]diplomacy.Order) {
	byPower := make(map[diplomacy.Power][]diplomacy.Order, len(g.staged))
	var all []diplomacy.Order
	for _, p := range diplomacy.AllPowers() {
		byPower[p] = g.staged[p]
		all = append(all, g.staged[p]...)
	}

	res := diplomacy.ResolveAdjustments(byPower, g.state, g.board)
	successor := g.state.Clone()
	diplomacy.ApplyAdjustments(successor, res)

	for _, p := range diplomacy.AllPowers() {
		if res.CivilDisorder[p] {
			g.addLogf("%s under-submitted disbands: civil disorder", p)
		}
	}

	successor.Phase = diplomacy.NextPhase(g.state.Phase, false, false)
	return successor, groupByPower(settleFlags(all, g.state, g.board))
}

// settleFlags re-validates submitted orders against the pre-transition
// state so the archived history records which were accepted.
func settleFlags(orders []diplomacy.Order, s *diplomacy.State, m *diplomacy.Map) []diplomacy.Order {
	out := make([]diplomacy.Order, len(orders))
	for i, o := range orders {
		if !o.Valid {
			out[i] = o
			continue
		}
		vo, err := diplomacy.ValidateOrder(o, s, m)
		vo.Valid = err == nil
		out[i] = vo
	}
	return out
}

func groupByPower(orders []diplomacy.Order) map[diplomacy.Power][]diplomacy.Order {
	out := make(map[diplomacy.Power][]diplomacy.Order)
	for _, o := range orders {
		out[o.Power] = append(out[o.Power], o)
	}
	return out
}

// IsGameDone reports whether the game has ended: a solo winner holds 18
// centers, only one power still owns centers, or supply-center
// ownership has stagnated past the configured stalemate horizon.
func (g *Game) IsGameDone() bool {
	if diplomacy.SoloWinner(g.state) != diplomacy.Neutral {
		return true
	}

	owning := 0
	for _, p := range diplomacy.AllPowers() {
		if g.state.CenterCount(p) > 0 {
			owning++
		}
	}
	if owning <= 1 {
		return true
	}

	if g.drawOnStalemateYears > 0 && g.stalemateYears() >= g.drawOnStalemateYears {
		return true
	}
	return false
}

// stalemateYears counts the trailing run of year boundaries with
// unchanged supply-center ownership, derived from the spring states in
// history so that rollback needs no extra bookkeeping.
func (g *Game) stalemateYears() int {
	var springs []*diplomacy.State
	for _, p := range g.sortedPhases() {
		if p.Season == diplomacy.Spring && p.Kind == diplomacy.Movement {
			springs = append(springs, g.stateHistory[p])
		}
	}
	if g.state.Phase.Season == diplomacy.Spring && g.state.Phase.Kind == diplomacy.Movement {
		if _, archived := g.stateHistory[g.state.Phase]; !archived {
			springs = append(springs, g.state)
		}
	}

	years := 0
	for i := len(springs) - 1; i > 0; i-- {
		if !sameCenters(springs[i-1], springs[i]) {
			break
		}
		years++
	}
	return years
}

func sameCenters(a, b *diplomacy.State) bool {
	if len(a.Centers) != len(b.Centers) {
		return false
	}
	for sc, owner := range a.Centers {
		if b.Centers[sc] != owner {
			return false
		}
	}
	return true
}

// GetSquareScores returns the length-7 score vector in power enum order.
func (g *Game) GetSquareScores() []float64 {
	return diplomacy.SquareScores(g.state)
}

// ComputeBoardHash returns the 64-bit digest of the current state.
func (g *Game) ComputeBoardHash() uint64 {
	return diplomacy.BoardHash(g.state)
}

// GetOrderableLocations returns, per power, the locations owing an
// order this phase. Memoized until the next Process.
func (g *Game) GetOrderableLocations() map[diplomacy.Power][]diplomacy.Loc {
	if g.orderable == nil {
		g.orderable = diplomacy.OrderableLocations(g.state, g.board)
	}
	return g.orderable
}

// GetAllPossibleOrders returns every legal order per orderable location
// in the current phase. Memoized until the next Process or an explicit
// ClearOldAllPossibleOrders.
func (g *Game) GetAllPossibleOrders() map[diplomacy.Loc][]diplomacy.Order {
	if g.possible == nil {
		g.possible = diplomacy.PossibleOrders(g.state, g.board)
	}
	return g.possible
}

// ClearOldAllPossibleOrders drops the memoized order enumerations.
func (g *Game) ClearOldAllPossibleOrders() {
	g.possible = nil
	g.orderable = nil
}

// GetStateHistory returns the archived states keyed by phase.
func (g *Game) GetStateHistory() map[diplomacy.Phase]*diplomacy.State { return g.stateHistory }

// GetOrderHistory returns the archived orders keyed by phase and power.
func (g *Game) GetOrderHistory() map[diplomacy.Phase]map[diplomacy.Power][]diplomacy.Order {
	return g.orderHistory
}

// GetMessageHistory returns all messages keyed by phase and timestamp.
func (g *Game) GetMessageHistory() map[diplomacy.Phase]map[uint64]Message { return g.messages }

// GetLogs returns all log lines keyed by phase.
func (g *Game) GetLogs() map[diplomacy.Phase][]string { return g.logs }

// GetLastMovementPhase returns the most recent archived movement-phase
// state, or nil when none has been processed yet.
func (g *Game) GetLastMovementPhase() *diplomacy.State {
	phases := g.sortedPhases()
	for i := len(phases) - 1; i >= 0; i-- {
		if phases[i].Kind == diplomacy.Movement {
			return g.stateHistory[phases[i]]
		}
	}
	return nil
}

// NextPhaseOf returns the phase that followed the given one in this
// game's actual timeline, or false when it is the latest.
func (g *Game) NextPhaseOf(phase string) (diplomacy.Phase, bool, error) {
	p, err := diplomacy.ParsePhase(phase)
	if err != nil {
		return diplomacy.Phase{}, false, err
	}
	timeline := append(g.sortedPhases(), g.state.Phase)
	for i, q := range timeline {
		if q == p && i+1 < len(timeline) {
			return timeline[i+1], true, nil
		}
	}
	return diplomacy.Phase{}, false, nil
}

// PrevPhaseOf returns the phase that preceded the given one in this
// game's actual timeline, or false when it is the earliest.
func (g *Game) PrevPhaseOf(phase string) (diplomacy.Phase, bool, error) {
	p, err := diplomacy.ParsePhase(phase)
	if err != nil {
		return diplomacy.Phase{}, false, err
	}
	timeline := append(g.sortedPhases(), g.state.Phase)
	for i, q := range timeline {
		if q == p && i > 0 {
			return timeline[i-1], true, nil
		}
	}
	return diplomacy.Phase{}, false, nil
}

func (g *Game) sortedPhases() []diplomacy.Phase {
	phases := make([]diplomacy.Phase, 0, len(g.stateHistory))
	for p := range g.stateHistory {
		phases = append(phases, p)
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i].Before(phases[j]) })
	return phases
}

// RolledBackToPhaseStart returns a copy of the game rewound to the
// moment the given phase began: its staged orders are empty and its
// state is as-entered. Messages and logs recorded during that phase are
// preserved; its archived orders and resolution are dropped.
func (g *Game) RolledBackToPhaseStart(phase string) (*Game, error) {
	p, err := diplomacy.ParsePhase(phase)
	if err != nil {
		return nil, err
	}
	return g.rollbackTo(p, true)
}

// RolledBackToPhaseEnd returns a copy of the game rewound to just after
// the given phase resolved: its archived state, orders, messages and
// logs are preserved, and the successor phase starts fresh.
func (g *Game) RolledBackToPhaseEnd(phase string) (*Game, error) {
	p, err := diplomacy.ParsePhase(phase)
	if err != nil {
		return nil, err
	}
	if _, ok := g.stateHistory[p]; !ok {
		return nil, &diplomacy.IllegalStateError{Reason: "phase " + p.String() + " not in history"}
	}

	next, found, err := g.NextPhaseOf(p.String())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &diplomacy.IllegalStateError{Reason: "phase " + p.String() + " has no successor"}
	}
	rolled, err := g.rollbackTo(next, false)
	if err != nil {
		return nil, err
	}
	return rolled, nil
}

// rollbackTo rewinds to the start of phase p. preserveTargetPress keeps
// the messages and logs recorded during p itself.
func (g *Game) rollbackTo(p diplomacy.Phase, preserveTargetPress bool) (*Game, error) {
	var base *diplomacy.State
	if archived, ok := g.stateHistory[p]; ok {
		base = archived
	} else if g.state.Phase == p {
		base = g.state
	} else {
		return nil, &diplomacy.IllegalStateError{Reason: "phase " + p.String() + " not in history"}
	}

	rolled := New()
	rolled.ID = g.ID
	rolled.rules = append([]string(nil), g.rules...)
	rolled.drawOnStalemateYears = g.drawOnStalemateYears
	rolled.exceptionOnConvoyParadox = g.exceptionOnConvoyParadox
	rolled.clock = g.clock
	rolled.crashDump = g.crashDump
	rolled.log = g.log
	rolled.state = base.Clone()

	for phase, st := range g.stateHistory {
		if !phase.Before(p) {
			continue
		}
		rolled.stateHistory[phase] = st.Clone()
		if orders, ok := g.orderHistory[phase]; ok {
			rolled.orderHistory[phase] = copyOrders(orders)
		}
	}
	for phase, byTime := range g.messages {
		if phase.Before(p) || (preserveTargetPress && phase == p) {
			copied := make(map[uint64]Message, len(byTime))
			for ts, msg := range byTime {
				copied[ts] = msg
			}
			rolled.messages[phase] = copied
		}
	}
	for phase, lines := range g.logs {
		if phase.Before(p) || (preserveTargetPress && phase == p) {
			rolled.logs[phase] = append([]string(nil), lines...)
		}
	}

	return rolled, nil
}

func copyOrders(in map[diplomacy.Power][]diplomacy.Order) map[diplomacy.Power][]diplomacy.Order {
	out := make(map[diplomacy.Power][]diplomacy.Order, len(in))
	for p, os := range in {
		out[p] = append([]diplomacy.Order(nil), os...)
	}
	return out
}
