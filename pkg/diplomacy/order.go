package diplomacy

import "strings"

// OrderType represents the kind of order a unit (or power) can be given.
type OrderType int

const (
	OrderHold        OrderType = iota // A PAR H
	OrderMove                         // A PAR - BUR [VIA]
	OrderSupportHold                  // A MUN S F KIE
	OrderSupportMove                  // A MUN S F KIE - BER
	OrderConvoy                       // F MAO C A BRE - LON
	OrderRetreat                      // A PAR R GAS
	OrderDisband                      // F TRI D
	OrderBuild                        // A VIE B
	OrderWaive                        // WAIVE
)

func (o OrderType) String() string {
	switch o {
	case OrderHold:
		return "hold"
	case OrderMove:
		return "move"
	case OrderSupportHold:
		return "support-hold"
	case OrderSupportMove:
		return "support-move"
	case OrderConvoy:
		return "convoy"
	case OrderRetreat:
		return "retreat"
	case OrderDisband:
		return "disband"
	case OrderBuild:
		return "build"
	case OrderWaive:
		return "waive"
	default:
		return "unknown"
	}
}

// Order represents a single order. It is a tagged variant: which fields
// are meaningful depends on Type. Orders carry a validity flag set at
// parse/validation time; invalid orders are retained for history
// fidelity and adjudicated as holds.
type Order struct {
	Type  OrderType
	Power Power

	// Unit being ordered (all types except OrderWaive).
	UnitType UnitType
	Loc      Loc

	// Destination (move, retreat).
	Dest Loc

	// Move explicitly routed through a convoy chain.
	ViaConvoy bool

	// Supported or convoyed unit and, for support-move/convoy, its
	// destination.
	AuxUnitType UnitType
	AuxLoc      Loc
	AuxDest     Loc

	// Valid is false for orders that failed parsing or validation.
	Valid bool

	// Raw preserves the normalized submitted text for history fidelity.
	Raw string
}

// String returns the canonical order form as adjudicated and emitted.
// Orders that never parsed return their raw submission unchanged.
func (o Order) String() string {
	if !o.Valid && o.Type == OrderHold && o.Raw != "" {
		return o.Raw
	}

	if o.Type == OrderWaive {
		return "WAIVE"
	}

	var b strings.Builder
	b.Grow(24)
	b.WriteString(o.UnitType.String())
	b.WriteByte(' ')
	b.WriteString(string(o.Loc))

	switch o.Type {
	case OrderHold:
		b.WriteString(" H")
	case OrderMove:
		b.WriteString(" - ")
		b.WriteString(string(o.Dest))
		if o.ViaConvoy {
			b.WriteString(" VIA")
		}
	case OrderSupportHold:
		b.WriteString(" S ")
		b.WriteString(o.AuxUnitType.String())
		b.WriteByte(' ')
		b.WriteString(string(o.AuxLoc))
	case OrderSupportMove:
		b.WriteString(" S ")
		b.WriteString(o.AuxUnitType.String())
		b.WriteByte(' ')
		b.WriteString(string(o.AuxLoc))
		b.WriteString(" - ")
		b.WriteString(string(o.AuxDest))
	case OrderConvoy:
		b.WriteString(" C ")
		b.WriteString(o.AuxUnitType.String())
		b.WriteByte(' ')
		b.WriteString(string(o.AuxLoc))
		b.WriteString(" - ")
		b.WriteString(string(o.AuxDest))
	case OrderRetreat:
		b.WriteString(" R ")
		b.WriteString(string(o.Dest))
	case OrderDisband:
		b.WriteString(" D")
	case OrderBuild:
		b.WriteString(" B")
	}
	return b.String()
}

// OrderStatus describes the adjudicated outcome of an order.
type OrderStatus int

const (
	StatusSucceeded OrderStatus = iota // Order carried out
	StatusBounced                      // Move failed against equal or greater strength
	StatusCut                          // Support was cut
	StatusFailed                       // Convoy disrupted or move unreachable
	StatusDislodged                    // The ordered unit was dislodged
	StatusVoid                         // Order was invalid, adjudicated as hold
)

func (s OrderStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusBounced:
		return "bounced"
	case StatusCut:
		return "cut"
	case StatusFailed:
		return "failed"
	case StatusDislodged:
		return "dislodged"
	case StatusVoid:
		return "void"
	default:
		return "unknown"
	}
}

// ResolvedOrder pairs an order with its adjudication outcome.
type ResolvedOrder struct {
	Order  Order
	Status OrderStatus
}
