package diplomacy

import "strings"

// ParseOrder parses one canonical order string for a power. Parsing is
// tolerant of case and extra whitespace. On failure it returns a hold-
// shaped order flagged invalid together with a *ParseError; the caller
// is expected to retain the order rather than reject the submission.
func ParseOrder(power Power, s string) (Order, error) {
	raw := strings.Join(strings.Fields(strings.ToUpper(s)), " ")
	fail := func(reason string) (Order, error) {
		return Order{Type: OrderHold, Power: power, Raw: raw}, &ParseError{Input: s, Reason: reason}
	}

	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return fail("empty order")
	}

	if tokens[0] == "WAIVE" {
		return Order{Type: OrderWaive, Power: power, Valid: true, Raw: "WAIVE"}, nil
	}

	if len(tokens) < 3 {
		return fail("too few tokens")
	}

	ut, ok := parseUnitType(tokens[0])
	if !ok {
		return fail("expected unit type A or F")
	}
	loc := LocFromString(tokens[1])
	if loc == "" {
		return fail("unknown location " + tokens[1])
	}

	o := Order{Power: power, UnitType: ut, Loc: loc, Raw: raw}
	action, rest := tokens[2], tokens[3:]

	switch action {
	case "H":
		o.Type = OrderHold

	case "-":
		o.Type = OrderMove
		if len(rest) < 1 {
			return fail("move missing destination")
		}
		if o.Dest = LocFromString(rest[0]); o.Dest == "" {
			return fail("unknown destination " + rest[0])
		}
		if len(rest) > 1 {
			if rest[1] != "VIA" {
				return fail("unexpected token " + rest[1])
			}
			o.ViaConvoy = true
		}

	case "S":
		if len(rest) < 2 {
			return fail("support missing unit")
		}
		auxType, ok := parseUnitType(rest[0])
		if !ok {
			return fail("expected supported unit type A or F")
		}
		o.AuxUnitType = auxType
		if o.AuxLoc = LocFromString(rest[1]); o.AuxLoc == "" {
			return fail("unknown supported location " + rest[1])
		}
		switch {
		case len(rest) == 2, len(rest) == 3 && rest[2] == "H":
			o.Type = OrderSupportHold
		case len(rest) >= 4 && rest[2] == "-":
			o.Type = OrderSupportMove
			if o.AuxDest = LocFromString(rest[3]); o.AuxDest == "" {
				return fail("unknown supported destination " + rest[3])
			}
		default:
			return fail("malformed support")
		}

	case "C":
		o.Type = OrderConvoy
		if len(rest) < 4 {
			return fail("convoy too short")
		}
		auxType, ok := parseUnitType(rest[0])
		if !ok || auxType != Army {
			return fail("only armies can be convoyed")
		}
		o.AuxUnitType = Army
		if o.AuxLoc = LocFromString(rest[1]); o.AuxLoc == "" {
			return fail("unknown convoyed location " + rest[1])
		}
		if rest[2] != "-" {
			return fail("expected '-' in convoy")
		}
		if o.AuxDest = LocFromString(rest[3]); o.AuxDest == "" {
			return fail("unknown convoy destination " + rest[3])
		}

	case "R":
		o.Type = OrderRetreat
		if len(rest) < 1 {
			return fail("retreat missing destination")
		}
		if o.Dest = LocFromString(rest[0]); o.Dest == "" {
			return fail("unknown retreat destination " + rest[0])
		}

	case "D":
		o.Type = OrderDisband

	case "B":
		o.Type = OrderBuild

	case "WAIVE":
		// "A PAR WAIVE" is accepted; the unit tokens are ignored.
		return Order{Type: OrderWaive, Power: power, Valid: true, Raw: "WAIVE"}, nil

	default:
		return fail("unknown action " + action)
	}

	o.Valid = true
	return o, nil
}

// ParseOrders parses a slice of order strings for a power. Orders that
// fail to parse are kept, flagged invalid; no error aborts the batch.
func ParseOrders(power Power, lines []string) []Order {
	orders := make([]Order, 0, len(lines))
	for _, line := range lines {
		o, _ := ParseOrder(power, line)
		orders = append(orders, o)
	}
	return orders
}

func parseUnitType(s string) (UnitType, bool) {
	switch s {
	case "A":
		return Army, true
	case "F":
		return Fleet, true
	}
	return Army, false
}
