package game

import (
	"time"

	"github.com/entente-games/entente/pkg/diplomacy"
)

// Message is a free-form note between two powers, stored under the phase
// it was sent in and keyed by its microsecond timestamp.
type Message struct {
	Sender    diplomacy.Power
	Recipient diplomacy.Power
	Body      string
	TimeSent  uint64 // Microseconds since the Unix epoch
}

// Clock supplies microsecond timestamps for messages sent without an
// explicit time. Injected so tests and replays stay deterministic.
type Clock func() uint64

func systemClock() uint64 {
	return uint64(time.Now().UnixMicro())
}

// AddMessage records a message in the current phase. A zero timeSent is
// replaced by the game clock; colliding timestamps are bumped forward
// one microsecond at a time, preserving append order. The timestamp
// used is returned.
func (g *Game) AddMessage(sender, recipient, body string, timeSent uint64) (uint64, error) {
	from, ok := diplomacy.PowerFromString(sender)
	if !ok {
		return 0, &diplomacy.LookupError{Kind: "power", Value: sender}
	}
	to, ok := diplomacy.PowerFromString(recipient)
	if !ok {
		return 0, &diplomacy.LookupError{Kind: "power", Value: recipient}
	}

	if timeSent == 0 {
		timeSent = g.clock()
	}

	phase := g.state.Phase
	if g.messages[phase] == nil {
		g.messages[phase] = make(map[uint64]Message)
	}
	for {
		if _, taken := g.messages[phase][timeSent]; !taken {
			break
		}
		timeSent++
	}

	g.messages[phase][timeSent] = Message{
		Sender:    from,
		Recipient: to,
		Body:      body,
		TimeSent:  timeSent,
	}
	return timeSent, nil
}

// RollbackMessagesToTimestamp removes every message with a timestamp
// after t, across all phases.
func (g *Game) RollbackMessagesToTimestamp(t uint64) {
	for phase, byTime := range g.messages {
		for ts := range byTime {
			if ts > t {
				delete(byTime, ts)
			}
		}
		if len(byTime) == 0 {
			delete(g.messages, phase)
		}
	}
}
