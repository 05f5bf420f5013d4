package ir

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Direction is the synchronisation marker of a signal.
type Direction byte

const (
	Send    Direction = '!'
	Receive Direction = '?'
)

// Signal is a channel name with its direction marker.
type Signal struct {
	Channel string
	Dir     Direction
}

// ParseSignal parses "chan!" or "chan?". The channel name is NFC normalized
// so that labels typed on different systems compare equal.
func ParseSignal(s string) (Signal, error) {
	raw := strings.TrimSpace(s)
	if len(raw) < 2 {
		return Signal{}, Errorf(ErrCodeBadSignal, "signal %q has no channel and marker", s)
	}
	dir := Direction(raw[len(raw)-1])
	if dir != Send && dir != Receive {
		return Signal{}, Errorf(ErrCodeBadSignal, "signal %q does not end in '!' or '?'", s)
	}
	channel := strings.TrimSpace(raw[:len(raw)-1])
	if channel == "" || strings.ContainsAny(channel, "!?") {
		return Signal{}, Errorf(ErrCodeBadSignal, "signal %q has an invalid channel name", s)
	}
	return Signal{Channel: norm.NFC.String(channel), Dir: dir}, nil
}

// Normalize returns the receive form of s.
func (s Signal) Normalize() Signal {
	return Signal{Channel: s.Channel, Dir: Receive}
}

// String renders the signal as a synchronisation label.
func (s Signal) String() string {
	return s.Channel + string(rune(s.Dir))
}
