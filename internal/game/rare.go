package game

import (
	"encoding/json"
	"fmt"
)

// RareEvent names one of the once-per-game encounters.
type RareEvent int

const (
	RareMarieCeleste RareEvent = iota
	RareCaptainAhab
	RareCaptainConrad
	RareCaptainHuie
	RareBottleOld
	RareBottleGood
	rareEventCount
)

var rareEventNames = [rareEventCount]string{
	"marie_celeste", "captain_ahab", "captain_conrad", "captain_huie", "bottle_old", "bottle_good",
}

func (e RareEvent) String() string {
	if e < 0 || e >= rareEventCount {
		return fmt.Sprintf("rare_event(%d)", int(e))
	}
	return rareEventNames[e]
}

// Bit is the save-file bit of the event. The layout must never change.
func (e RareEvent) Bit() uint32 { return 1 << uint(e) }

// AllRareEvents lists every once-per-game encounter in bit order.
func AllRareEvents() []RareEvent {
	out := make([]RareEvent, rareEventCount)
	for i := range out {
		out[i] = RareEvent(i)
	}
	return out
}

// RareEventSet records which once-per-game encounters already happened.
// Flags are only ever added; a new game starts from the zero value.
type RareEventSet struct {
	done [rareEventCount]bool
}

// Has reports whether e already happened.
func (s *RareEventSet) Has(e RareEvent) bool {
	return e >= 0 && e < rareEventCount && s.done[e]
}

// Mark records e. It reports false when e had already happened.
func (s *RareEventSet) Mark(e RareEvent) bool {
	if e < 0 || e >= rareEventCount {
		panic(fmt.Sprintf("game: rare event %d out of range", int(e)))
	}
	if s.done[e] {
		return false
	}
	s.done[e] = true
	return true
}

// Exhausted reports whether every rare event has happened.
func (s *RareEventSet) Exhausted() bool {
	for _, d := range s.done {
		if !d {
			return false
		}
	}
	return true
}

// Bits encodes the set in the save-file layout.
func (s RareEventSet) Bits() uint32 {
	var b uint32
	for i, d := range s.done {
		if d {
			b |= RareEvent(i).Bit()
		}
	}
	return b
}

// RareEventSetFromBits decodes the save-file layout. Unknown bits are ignored.
func RareEventSetFromBits(b uint32) RareEventSet {
	var s RareEventSet
	for i := range s.done {
		s.done[i] = b&RareEvent(i).Bit() != 0
	}
	return s
}

func (s RareEventSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Bits())
}

func (s *RareEventSet) UnmarshalJSON(data []byte) error {
	var b uint32
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*s = RareEventSetFromBits(b)
	return nil
}
