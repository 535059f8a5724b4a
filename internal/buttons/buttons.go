package buttons

import (
	"context"
	"encoding/binary"
)

type Event string

const (
	ToggleVerbose Event = "toggle-verbose"
	ToggleTextbox Event = "toggle-textbox"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopButtons struct{ ch chan Event }

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error                     { close(n.ch); return nil }
func (n *NoopButtons) Events() <-chan Event            { return n.ch }

const (
	evKey = 0x01

	// Linux input-event-codes.h
	keyF2 = 60
	keyF3 = 61
)

var keyEvents = map[uint16]Event{
	keyF2: ToggleVerbose,
	keyF3: ToggleTextbox,
}

// decodeEvents walks a buffer of input_event records laid out as a timeval
// of tvSize bytes followed by u16 type, u16 code and s32 value, and emits
// an Event for every mapped key press. Repeats and releases are ignored.
func decodeEvents(buf []byte, tvSize int, emit func(Event)) {
	size := tvSize + 8
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off : off+size]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey || value != 1 {
			continue
		}
		if ev, ok := keyEvents[code]; ok {
			emit(ev)
		}
	}
}
