package buttons

import (
	"encoding/binary"
	"testing"
)

func record(tvSize int, typ, code uint16, value int32) []byte {
	rec := make([]byte, tvSize+8)
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestDecodeEvents(t *testing.T) {
	for _, tvSize := range []int{8, 16} {
		var buf []byte
		buf = append(buf, record(tvSize, evKey, keyF2, 1)...)
		buf = append(buf, record(tvSize, evKey, keyF2, 0)...) // release
		buf = append(buf, record(tvSize, evKey, keyF3, 2)...) // repeat
		buf = append(buf, record(tvSize, 0x00, keyF3, 1)...)  // EV_SYN
		buf = append(buf, record(tvSize, evKey, 30, 1)...)    // KEY_A
		buf = append(buf, record(tvSize, evKey, keyF3, 1)...)
		buf = append(buf, 0xff, 0xff) // partial record

		var got []Event
		decodeEvents(buf, tvSize, func(ev Event) { got = append(got, ev) })
		want := []Event{ToggleVerbose, ToggleTextbox}
		if len(got) != len(want) {
			t.Fatalf("tvSize %d: events = %v, want %v", tvSize, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("tvSize %d: event %d = %v, want %v", tvSize, i, got[i], want[i])
			}
		}
	}
}
