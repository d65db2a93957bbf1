package smb

import (
	"testing"

	"github.com/samuelfneumann/gomario/environment/nes"
)

func newRAM() []byte {
	ram := make([]byte, nes.RAMSize)
	ram[AddrYViewport] = 1
	ram[AddrPlayerState] = StateNormal
	return ram
}

// shortMemory backs only the first n bytes of RAM
type shortMemory int

func (s shortMemory) ReadMemory(addr uint32, buf []byte) uint32 {
	if int(addr) >= int(s) {
		return 0
	}
	n := int(s) - int(addr)
	if n > len(buf) {
		n = len(buf)
	}
	return uint32(n)
}

func TestDecodeRAM(t *testing.T) {
	ram := newRAM()
	ram[AddrXPage] = 2
	ram[AddrXScreen] = 0x10
	ram[AddrYPixel] = 176
	copy(ram[AddrTime:], []byte{3, 9, 8})
	copy(ram[AddrCoins:], []byte{1, 2})
	copy(ram[AddrScore:], []byte{0, 0, 1, 2, 5, 0})
	ram[AddrLife] = 2
	ram[AddrWorld] = 3
	ram[AddrStage] = 1
	ram[AddrArea] = 2
	ram[AddrStatus] = 1

	s, err := DecodeRAM(ram)
	if err != nil {
		t.Fatal(err)
	}

	want := State{
		XPos:   0x210,
		YPos:   79,
		Time:   398,
		Coins:  12,
		Score:  1250,
		Life:   2,
		World:  4,
		Stage:  2,
		Area:   3,
		Status: Tall,
	}
	if s != want {
		t.Errorf("decoded %+v, want %+v", s, want)
	}
}

func TestDecodeLife(t *testing.T) {
	ram := newRAM()
	ram[AddrLife] = 0
	if s, _ := DecodeRAM(ram); s.GameOver() {
		t.Error("life 0 reported game over")
	}

	ram[AddrLife] = 0xFF
	s, _ := DecodeRAM(ram)
	if s.Life != -1 || !s.GameOver() {
		t.Errorf("life 0xFF decoded as %d, game over = %v", s.Life,
			s.GameOver())
	}
	if info := NewInfo(s, Delta{}); info.Life != -1 {
		t.Errorf("info life = %d on game over, want -1", info.Life)
	}
}

func TestDecodeYPosition(t *testing.T) {
	tests := []struct {
		viewport, pixel byte
		want            int
	}{
		{1, 176, 79},
		{1, 255, 0},
		{0, 200, 310},
		{2, 10, -11},
	}

	for _, test := range tests {
		ram := newRAM()
		ram[AddrYViewport] = test.viewport
		ram[AddrYPixel] = test.pixel
		s, _ := DecodeRAM(ram)
		if s.YPos != test.want {
			t.Errorf("viewport %d pixel %d: y = %d, want %d", test.viewport,
				test.pixel, s.YPos, test.want)
		}
	}
}

func TestDecodePlayerState(t *testing.T) {
	tests := []struct {
		state, viewport byte
		dying, dead     bool
		busy            bool
	}{
		{StateNormal, 1, false, false, false},
		{StateDying, 1, true, false, false},
		{StateNormal, 2, true, false, false},
		{StateDead, 1, false, true, false},
		{StateEntering, 1, false, false, true},
		{StateDownPipe, 1, false, false, true},
		{StateLeftmost, 1, false, false, true},
	}

	for _, test := range tests {
		ram := newRAM()
		ram[AddrPlayerState] = test.state
		ram[AddrYViewport] = test.viewport
		s, _ := DecodeRAM(ram)
		if s.Dying != test.dying || s.Dead != test.dead ||
			s.InBlockingSequence != test.busy {
			t.Errorf("state %#x viewport %d: dying, dead, busy = %v, %v, "+
				"%v, want %v, %v, %v", test.state, test.viewport, s.Dying,
				s.Dead, s.InBlockingSequence, test.dying, test.dead,
				test.busy)
		}
	}
}

func TestDecodeFlag(t *testing.T) {
	ram := newRAM()
	ram[AddrFloatState] = floatFlagSlide
	if s, _ := DecodeRAM(ram); s.FlagGet {
		t.Error("float state without a flagpole reported a flag")
	}

	ram[AddrEnemyTypes+3] = EnemyFlagpole
	if s, _ := DecodeRAM(ram); !s.FlagGet {
		t.Error("flagpole slide did not report a flag")
	}

	ram = newRAM()
	ram[AddrGameplayMode] = modeWorldOver
	s, _ := DecodeRAM(ram)
	if !s.FlagGet || !s.WorldOver || !s.InBlockingSequence {
		t.Errorf("world over: flag, world over, busy = %v, %v, %v",
			s.FlagGet, s.WorldOver, s.InBlockingSequence)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeRAM(make([]byte, 10)); !IsDecode(err) {
		t.Errorf("short RAM view: expected decode error, have %v", err)
	}

	_, err := Decode(shortMemory(nes.RAMSize - 1))
	if !IsDecode(err) {
		t.Errorf("short read: expected decode error, have %v", err)
	}
	if _, ok := err.(*Error); !ok {
		t.Errorf("short read: expected *Error, have %T", err)
	}
}

func TestDecodeDoesNotModify(t *testing.T) {
	ram := newRAM()
	ram[AddrLife] = 0xFF
	before := make([]byte, len(ram))
	copy(before, ram)

	DecodeRAM(ram)
	for i := range ram {
		if ram[i] != before[i] {
			t.Fatalf("decode modified RAM at %#x", i)
		}
	}
}

func BenchmarkDecodeRAM(b *testing.B) {
	ram := newRAM()
	for i := 0; i < b.N; i++ {
		DecodeRAM(ram)
	}
}
