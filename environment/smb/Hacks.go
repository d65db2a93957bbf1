package smb

import (
	"github.com/samuelfneumann/gomario/environment/nes"
)

// readTime returns the in-game clock
func readTime(m nes.Memory) (int, error) {
	s, err := Decode(m)
	if err != nil {
		return 0, err
	}
	return s.Time, nil
}

func writeByte(w nes.MemoryWriter, addr uint32, value byte) {
	w.WriteMemory(addr, []byte{value})
}

// writeStage overwrites the stage the game loads next
func writeStage(w nes.MemoryWriter, v Variant, s Stage) {
	writeByte(w, AddrWorld, byte(s.World-1))
	writeByte(w, AddrStage, byte(s.Stage-1))
	writeByte(w, AddrArea, byte(s.Area(v)-1))
}

// runoutPrelevelTimer forces the pre-level timer to zero, skipping the
// frames of the lives screen
func runoutPrelevelTimer(w nes.MemoryWriter) {
	writeByte(w, AddrPrelevel, 0)
}

// skipChangeArea runs down the change area timer used when entering
// pipes and after the flag
func skipChangeArea(m nes.Memory, w nes.MemoryWriter) {
	timer := make([]byte, 1)
	m.ReadMemory(AddrChangeArea, timer)
	if timer[0] > 1 && timer[0] < 255 {
		writeByte(w, AddrChangeArea, 1)
	}
}

// killPlayer skips the dying animation by forcing the player dead
func killPlayer(c nes.Console, w nes.MemoryWriter) {
	writeByte(w, AddrPlayerState, StateDead)
	c.Apply(nes.NOOP)
}

// skipEndOfWorld idles through the cutscene at the end of a world,
// which ends when the clock changes
func skipEndOfWorld(c nes.Console) error {
	s, err := Decode(c)
	if err != nil || !s.WorldOver {
		return err
	}

	time := s.Time
	for s.Time == time {
		c.Apply(nes.NOOP)
		if s, err = Decode(c); err != nil {
			return err
		}
	}
	return nil
}

// skipStartScreen presses start until gameplay begins, writing target
// as the stage to load if it is not nil, then idles until the clock
// first ticks.
func skipStartScreen(c nes.Console, v Variant, target *Stage) error {
	w, writable := c.(nes.MemoryWriter)

	c.Apply(nes.ButtonStart)
	c.Apply(nes.NOOP)

	time, err := readTime(c)
	if err != nil {
		return err
	}
	for time == 0 {
		c.Apply(nes.ButtonStart)
		if target != nil && writable {
			writeStage(w, v, *target)
		}
		c.Apply(nes.NOOP)
		if writable {
			runoutPrelevelTimer(w)
		}

		if time, err = readTime(c); err != nil {
			return err
		}
	}

	last := time
	for time >= last {
		last = time
		c.Apply(nes.ButtonStart)
		c.Apply(nes.NOOP)

		if time, err = readTime(c); err != nil {
			return err
		}
	}
	return nil
}
