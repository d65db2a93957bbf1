// Package simulator implements a deterministic stand-in for an NES
// running Super Mario Bros.
//
// The Simulator does not emulate the NES. It keeps the RAM values that
// package smb decodes consistent with a very small model of the game:
// a title screen, a pre-level screen, a flat stage with pits and a
// flagpole, a clock which counts down, dying, and respawning with one
// fewer life. It exists so environments can be exercised without a
// ROM, and is used by the tests of package smb and by the gomario
// command.
package simulator

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/samuelfneumann/gomario/environment/nes"
	"github.com/samuelfneumann/gomario/environment/smb"
)

const (
	groundPixel = 176
	startX      = 40
	jumpFrames  = 16
)

// Pit is a gap in the ground spanning x positions [Start, End)
type Pit struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// Config configures the simulated game
type Config struct {
	// FlagX is the x position of the flagpole
	FlagX int `yaml:"flag_x" json:"flag_x"`

	Pits []Pit `yaml:"pits" json:"pits"`

	// FramesPerTick is the number of frames per tick of the clock
	FramesPerTick int `yaml:"frames_per_tick" json:"frames_per_tick"`

	// StartTime is the clock at the start of each stage, at most 999
	StartTime int `yaml:"start_time" json:"start_time"`

	// Lives is the lives counter at the start of the game
	Lives byte `yaml:"lives" json:"lives"`

	PrelevelFrames int `yaml:"prelevel_frames" json:"prelevel_frames"`
	DyingFrames    int `yaml:"dying_frames" json:"dying_frames"`
	DeadFrames     int `yaml:"dead_frames" json:"dead_frames"`

	// FlagFrames is the length of the flagpole slide, during which the
	// simulator blocks
	FlagFrames int `yaml:"flag_frames" json:"flag_frames"`

	WalkSpeed int `yaml:"walk_speed" json:"walk_speed"`
	RunSpeed  int `yaml:"run_speed" json:"run_speed"`
}

// DefaultConfig returns the default simulated game
func DefaultConfig() Config {
	return Config{
		FlagX:          3160,
		Pits:           []Pit{{1104, 1136}, {1376, 1424}, {2448, 2480}},
		FramesPerTick:  24,
		StartTime:      400,
		Lives:          2,
		PrelevelFrames: 8,
		DyingFrames:    30,
		DeadFrames:     3,
		FlagFrames:     20,
		WalkSpeed:      2,
		RunSpeed:       3,
	}
}

type phase int

const (
	title phase = iota
	prelevel
	playing
	dying
	dead
	respawn
	flag
	gameOver
)

// machine is the complete serializable state of a Simulator
type machine struct {
	RAM     [nes.RAMSize]byte
	Phase   phase
	Counter int
	Tick    int
	Jump    int
	Frames  int
}

// Simulator is a simulated NES console. Simulator implements the
// nes.Console, nes.MemoryWriter, and nes.SaveStater interfaces.
type Simulator struct {
	config Config
	m      machine
	screen []byte
}

// New returns a new Simulator which is powered on at the title screen
func New(c Config) (*Simulator, error) {
	if c.FramesPerTick < 1 {
		return nil, fmt.Errorf("new: frames per tick %d < 1",
			c.FramesPerTick)
	}
	if c.StartTime < 1 || c.StartTime > 999 {
		return nil, fmt.Errorf("new: start time %d ∉ [1, 999]", c.StartTime)
	}
	if c.FlagX <= startX || c.FlagX > 0xFFFF {
		return nil, fmt.Errorf("new: flag position %d ∉ (%d, %d]", c.FlagX,
			startX, 0xFFFF)
	}

	s := &Simulator{
		config: c,
		screen: make([]byte, nes.ScreenHeight*nes.ScreenWidth*nes.ScreenDepth),
	}
	s.m.Phase = title
	return s, nil
}

// Loader returns an smb.Loader which creates a new Simulator for every
// variant and ROM mode
func Loader(c Config) smb.Loader {
	return smb.LoaderFunc(func(smb.Variant, smb.ROMMode) (nes.Console,
		error) {
		return New(c)
	})
}

// ReadMemory implements the nes.Memory interface
func (s *Simulator) ReadMemory(addr uint32, buf []byte) uint32 {
	if addr >= nes.RAMSize {
		return 0
	}
	return uint32(copy(buf, s.m.RAM[addr:]))
}

// WriteMemory implements the nes.MemoryWriter interface
func (s *Simulator) WriteMemory(addr uint32, data []byte) uint32 {
	if addr >= nes.RAMSize {
		return 0
	}
	return uint32(copy(s.m.RAM[addr:], data))
}

// Reset power cycles the simulator, returning to the title screen
func (s *Simulator) Reset() error {
	s.m = machine{Phase: title}
	return nil
}

// Frames returns the number of frames run since the last Reset
func (s *Simulator) Frames() int {
	return s.m.Frames
}

// Blocking reports whether the simulator is in a pre-level screen or
// sliding down the flagpole
func (s *Simulator) Blocking() bool {
	switch s.m.Phase {
	case prelevel, respawn:
		return true
	case flag:
		return s.m.Counter > 0
	}
	return false
}

// Apply runs one frame with buttons b held
func (s *Simulator) Apply(b nes.Buttons) {
	s.m.Frames++
	ram := &s.m.RAM

	switch s.m.Phase {
	case title:
		if b.Held(nes.ButtonStart) {
			ram[smb.AddrGameplayMode] = 1
			ram[smb.AddrLife] = s.config.Lives
			ram[smb.AddrPrelevel] = byte(s.config.PrelevelFrames)
			s.m.Phase = prelevel
		}

	case prelevel, respawn:
		if ram[smb.AddrPrelevel] > 0 {
			ram[smb.AddrPrelevel]--
		}
		if ram[smb.AddrPrelevel] == 0 {
			s.loadStage()
		}

	case playing:
		s.play(b)

	case dying:
		s.m.Counter--
		if ram[smb.AddrPlayerState] == smb.StateDead || s.m.Counter <= 0 {
			s.die()
		}

	case dead:
		s.m.Counter--
		if s.m.Counter <= 0 {
			s.respawn()
		}

	case flag:
		if s.m.Counter > 0 {
			s.m.Counter--
		}
	}
}

// loadStage places the player at the start of the stage in RAM
func (s *Simulator) loadStage() {
	ram := &s.m.RAM

	s.setX(startX)
	ram[smb.AddrYViewport] = 1
	ram[smb.AddrYPixel] = groundPixel
	ram[smb.AddrPlayerState] = smb.StateNormal
	ram[smb.AddrFloatState] = 0
	ram[smb.AddrPrelevel] = 0
	for i := 0; i < 5; i++ {
		ram[smb.AddrEnemyTypes+i] = 0
	}
	s.setTime(s.config.StartTime)

	s.m.Tick = 0
	s.m.Jump = 0
	s.m.Phase = playing
}

func (s *Simulator) play(b nes.Buttons) {
	ram := &s.m.RAM

	speed := s.config.WalkSpeed
	if b.Held(nes.ButtonB) {
		speed = s.config.RunSpeed
	}

	x := s.x()
	if b.Held(nes.ButtonRight) {
		x += speed
	}
	if b.Held(nes.ButtonLeft) {
		x -= speed
	}
	if x < 0 {
		x = 0
	}
	s.setX(x)

	if s.m.Jump == 0 && b.Held(nes.ButtonA) {
		s.m.Jump = jumpFrames
	}
	if s.m.Jump > 0 {
		s.m.Jump--
		k := jumpFrames - s.m.Jump
		ram[smb.AddrYPixel] = byte(groundPixel - k*(jumpFrames-k)/2)
	}

	s.m.Tick++
	if s.m.Tick >= s.config.FramesPerTick {
		s.m.Tick = 0
		s.setTime(s.time() - 1)
		if s.time() == 0 {
			s.startDying()
			return
		}
	}

	if x >= s.config.FlagX {
		ram[smb.AddrEnemyTypes] = smb.EnemyFlagpole
		ram[smb.AddrFloatState] = 3
		s.m.Counter = s.config.FlagFrames
		s.m.Phase = flag
		return
	}

	if s.m.Jump == 0 && s.inPit(x) {
		ram[smb.AddrYViewport] = 2
		s.startDying()
	}
}

func (s *Simulator) startDying() {
	s.m.RAM[smb.AddrPlayerState] = smb.StateDying
	s.m.Counter = s.config.DyingFrames
	s.m.Phase = dying
}

func (s *Simulator) die() {
	s.m.RAM[smb.AddrPlayerState] = smb.StateDead
	s.m.Counter = s.config.DeadFrames
	s.m.Phase = dead
}

// respawn uses up a life and enters the pre-level screen, or ends the
// game if no lives remain
func (s *Simulator) respawn() {
	ram := &s.m.RAM
	if ram[smb.AddrLife] == 0 {
		ram[smb.AddrLife] = 0xFF
		s.m.Phase = gameOver
		return
	}

	ram[smb.AddrLife]--
	ram[smb.AddrPlayerState] = smb.StateEntering
	ram[smb.AddrPrelevel] = byte(s.config.PrelevelFrames)
	s.m.Phase = respawn
}

func (s *Simulator) inPit(x int) bool {
	for _, pit := range s.config.Pits {
		if x >= pit.Start && x < pit.End {
			return true
		}
	}
	return false
}

func (s *Simulator) x() int {
	return int(s.m.RAM[smb.AddrXPage])*0x100 + int(s.m.RAM[smb.AddrXScreen])
}

func (s *Simulator) setX(x int) {
	s.m.RAM[smb.AddrXPage] = byte(x / 0x100)
	s.m.RAM[smb.AddrXScreen] = byte(x % 0x100)
}

func (s *Simulator) time() int {
	t := s.m.RAM[smb.AddrTime : smb.AddrTime+3]
	return int(t[0])*100 + int(t[1])*10 + int(t[2])
}

func (s *Simulator) setTime(t int) {
	s.m.RAM[smb.AddrTime] = byte(t / 100)
	s.m.RAM[smb.AddrTime+1] = byte(t / 10 % 10)
	s.m.RAM[smb.AddrTime+2] = byte(t % 10)
}

// Serialize implements the nes.SaveStater interface
func (s *Simulator) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.m); err != nil {
		return nil, fmt.Errorf("serialize: %v", err)
	}
	return buf.Bytes(), nil
}

// Deserialize implements the nes.SaveStater interface
func (s *Simulator) Deserialize(data []byte) error {
	var m machine
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return fmt.Errorf("deserialize: %v", err)
	}
	s.m = m
	return nil
}

var (
	sky    = [3]byte{92, 148, 252}
	ground = [3]byte{200, 76, 12}
	pole   = [3]byte{0, 168, 0}
	player = [3]byte{216, 40, 0}
)

// Screen renders the current frame as rows of RGB pixels
func (s *Simulator) Screen() []byte {
	if s.m.Phase == title {
		fill(s.screen, 0, nes.ScreenHeight, 0, nes.ScreenWidth, [3]byte{})
		return s.screen
	}

	x := s.x()
	left := x - nes.ScreenWidth/2
	if left < 0 {
		left = 0
	}

	fill(s.screen, 0, nes.ScreenHeight, 0, nes.ScreenWidth, sky)
	fill(s.screen, groundPixel+16, nes.ScreenHeight, 0, nes.ScreenWidth,
		ground)
	for _, pit := range s.config.Pits {
		fill(s.screen, groundPixel+16, nes.ScreenHeight, pit.Start-left,
			pit.End-left, sky)
	}
	fill(s.screen, groundPixel-96, groundPixel+16, s.config.FlagX-left,
		s.config.FlagX-left+4, pole)

	if s.m.Phase != gameOver {
		y := int(s.m.RAM[smb.AddrYPixel])
		if s.m.RAM[smb.AddrYViewport] > 1 {
			y += 0x100
		}
		fill(s.screen, y, y+16, x-left, x-left+16, player)
	}

	return s.screen
}

// fill colours the rectangle of rows [top, bottom) and columns
// [left, right), clipped to the screen
func fill(screen []byte, top, bottom, left, right int, colour [3]byte) {
	top, bottom = clamp(top, nes.ScreenHeight), clamp(bottom, nes.ScreenHeight)
	left, right = clamp(left, nes.ScreenWidth), clamp(right, nes.ScreenWidth)

	for row := top; row < bottom; row++ {
		for col := left; col < right; col++ {
			i := (row*nes.ScreenWidth + col) * nes.ScreenDepth
			copy(screen[i:i+nes.ScreenDepth], colour[:])
		}
	}
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
