// Package options contains the program options.
package options

import "time"

// Fault policies applied by the runner when the program faults.
const (
	FaultHalt  = "halt"
	FaultReset = "reset"
	FaultSkip  = "skip"
)

// Default machine timing. Timers decay and frames are presented at
// FrameRate, TicksPerFrame instructions are executed per frame.
const (
	DefaultTicksPerFrame = 10
	DefaultFrameRate     = 60
	DefaultScale         = 10
)

// Parameters contains file path options.
type Parameters struct {
	Input      string `flag:"i" usage:"input ROM file"`
	Screenshot string `flag:"screenshot" usage:"write a PNG of the final display to this file"`
}

// Flags contains behavior options.
type Flags struct {
	Headless bool   `flag:"headless" usage:"render to the terminal instead of opening a window"`
	List     bool   `flag:"list" usage:"print a disassembly listing of the ROM and exit"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction (implies -debug)"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
	Fault    string `flag:"fault" usage:"fault policy: halt, reset, skip" default:"halt"`
}

// Machine contains the emulation speed options.
type Machine struct {
	TicksPerFrame int    `flag:"speed" usage:"instructions executed per frame" default:"10"`
	FrameRate     int    `flag:"fps" usage:"frames and timer decays per second" default:"60"`
	Frames        uint64 `flag:"frames" usage:"stop after this many frames, 0 runs until interrupted"`
	Scale         int    `flag:"scale" usage:"window and screenshot pixel scale" default:"10"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Machine
}

// New returns a new options instance with default options.
func New() Program {
	return Program{
		Flags: Flags{
			Fault: FaultHalt,
		},
		Machine: Machine{
			TicksPerFrame: DefaultTicksPerFrame,
			FrameRate:     DefaultFrameRate,
			Scale:         DefaultScale,
		},
	}
}

// FrameDuration returns the wall clock duration of a single frame.
func (m Machine) FrameDuration() time.Duration {
	if m.FrameRate <= 0 {
		return time.Second / DefaultFrameRate
	}
	return time.Second / time.Duration(m.FrameRate)
}
