// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses the command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(arguments[0], flag.ContinueOnError)
	opts := options.New()
	readOptionFlags(flags, &opts)

	err := flags.Parse(arguments[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "missing ROM file"
	}
	return e.msg
}

// ShowUsage prints the usage information and flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Fault = strings.ToLower(opts.Fault)
	switch opts.Fault {
	case options.FaultHalt, options.FaultReset, options.FaultSkip:
	default:
		return fmt.Errorf("unsupported fault policy: %s. Valid options: %s",
			opts.Fault, strings.Join([]string{options.FaultHalt, options.FaultReset, options.FaultSkip}, ", "))
	}

	if opts.TicksPerFrame <= 0 {
		return fmt.Errorf("invalid speed %d, must be positive", opts.TicksPerFrame)
	}
	if opts.FrameRate <= 0 {
		return fmt.Errorf("invalid frame rate %d, must be positive", opts.FrameRate)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("invalid scale %d, must be positive", opts.Scale)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Screenshot, "screenshot", "", "write a PNG of the final display to this file")
	flags.BoolVar(&opts.Headless, "headless", false, "render to the terminal instead of opening a window")
	flags.BoolVar(&opts.List, "list", false, "print a disassembly listing of the ROM and exit")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction (implies -debug)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.StringVar(&opts.Fault, "fault", opts.Fault, "fault policy when the program fails (halt/reset/skip)")
	flags.IntVar(&opts.TicksPerFrame, "speed", opts.TicksPerFrame, "instructions executed per frame")
	flags.IntVar(&opts.FrameRate, "fps", opts.FrameRate, "frames and timer decays per second")
	flags.Uint64Var(&opts.Frames, "frames", 0, "stop after this many frames, 0 runs until interrupted")
	flags.IntVar(&opts.Scale, "scale", opts.Scale, "window and screenshot pixel scale")
}
