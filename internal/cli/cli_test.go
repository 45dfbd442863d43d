package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"prog", "-headless", "-frames", "120", "pong.ch8"}

	opts, err := ParseFlags()
	assert.NoError(t, err)
	assert.Equal(t, "pong.ch8", opts.Input)
	assert.True(t, opts.Headless)
	assert.Equal(t, uint64(120), opts.Frames)
}

//nolint:funlen // table driven test
func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "defaults",
			args: []string{"prog", "game.ch8"},
			want: func() options.Program {
				opts := options.New()
				opts.Input = "game.ch8"
				return opts
			}(),
		},
		{
			name: "machine flags",
			args: []string{"prog", "-speed", "20", "-fps", "30", "-scale", "4", "game.ch8"},
			want: func() options.Program {
				opts := options.New()
				opts.Input = "game.ch8"
				opts.TicksPerFrame = 20
				opts.FrameRate = 30
				opts.Scale = 4
				return opts
			}(),
		},
		{
			name: "input flag and policy",
			args: []string{"prog", "-i", "game.ch8", "-fault", "SKIP", "-trace"},
			want: func() options.Program {
				opts := options.New()
				opts.Input = "game.ch8"
				opts.Fault = options.FaultSkip
				opts.Trace = true
				return opts
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		usageError bool
		errContain string
	}{
		{"missing rom", []string{"prog"}, true, "missing ROM file"},
		{"argument after rom", []string{"prog", "game.ch8", "-q"}, true, "after ROM file"},
		{"invalid fault policy", []string{"prog", "-fault", "retry", "game.ch8"}, false, "unsupported fault policy"},
		{"invalid speed", []string{"prog", "-speed", "0", "game.ch8"}, false, "invalid speed"},
		{"invalid scale", []string{"prog", "-scale", "-1", "game.ch8"}, false, "invalid scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args)
			assert.Error(t, err)
			assert.ErrorContains(t, err, tt.errContain)

			var usageErr *UsageError
			assert.Equal(t, tt.usageError, errors.As(err, &usageErr))
		})
	}
}
