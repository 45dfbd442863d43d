//go:build headless

package window

import (
	"context"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Run returns ErrUnavailable, headless builds can only use the terminal.
func Run(_ context.Context, _ *log.Logger, _ *runner.Runner, _ options.Program) error {
	return ErrUnavailable
}
