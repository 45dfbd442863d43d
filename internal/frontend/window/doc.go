// Package window runs the CHIP-8 machine in a desktop window. The window
// frontend is excluded from builds using the headless tag.
package window

import "errors"

// ErrUnavailable is returned by Run in builds without window support.
var ErrUnavailable = errors.New("window frontend is not available in this build")
