package encoding

import (
	"context"
	"os/exec"
)

// commandContext builds encoder processes. It is a package-level variable so
// tests can observe the context handed to the process.
var commandContext = exec.CommandContext

// SetCommandContextForTests overrides process construction during tests.
func SetCommandContextForTests(fn func(context.Context, string, ...string) *exec.Cmd) func() {
	previous := commandContext
	commandContext = fn
	return func() {
		commandContext = previous
	}
}
