package ports

import (
	"context"
	"io"
)

// CommandRunner executes external tools (git, kubectl) and returns their
// combined output. RunWithStdin honors the context: cancelling it kills the
// child process.
type CommandRunner interface {
	Run(name string, args ...string) ([]byte, error)
	RunInDir(dir, name string, args ...string) ([]byte, error)
	RunWithStdin(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)
}
