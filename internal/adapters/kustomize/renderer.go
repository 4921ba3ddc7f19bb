package kustomize

import (
	"fmt"

	"skiff/internal/ports"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer builds an overlay using the kubectl kustomize CLI. The build
// engine is a black box: it either yields a resource stream or fails.
type Renderer struct {
	commandRunner ports.CommandRunner
}

func ProvideRenderer(commandRunner ports.CommandRunner) *Renderer {
	return &Renderer{commandRunner: commandRunner}
}

func (r *Renderer) Render(overlayDir string) ([]byte, error) {
	output, err := r.commandRunner.Run("kubectl", "kustomize", overlayDir)
	if err != nil {
		return nil, fmt.Errorf("kubectl kustomize failed: %v\n%s", err, string(output))
	}
	return output, nil
}
