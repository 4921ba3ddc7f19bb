package handler

import (
	"skiff/internal/core"
	"skiff/internal/core/domain"
)

// InspectCommandHandler renders an overlay without mutating it and reports
// what a deployment would target.
type InspectCommandHandler struct {
	inspector *core.Inspector
}

func ProvideInspectCommandHandler(inspector *core.Inspector) InspectCommandHandler {
	return InspectCommandHandler{inspector: inspector}
}

// Handle returns the discovered target and the mode auto-detection would
// pick for it.
func (h *InspectCommandHandler) Handle(overlayDir, serviceName string) (*domain.DeploymentTarget, domain.DeployMode, error) {
	if overlayDir == "" {
		return nil, "", domain.NewValidationError("overlay directory is required")
	}
	if serviceName == "" {
		return nil, "", domain.NewValidationError("service name is required")
	}

	target, _, err := h.inspector.Inspect(overlayDir, serviceName)
	if err != nil {
		return nil, "", err
	}
	mode := core.ResolveMode(domain.ModeAuto, true, target.ManagedBy)
	return target, mode, nil
}
