package core

import "skiff/internal/core/domain"

// ParseDeployMode validates a caller-supplied mode string.
func ParseDeployMode(s string) (domain.DeployMode, error) {
	switch mode := domain.DeployMode(s); mode {
	case domain.ModeAuto, domain.ModeGitOps, domain.ModeKubectl:
		return mode, nil
	default:
		return "", domain.NewValidationError("invalid mode %q: want auto, gitops, or kubectl", s)
	}
}

// ResolveMode turns the caller's mode input into a concrete delivery mode.
// An explicit gitops/kubectl override always wins; under auto, a workload
// managed by Argo CD selects gitops when detection is enabled. The result is
// never auto.
func ResolveMode(force domain.DeployMode, detectGitOps bool, managedBy string) domain.DeployMode {
	if force == domain.ModeGitOps || force == domain.ModeKubectl {
		return force
	}
	if detectGitOps && managedBy == domain.ManagedByArgoCD {
		return domain.ModeGitOps
	}
	return domain.ModeKubectl
}
