package core

import (
	"fmt"

	"skiff/internal/core/domain"
	"skiff/internal/ports"
)

// GitOpsCommitter hands the mutated overlay files to git for the reconciling
// controller to pick up. It stages exactly the files the mutator touched.
type GitOpsCommitter struct {
	scm ports.Scm
}

func ProvideGitOpsCommitter(scm ports.Scm) *GitOpsCommitter {
	return &GitOpsCommitter{scm: scm}
}

// Push commits and pushes the given overlay files. An empty file list means
// the mutation produced no diff; that is reported as a no-changes success.
func (c *GitOpsCommitter) Push(overlayDir string, files []string, message string) (ports.CommitResult, error) {
	if len(files) == 0 {
		return ports.CommitResult{NoChanges: true}, nil
	}
	result, err := c.scm.CommitAndPush(overlayDir, files, message)
	if err != nil {
		return ports.CommitResult{}, &domain.GitOpsError{Err: err}
	}
	return result, nil
}

// CommitMessage returns the caller's message, or a generated one embedding
// the service, primary tag, and environment.
func CommitMessage(custom, serviceName, tag, environment string) string {
	if custom != "" {
		return custom
	}
	return fmt.Sprintf("deploy: %s %s to %s", serviceName, tag, environment)
}
