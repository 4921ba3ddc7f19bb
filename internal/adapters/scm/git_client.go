package scm

import (
	"fmt"
	"strings"

	"skiff/internal/ports"
)

var _ ports.Scm = (*GitClient)(nil)

// isPushRejection checks if the error output indicates the remote advanced
// under us (non-fast-forward), as opposed to an authentication failure.
func isPushRejection(output string) bool {
	return strings.Contains(output, "[rejected]") ||
		strings.Contains(output, "non-fast-forward") ||
		strings.Contains(output, "fetch first")
}

// isAuthError checks if the error output indicates missing push permission.
func isAuthError(output string) bool {
	return strings.Contains(output, "Permission denied") ||
		strings.Contains(output, "Authentication failed") ||
		strings.Contains(output, "could not read Username")
}

// wrapPushError classifies a failed push. No rebase or retry is attempted;
// concurrent runs against the same branch are an operational concern.
func wrapPushError(output []byte, err error) error {
	outputStr := string(output)
	if isPushRejection(outputStr) {
		return fmt.Errorf("push rejected: the remote branch advanced since checkout.\n\n"+
			"Another deployment may have pushed to the same branch. Re-run to retry "+
			"against the new head.\n\nOriginal error: %s", outputStr)
	}
	if isAuthError(outputStr) {
		return fmt.Errorf("push failed: no permission to push to the remote.\n\n"+
			"Original error: %s", outputStr)
	}
	return fmt.Errorf("failed to push: %v\n%s", err, outputStr)
}

// GitClient commits and pushes overlay changes using the git CLI, run from
// inside the overlay directory of the already checked-out repository.
type GitClient struct {
	commandRunner ports.CommandRunner
}

func ProvideGitClient(commandRunner ports.CommandRunner) *GitClient {
	return &GitClient{commandRunner: commandRunner}
}

// CommitAndPush stages exactly the given paths, commits with the message, and
// pushes the current branch. When the paths carry no diff it reports
// NoChanges without committing.
func (g *GitClient) CommitAndPush(repoDir string, paths []string, message string) (ports.CommitResult, error) {
	changed, err := g.hasChanges(repoDir, paths)
	if err != nil {
		return ports.CommitResult{}, err
	}
	if !changed {
		return ports.CommitResult{NoChanges: true}, nil
	}

	addArgs := append([]string{"add", "--"}, paths...)
	output, err := g.commandRunner.RunInDir(repoDir, "git", addArgs...)
	if err != nil {
		return ports.CommitResult{}, fmt.Errorf("failed to stage overlay files: %v\n%s", err, string(output))
	}

	output, err = g.commandRunner.RunInDir(repoDir, "git", "commit", "-m", message)
	if err != nil {
		return ports.CommitResult{}, fmt.Errorf("failed to commit: %v\n%s", err, string(output))
	}

	output, err = g.commandRunner.RunInDir(repoDir, "git", "push", "origin", "HEAD")
	if err != nil {
		return ports.CommitResult{}, wrapPushError(output, err)
	}

	revision, err := g.headRevision(repoDir)
	if err != nil {
		return ports.CommitResult{}, err
	}
	return ports.CommitResult{Revision: revision}, nil
}

func (g *GitClient) hasChanges(repoDir string, paths []string) (bool, error) {
	statusArgs := append([]string{"status", "--porcelain", "--"}, paths...)
	output, err := g.commandRunner.RunInDir(repoDir, "git", statusArgs...)
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %v\n%s", err, string(output))
	}
	return strings.TrimSpace(string(output)) != "", nil
}

func (g *GitClient) headRevision(repoDir string) (string, error) {
	output, err := g.commandRunner.RunInDir(repoDir, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %v\n%s", err, string(output))
	}
	return strings.TrimSpace(string(output)), nil
}
