package domain

import "fmt"

// ValidationError reports bad or contradictory caller input. It is raised
// before any external side effect.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// BuildError reports an overlay that cannot be mutated or rendered.
type BuildError struct {
	Msg string
	Err error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("build: %s: %v", e.Msg, e.Err)
	}
	return "build: " + e.Msg
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func NewBuildError(format string, args ...any) *BuildError {
	return &BuildError{Msg: fmt.Sprintf(format, args...)}
}

// GitOpsError reports a failed stage, commit, or push. No retry or rebase is
// attempted; a rejected push surfaces here as-is.
type GitOpsError struct {
	Err error
}

func (e *GitOpsError) Error() string {
	return fmt.Sprintf("gitops: %v", e.Err)
}

func (e *GitOpsError) Unwrap() error {
	return e.Err
}

// KubectlError reports a cluster apply or status read rejected by the API
// server. Resources applied before the failing one are not rolled back.
type KubectlError struct {
	Err error
}

func (e *KubectlError) Error() string {
	return fmt.Sprintf("kubectl: %v", e.Err)
}

func (e *KubectlError) Unwrap() error {
	return e.Err
}

// RolloutError reports a rollout wait that ended in Failed or TimedOut,
// carrying the last observed workload status for diagnosis.
type RolloutError struct {
	State      RolloutState
	LastStatus string
}

func (e *RolloutError) Error() string {
	if e.LastStatus == "" {
		return fmt.Sprintf("rollout %s", e.State)
	}
	return fmt.Sprintf("rollout %s: %s", e.State, e.LastStatus)
}
