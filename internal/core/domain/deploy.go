package domain

// ImageRef is a single image substitution: a repository name (no tag) and the
// tag to pin it to.
type ImageRef struct {
	Name   string `json:"name"`
	NewTag string `json:"newTag"`
}

// EnvPatchSet maps a container selector (e.g. "container.env" or "app.env") to
// the environment variables to upsert on the matched containers.
type EnvPatchSet map[string]map[string]string

// DeployMode is the delivery mechanism for a deployment.
type DeployMode string

const (
	// ModeAuto defers the choice to managed-by detection. It never survives
	// past mode resolution.
	ModeAuto    DeployMode = "auto"
	ModeGitOps  DeployMode = "gitops"
	ModeKubectl DeployMode = "kubectl"
)

// ManagedByArgoCD is the app.kubernetes.io/managed-by value that triggers
// GitOps auto-detection. The comparison is case-sensitive.
const ManagedByArgoCD = "argocd"

// Workload kinds recognized by the inspector and waited on by the waiter.
const (
	KindDeployment = "Deployment"
	KindRollout    = "Rollout"
)

// RenderedWorkload is one Deployment or Rollout extracted from the rendered
// overlay.
type RenderedWorkload struct {
	Kind      string
	Name      string
	Namespace string
}

// DeploymentTarget is what the inspector learns about the rendered overlay.
type DeploymentTarget struct {
	Namespace string
	Primary   RenderedWorkload
	Workloads []RenderedWorkload
	// ManagedBy holds the primary workload's app.kubernetes.io/managed-by
	// label value, empty when the label is absent.
	ManagedBy string
}

// RolloutState describes where a workload is in its rollout.
type RolloutState string

const (
	RolloutPending     RolloutState = "Pending"
	RolloutProgressing RolloutState = "Progressing"
	RolloutSucceeded   RolloutState = "Succeeded"
	RolloutFailed      RolloutState = "Failed"
	RolloutTimedOut    RolloutState = "TimedOut"
)

// DeployOutputs is the result surface of a successful pipeline run.
type DeployOutputs struct {
	Mode       DeployMode
	Namespace  string
	Deployment string
	ManagedBy  string
	// Revision is the commit pushed in gitops mode, empty otherwise or when
	// the mutation produced no diff.
	Revision string
	// NoChanges is set in gitops mode when there was nothing to commit.
	NoChanges bool
}
