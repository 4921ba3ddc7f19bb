package ports

import (
	"context"

	"skiff/internal/core/domain"
)

// WorkloadStatus is one observation of a workload's rollout progress.
type WorkloadStatus struct {
	State   domain.RolloutState
	Message string
}

// ClusterProvider defers cluster client construction until a command path
// actually needs the cluster. GitOps and dry-run deploys never invoke it, so
// they run without a reachable kubeconfig.
type ClusterProvider func() (Cluster, error)

// Cluster is the narrow surface of the Kubernetes API this tool depends on.
type Cluster interface {
	// EnsureNamespace creates the namespace if it does not exist. A create
	// that loses an already-exists race is success.
	EnsureNamespace(ctx context.Context, name string) error
	// Apply submits rendered resource documents to the cluster. Resources
	// applied before a failing one are not rolled back.
	Apply(ctx context.Context, manifests []byte) error
	// WorkloadStatus reads the current rollout state of a Deployment or
	// Rollout. A workload the API server has not yet observed is Pending.
	WorkloadStatus(ctx context.Context, workload domain.RenderedWorkload) (WorkloadStatus, error)
}
