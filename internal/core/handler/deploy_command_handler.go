package handler

import (
	"context"
	"fmt"
	"time"

	"skiff/internal/cli/output"
	"skiff/internal/core"
	"skiff/internal/core/domain"
	"skiff/internal/ports"

	"github.com/google/uuid"
)

// DeployRequest carries the caller's inputs for one deployment run. Run
// metadata travels here explicitly, never as ambient global state.
type DeployRequest struct {
	OverlayDir      string
	ServiceName     string
	Environment     string
	Image           string
	Tag             string
	ImagesJSON      string
	EnvPatchesJSON  string
	Actor           string
	RunID           string
	ForceMode       string
	DetectGitOps    bool
	CommitMessage   string
	CreateNamespace bool
	WaitTimeout     time.Duration
	DryRun          bool
}

// DeployCommandHandler drives the pipeline: mutate the overlay, inspect the
// rendered result, decide the delivery mode, then commit-and-push or
// apply-and-wait. Phases run strictly in order; the first failure is fatal.
// The cluster client is constructed lazily, only when the kubectl path runs,
// so gitops and dry-run deploys never require a kubeconfig.
type DeployCommandHandler struct {
	mutator         *core.Mutator
	inspector       *core.Inspector
	committer       *core.GitOpsCommitter
	clusterProvider ports.ClusterProvider
	clock           func() time.Time
}

func ProvideDeployCommandHandler(
	mutator *core.Mutator,
	inspector *core.Inspector,
	committer *core.GitOpsCommitter,
	clusterProvider ports.ClusterProvider,
) DeployCommandHandler {
	return DeployCommandHandler{
		mutator:         mutator,
		inspector:       inspector,
		committer:       committer,
		clusterProvider: clusterProvider,
		clock:           time.Now,
	}
}

func (h *DeployCommandHandler) Handle(ctx context.Context, request DeployRequest) (*domain.DeployOutputs, error) {
	if request.OverlayDir == "" {
		return nil, domain.NewValidationError("overlay directory is required")
	}
	if request.ServiceName == "" {
		return nil, domain.NewValidationError("service name is required")
	}
	if request.Environment == "" {
		return nil, domain.NewValidationError("environment is required")
	}
	force, err := core.ParseDeployMode(request.ForceMode)
	if err != nil {
		return nil, err
	}

	images, err := core.ResolveImages(request.Image, request.Tag, request.ImagesJSON)
	if err != nil {
		return nil, err
	}
	envPatches, err := core.ResolveEnvPatches(request.EnvPatchesJSON)
	if err != nil {
		return nil, err
	}

	runID := request.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	output.PrintStep(fmt.Sprintf("Mutating overlay %s", request.OverlayDir))
	mutation := core.Mutation{
		Images:      images,
		EnvPatches:  envPatches,
		ServiceName: request.ServiceName,
		Environment: request.Environment,
		Actor:       request.Actor,
		RunID:       runID,
		Timestamp:   h.clock().UTC(),
	}
	mutated, err := h.mutator.Apply(request.OverlayDir, mutation)
	if err != nil {
		return nil, err
	}

	output.PrintStep("Rendering and inspecting overlay")
	target, manifests, err := h.inspector.Inspect(request.OverlayDir, request.ServiceName)
	if err != nil {
		return nil, err
	}

	mode := core.ResolveMode(force, request.DetectGitOps, target.ManagedBy)
	outputs := &domain.DeployOutputs{
		Mode:       mode,
		Namespace:  target.Namespace,
		Deployment: target.Primary.Name,
		ManagedBy:  target.ManagedBy,
	}

	if request.DryRun {
		output.PrintInfo(fmt.Sprintf("Dry run: would deploy %s %s/%s via %s",
			target.Primary.Kind, target.Namespace, target.Primary.Name, mode))
		return outputs, nil
	}

	switch mode {
	case domain.ModeGitOps:
		output.PrintStep("Committing overlay changes")
		message := core.CommitMessage(request.CommitMessage, request.ServiceName, images[0].NewTag, request.Environment)
		commit, err := h.committer.Push(request.OverlayDir, mutated.ChangedFiles, message)
		if err != nil {
			return nil, err
		}
		outputs.Revision = commit.Revision
		outputs.NoChanges = commit.NoChanges
		if commit.NoChanges {
			output.PrintInfo("No changes to commit; overlay already up to date")
		}

	case domain.ModeKubectl:
		cluster, err := h.clusterProvider()
		if err != nil {
			return nil, &domain.KubectlError{Err: err}
		}

		if request.CreateNamespace {
			output.PrintStep(fmt.Sprintf("Ensuring namespace %s", target.Namespace))
			if err := cluster.EnsureNamespace(ctx, target.Namespace); err != nil {
				return nil, &domain.KubectlError{Err: err}
			}
		}

		output.PrintStep("Applying rendered resources")
		if err := cluster.Apply(ctx, manifests); err != nil {
			return nil, &domain.KubectlError{Err: err}
		}

		output.PrintStep(fmt.Sprintf("Waiting for %s %s/%s to roll out",
			target.Primary.Kind, target.Namespace, target.Primary.Name))
		waiter := core.ProvideRolloutWaiter(cluster)
		if err := waiter.Wait(ctx, target.Primary, request.WaitTimeout); err != nil {
			return nil, err
		}
	}

	return outputs, nil
}
