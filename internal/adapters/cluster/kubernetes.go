package cluster

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"skiff/internal/core/domain"
	"skiff/internal/ports"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

var _ ports.Cluster = (*Kubernetes)(nil)

// rolloutResource is the Argo Rollouts progressive-delivery workload.
var rolloutResource = schema.GroupVersionResource{
	Group:    "argoproj.io",
	Version:  "v1alpha1",
	Resource: "rollouts",
}

// Kubernetes talks to the live cluster: namespace provisioning and workload
// status through client-go, resource application through the kubectl CLI.
type Kubernetes struct {
	clientSet     kubernetes.Interface
	dynamicClient dynamic.Interface
	commandRunner ports.CommandRunner
}

// ProvideClusterProvider defers kubeconfig discovery and client construction
// until the kubectl delivery path runs. GitOps-only environments (CI runners
// with git credentials but no cluster access) deploy without it ever firing.
func ProvideClusterProvider(commandRunner ports.CommandRunner) ports.ClusterProvider {
	return func() (ports.Cluster, error) {
		return ProvideKubernetes(commandRunner)
	}
}

func ProvideKubernetes(commandRunner ports.CommandRunner) (*Kubernetes, error) {
	config, err := buildRestConfig()
	if err != nil {
		return nil, err
	}
	clientSet, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic kubernetes client: %w", err)
	}
	return newKubernetes(clientSet, dynamicClient, commandRunner), nil
}

func newKubernetes(clientSet kubernetes.Interface, dynamicClient dynamic.Interface, commandRunner ports.CommandRunner) *Kubernetes {
	return &Kubernetes{
		clientSet:     clientSet,
		dynamicClient: dynamicClient,
		commandRunner: commandRunner,
	}
}

// buildRestConfig discovers cluster configuration from KUBECONFIG, the
// default kubeconfig location, or the in-cluster service account.
func buildRestConfig() (*rest.Config, error) {
	kubeconfig := os.Getenv("KUBECONFIG")
	if kubeconfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		candidate := filepath.Join(home, ".kube", "config")
		if _, err := os.Stat(candidate); err == nil {
			kubeconfig = candidate
		}
	}

	if kubeconfig == "" {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
		return config, nil
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
	}
	return config, nil
}

// EnsureNamespace creates the namespace if absent. Losing an already-exists
// race to a concurrent creator is success.
func (k *Kubernetes) EnsureNamespace(ctx context.Context, name string) error {
	_, err := k.clientSet.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to check namespace %s: %w", name, err)
	}

	namespace := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
	_, err = k.clientSet.CoreV1().Namespaces().Create(ctx, namespace, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	return nil
}

// Apply submits the rendered manifest stream through kubectl. Server-side
// validation failures surface as-is; earlier resources stay applied.
// Cancelling the context kills the kubectl process.
func (k *Kubernetes) Apply(ctx context.Context, manifests []byte) error {
	output, err := k.commandRunner.RunWithStdin(ctx, bytes.NewReader(manifests), "kubectl", "apply", "-f", "-")
	if err != nil {
		return fmt.Errorf("kubectl apply failed: %v\n%s", err, string(output))
	}
	return nil
}

func (k *Kubernetes) WorkloadStatus(ctx context.Context, workload domain.RenderedWorkload) (ports.WorkloadStatus, error) {
	switch workload.Kind {
	case domain.KindDeployment:
		return k.deploymentStatus(ctx, workload)
	case domain.KindRollout:
		return k.rolloutStatus(ctx, workload)
	default:
		return ports.WorkloadStatus{}, fmt.Errorf("unsupported workload kind %q", workload.Kind)
	}
}

// deploymentStatus mirrors the kubectl rollout status view of a Deployment.
func (k *Kubernetes) deploymentStatus(ctx context.Context, workload domain.RenderedWorkload) (ports.WorkloadStatus, error) {
	deployment, err := k.clientSet.AppsV1().Deployments(workload.Namespace).Get(ctx, workload.Name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return ports.WorkloadStatus{
				State:   domain.RolloutPending,
				Message: fmt.Sprintf("deployment %s not observed yet", workload.Name),
			}, nil
		}
		return ports.WorkloadStatus{}, err
	}

	status := deployment.Status
	if status.ObservedGeneration < deployment.Generation {
		return ports.WorkloadStatus{
			State:   domain.RolloutPending,
			Message: "waiting for rollout to be observed",
		}, nil
	}

	for _, condition := range status.Conditions {
		if condition.Type == appsv1.DeploymentProgressing && condition.Reason == "ProgressDeadlineExceeded" {
			return ports.WorkloadStatus{
				State:   domain.RolloutFailed,
				Message: fmt.Sprintf("progress deadline exceeded: %s", condition.Message),
			}, nil
		}
		if condition.Type == appsv1.DeploymentReplicaFailure && condition.Status == corev1.ConditionTrue {
			return ports.WorkloadStatus{
				State:   domain.RolloutFailed,
				Message: fmt.Sprintf("replica failure: %s", condition.Message),
			}, nil
		}
	}

	desired := int32(1)
	if deployment.Spec.Replicas != nil {
		desired = *deployment.Spec.Replicas
	}
	switch {
	case status.UpdatedReplicas < desired:
		return ports.WorkloadStatus{
			State:   domain.RolloutProgressing,
			Message: fmt.Sprintf("%d of %d replicas updated", status.UpdatedReplicas, desired),
		}, nil
	case status.Replicas > status.UpdatedReplicas:
		return ports.WorkloadStatus{
			State:   domain.RolloutProgressing,
			Message: fmt.Sprintf("%d old replicas terminating", status.Replicas-status.UpdatedReplicas),
		}, nil
	case status.AvailableReplicas < desired:
		return ports.WorkloadStatus{
			State:   domain.RolloutProgressing,
			Message: fmt.Sprintf("%d of %d replicas available", status.AvailableReplicas, desired),
		}, nil
	}
	return ports.WorkloadStatus{
		State:   domain.RolloutSucceeded,
		Message: fmt.Sprintf("%d replicas available", status.AvailableReplicas),
	}, nil
}

// rolloutStatus reads the phase of an Argo Rollout; success requires the
// rollout to report fully promoted (Healthy).
func (k *Kubernetes) rolloutStatus(ctx context.Context, workload domain.RenderedWorkload) (ports.WorkloadStatus, error) {
	rollout, err := k.dynamicClient.Resource(rolloutResource).Namespace(workload.Namespace).Get(ctx, workload.Name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return ports.WorkloadStatus{
				State:   domain.RolloutPending,
				Message: fmt.Sprintf("rollout %s not observed yet", workload.Name),
			}, nil
		}
		return ports.WorkloadStatus{}, err
	}

	phase, _, err := unstructured.NestedString(rollout.Object, "status", "phase")
	if err != nil {
		return ports.WorkloadStatus{}, fmt.Errorf("failed to read rollout phase: %w", err)
	}
	message, _, _ := unstructured.NestedString(rollout.Object, "status", "message")

	switch phase {
	case "Healthy":
		return ports.WorkloadStatus{State: domain.RolloutSucceeded, Message: "rollout fully promoted"}, nil
	case "Degraded", "Error":
		return ports.WorkloadStatus{
			State:   domain.RolloutFailed,
			Message: fmt.Sprintf("rollout degraded: %s", message),
		}, nil
	case "Progressing", "Paused":
		return ports.WorkloadStatus{
			State:   domain.RolloutProgressing,
			Message: fmt.Sprintf("rollout %s: %s", phase, message),
		}, nil
	default:
		return ports.WorkloadStatus{
			State:   domain.RolloutPending,
			Message: "rollout phase not reported yet",
		}, nil
	}
}
