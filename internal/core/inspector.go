package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"skiff/internal/core/domain"
	"skiff/internal/ports"

	"gopkg.in/yaml.v3"
)

const managedByLabel = "app.kubernetes.io/managed-by"

// defaultNamespace is assumed for rendered workloads that declare none.
const defaultNamespace = "default"

// renderedResource is the slice of a rendered document the inspector cares
// about.
type renderedResource struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name      string            `yaml:"name"`
		Namespace string            `yaml:"namespace"`
		Labels    map[string]string `yaml:"labels"`
	} `yaml:"metadata"`
}

// Inspector renders the mutated overlay and extracts the deployment target:
// namespace, workload set, primary workload, and managed-by value.
type Inspector struct {
	renderer ports.Renderer
}

func ProvideInspector(renderer ports.Renderer) *Inspector {
	return &Inspector{renderer: renderer}
}

// Inspect renders the overlay and returns the discovered target along with
// the rendered manifest stream for a later apply.
func (i *Inspector) Inspect(overlayDir, serviceName string) (*domain.DeploymentTarget, []byte, error) {
	rendered, err := i.renderer.Render(overlayDir)
	if err != nil {
		return nil, nil, &domain.BuildError{Msg: "failed to render overlay " + overlayDir, Err: err}
	}

	resources, err := decodeRenderedResources(rendered)
	if err != nil {
		return nil, nil, &domain.BuildError{Msg: "rendered overlay is not valid YAML", Err: err}
	}

	var workloads []domain.RenderedWorkload
	var workloadResources []renderedResource
	for _, resource := range resources {
		if resource.Kind != domain.KindDeployment && resource.Kind != domain.KindRollout {
			continue
		}
		namespace := resource.Metadata.Namespace
		if namespace == "" {
			namespace = defaultNamespace
		}
		workloads = append(workloads, domain.RenderedWorkload{
			Kind:      resource.Kind,
			Name:      resource.Metadata.Name,
			Namespace: namespace,
		})
		workloadResources = append(workloadResources, resource)
	}

	primaryIndex, err := selectPrimaryWorkload(workloads, serviceName)
	if err != nil {
		return nil, nil, err
	}
	primary := workloads[primaryIndex]

	for _, workload := range workloads {
		if workload.Namespace != primary.Namespace {
			return nil, nil, domain.NewValidationError(
				"workloads span multiple namespaces: %s %s is in %s, %s %s is in %s",
				primary.Kind, primary.Name, primary.Namespace,
				workload.Kind, workload.Name, workload.Namespace,
			)
		}
	}

	return &domain.DeploymentTarget{
		Namespace: primary.Namespace,
		Primary:   primary,
		Workloads: workloads,
		ManagedBy: workloadResources[primaryIndex].Metadata.Labels[managedByLabel],
	}, rendered, nil
}

// selectPrimaryWorkload picks the workload matching serviceName: an exact
// name match first, else a unique prefix/suffix match to tolerate name
// prefixes added by the overlay. Zero or multiple candidates is an error.
func selectPrimaryWorkload(workloads []domain.RenderedWorkload, serviceName string) (int, error) {
	var exact, fuzzy []int
	for index, workload := range workloads {
		switch {
		case workload.Name == serviceName:
			exact = append(exact, index)
		case strings.HasPrefix(workload.Name, serviceName) || strings.HasSuffix(workload.Name, serviceName):
			fuzzy = append(fuzzy, index)
		}
	}

	candidates := exact
	if len(candidates) == 0 {
		candidates = fuzzy
	}
	if len(candidates) == 0 {
		return 0, domain.NewValidationError(
			"no Deployment or Rollout matching service %q in rendered overlay (found: %s)",
			serviceName, describeWorkloads(workloads),
		)
	}
	if len(candidates) > 1 {
		matched := make([]domain.RenderedWorkload, len(candidates))
		for i, index := range candidates {
			matched[i] = workloads[index]
		}
		return 0, domain.NewValidationError(
			"service %q matches multiple workloads: %s",
			serviceName, describeWorkloads(matched),
		)
	}
	return candidates[0], nil
}

func describeWorkloads(workloads []domain.RenderedWorkload) string {
	if len(workloads) == 0 {
		return "none"
	}
	parts := make([]string, len(workloads))
	for i, workload := range workloads {
		parts[i] = fmt.Sprintf("%s/%s", workload.Kind, workload.Name)
	}
	return strings.Join(parts, ", ")
}

func decodeRenderedResources(rendered []byte) ([]renderedResource, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(rendered))
	var resources []renderedResource
	for {
		var resource renderedResource
		if err := decoder.Decode(&resource); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if resource.Kind == "" {
			continue
		}
		resources = append(resources, resource)
	}
	return resources, nil
}
