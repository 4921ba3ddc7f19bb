package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"skiff/internal/core/domain"
	"skiff/internal/ports"

	"gopkg.in/yaml.v3"
)

// Labels and annotations stamped onto the overlay by the mutator.
const (
	versionLabel          = "app.kubernetes.io/version"
	deployedByAnnotation  = "skiff.dev/deployed-by"
	runIDAnnotation       = "skiff.dev/run-id"
	environmentAnnotation = "skiff.dev/environment"
	deployedAtAnnotation  = "skiff.dev/deployed-at"
)

var kustomizationNames = []string{"kustomization.yaml", "kustomization.yml", "Kustomization"}

// Mutation is the accumulated set of overlay edits for one run. Timestamp is
// supplied by the caller so that reapplying the same mutation is a no-op.
type Mutation struct {
	Images      []domain.ImageRef
	EnvPatches  domain.EnvPatchSet
	ServiceName string
	Environment string
	Actor       string
	RunID       string
	Timestamp   time.Time
}

// MutationResult lists the overlay files whose content actually changed,
// relative to the overlay directory. Empty when the overlay already carried
// the mutation.
type MutationResult struct {
	ChangedFiles []string
}

// Mutator applies image substitutions, the version label, tracking
// annotations, and env patches to a kustomize overlay on disk. It touches
// overlay files only; it never reaches the cluster or the git remote.
type Mutator struct {
	fileSystem ports.FileSystem
}

func ProvideMutator(fileSystem ports.FileSystem) *Mutator {
	return &Mutator{fileSystem: fileSystem}
}

func (m *Mutator) Apply(overlayDir string, mutation Mutation) (*MutationResult, error) {
	name, doc, original, err := m.loadKustomization(overlayDir)
	if err != nil {
		return nil, err
	}

	applyImages(doc, mutation.Images)
	applyVersionLabel(doc, mutation.Images[0].NewTag)
	applyAnnotations(doc, mutation)

	result := &MutationResult{}
	changed, err := m.writeIfChanged(filepath.Join(overlayDir, name), original, doc)
	if err != nil {
		return nil, err
	}
	if changed {
		result.ChangedFiles = append(result.ChangedFiles, name)
	}

	envFiles, err := m.applyEnvPatches(overlayDir, doc, mutation.EnvPatches)
	if err != nil {
		return nil, err
	}
	result.ChangedFiles = append(result.ChangedFiles, envFiles...)

	return result, nil
}

// loadKustomization finds and parses the overlay's kustomization file,
// returning its file name, parsed document, and raw content.
func (m *Mutator) loadKustomization(overlayDir string) (string, map[string]any, []byte, error) {
	for _, name := range kustomizationNames {
		path := filepath.Join(overlayDir, name)
		exists, err := m.fileSystem.FileExists(path)
		if err != nil {
			return "", nil, nil, err
		}
		if !exists {
			continue
		}

		raw, err := m.fileSystem.ReadFile(path)
		if err != nil {
			return "", nil, nil, err
		}
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return "", nil, nil, &domain.BuildError{Msg: fmt.Sprintf("overlay %s is not valid YAML", name), Err: err}
		}
		if doc == nil {
			doc = map[string]any{}
		}
		return name, doc, raw, nil
	}
	return "", nil, nil, domain.NewBuildError("no kustomization file found in %s", overlayDir)
}

// applyImages upserts one substitution per resolved image into the
// kustomization's images field, replacing an existing override for the same
// repository name.
func applyImages(doc map[string]any, images []domain.ImageRef) {
	list, _ := doc["images"].([]any)
	for _, ref := range images {
		found := false
		for _, item := range list {
			entry, ok := item.(map[string]any)
			if !ok || entry["name"] != ref.Name {
				continue
			}
			entry["newTag"] = ref.NewTag
			found = true
		}
		if !found {
			list = append(list, map[string]any{"name": ref.Name, "newTag": ref.NewTag})
		}
	}
	doc["images"] = list
}

// applyVersionLabel upserts the version label, keyed on the primary image's
// tag, into the first labels entry carrying a pairs map.
func applyVersionLabel(doc map[string]any, tag string) {
	list, _ := doc["labels"].([]any)
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if pairs, ok := entry["pairs"].(map[string]any); ok {
			pairs[versionLabel] = tag
			return
		}
	}
	doc["labels"] = append(list, map[string]any{"pairs": map[string]any{versionLabel: tag}})
}

func applyAnnotations(doc map[string]any, mutation Mutation) {
	annotations, _ := doc["commonAnnotations"].(map[string]any)
	if annotations == nil {
		annotations = map[string]any{}
	}
	annotations[deployedByAnnotation] = mutation.Actor
	annotations[runIDAnnotation] = mutation.RunID
	annotations[environmentAnnotation] = mutation.Environment
	annotations[deployedAtAnnotation] = mutation.Timestamp.UTC().Format(time.RFC3339)
	doc["commonAnnotations"] = annotations
}

// applyEnvPatches upserts env variables into the containers matched by each
// selector across the overlay's patch and resource files. A selector that
// matches no container at all is a BuildError rather than a silent no-op.
func (m *Mutator) applyEnvPatches(overlayDir string, doc map[string]any, patches domain.EnvPatchSet) ([]string, error) {
	if len(patches) == 0 {
		return nil, nil
	}

	selectors := make([]string, 0, len(patches))
	for selector := range patches {
		selectors = append(selectors, selector)
	}
	slices.Sort(selectors)

	matched := make(map[string]bool, len(patches))
	var changedFiles []string

	for _, rel := range patchFileCandidates(doc) {
		path := filepath.Join(overlayDir, rel)
		exists, err := m.fileSystem.FileExists(path)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}

		raw, err := m.fileSystem.ReadFile(path)
		if err != nil {
			return nil, err
		}
		docs, err := decodeYAMLDocuments(raw)
		if err != nil {
			return nil, &domain.BuildError{Msg: fmt.Sprintf("overlay file %s is not valid YAML", rel), Err: err}
		}

		changed := false
		for _, fileDoc := range docs {
			for _, container := range findContainers(fileDoc) {
				name, _ := container["name"].(string)
				for _, selector := range selectors {
					target := envSelectorContainer(selector)
					if target != envSelectorWildcard && target != name {
						continue
					}
					matched[selector] = true
					if upsertEnv(container, patches[selector]) {
						changed = true
					}
				}
			}
		}

		if changed {
			out, err := encodeYAMLDocuments(docs)
			if err != nil {
				return nil, err
			}
			if err := m.fileSystem.WriteFile(path, out, ports.ReadAllWriteOwner); err != nil {
				return nil, err
			}
			changedFiles = append(changedFiles, rel)
		}
	}

	for _, selector := range selectors {
		if !matched[selector] {
			return nil, domain.NewBuildError("env patch selector %q does not match any container in the overlay", selector)
		}
	}
	return changedFiles, nil
}

// patchFileCandidates lists the overlay-local YAML files that may define
// containers: patch entries with a path, strategic merge patch files, and
// plain file resources.
func patchFileCandidates(doc map[string]any) []string {
	var out []string
	if list, ok := doc["patches"].([]any); ok {
		for _, item := range list {
			if entry, ok := item.(map[string]any); ok {
				if path, ok := entry["path"].(string); ok && path != "" {
					out = append(out, path)
				}
			}
		}
	}
	if list, ok := doc["patchesStrategicMerge"].([]any); ok {
		for _, item := range list {
			if path, ok := item.(string); ok && path != "" {
				out = append(out, path)
			}
		}
	}
	if list, ok := doc["resources"].([]any); ok {
		for _, item := range list {
			path, ok := item.(string)
			if !ok || strings.Contains(path, "://") {
				continue
			}
			if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
				out = append(out, path)
			}
		}
	}
	return out
}

// findContainers walks a decoded YAML document and collects every entry of a
// containers, initContainers, or ephemeralContainers list that carries a name.
func findContainers(node any) []map[string]any {
	var out []map[string]any
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			switch key {
			case "containers", "initContainers", "ephemeralContainers":
				list, ok := child.([]any)
				if !ok {
					continue
				}
				for _, item := range list {
					if container, ok := item.(map[string]any); ok {
						if _, named := container["name"]; named {
							out = append(out, container)
						}
					}
				}
			default:
				out = append(out, findContainers(child)...)
			}
		}
	case []any:
		for _, item := range v {
			out = append(out, findContainers(item)...)
		}
	}
	return out
}

// upsertEnv overlays the given variables onto a container's env list:
// existing names are overwritten, new names appended, unrelated names left
// untouched. Returns whether anything changed.
func upsertEnv(container map[string]any, vars map[string]string) bool {
	env, _ := container["env"].([]any)

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	changed := false
	for _, name := range names {
		value := vars[name]
		found := false
		for _, item := range env {
			entry, ok := item.(map[string]any)
			if !ok || entry["name"] != name {
				continue
			}
			found = true
			if entry["value"] != value {
				entry["value"] = value
				changed = true
			}
		}
		if !found {
			env = append(env, map[string]any{"name": name, "value": value})
			changed = true
		}
	}
	if changed {
		container["env"] = env
	}
	return changed
}

// writeIfChanged serializes the mutated document and writes it only when the
// content differs from what is already on disk.
func (m *Mutator) writeIfChanged(path string, original []byte, doc map[string]any) (bool, error) {
	out, err := encodeYAMLDocuments([]map[string]any{doc})
	if err != nil {
		return false, err
	}
	if bytes.Equal(out, original) {
		return false, nil
	}
	if err := m.fileSystem.WriteFile(path, out, ports.ReadAllWriteOwner); err != nil {
		return false, err
	}
	return true, nil
}

func decodeYAMLDocuments(raw []byte) ([]map[string]any, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	var docs []map[string]any
	for {
		var doc map[string]any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func encodeYAMLDocuments(docs []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	for _, doc := range docs {
		if err := encoder.Encode(doc); err != nil {
			return nil, err
		}
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
