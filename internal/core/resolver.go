package core

import (
	"encoding/json"
	"strings"

	"skiff/internal/core/domain"
)

// ResolveImages normalizes the two image input forms into one ordered list of
// substitutions. Exactly one of image/tag or imagesJSON may be supplied. The
// first entry is the primary image: its tag drives the version label and the
// generated commit message.
func ResolveImages(image, tag, imagesJSON string) ([]domain.ImageRef, error) {
	hasPair := image != "" || tag != ""
	hasList := imagesJSON != ""
	if hasPair && hasList {
		return nil, domain.NewValidationError("image/tag and images-json are mutually exclusive")
	}
	if !hasPair && !hasList {
		return nil, domain.NewValidationError("nothing to deploy: supply image and tag, or images-json")
	}

	if hasPair {
		if image == "" || tag == "" {
			return nil, domain.NewValidationError("image and tag must both be set")
		}
		return []domain.ImageRef{{Name: image, NewTag: tag}}, nil
	}

	var refs []domain.ImageRef
	if err := json.Unmarshal([]byte(imagesJSON), &refs); err != nil {
		return nil, domain.NewValidationError("images-json is not a JSON array of {name, newTag} objects: %v", err)
	}
	if len(refs) == 0 {
		return nil, domain.NewValidationError("images-json is empty")
	}
	seen := make(map[string]bool, len(refs))
	for i, ref := range refs {
		if ref.Name == "" {
			return nil, domain.NewValidationError("images-json entry %d is missing name", i)
		}
		if ref.NewTag == "" {
			return nil, domain.NewValidationError("images-json entry %d is missing newTag", i)
		}
		if seen[ref.Name] {
			return nil, domain.NewValidationError("images-json entry %d duplicates image %s", i, ref.Name)
		}
		seen[ref.Name] = true
	}
	return refs, nil
}

// ResolveEnvPatches parses the env-patches JSON into selector -> variable ->
// value. Selectors must take the form <container>.env, where <container> is a
// container name or the literal "container" to match every container.
func ResolveEnvPatches(envPatchesJSON string) (domain.EnvPatchSet, error) {
	if envPatchesJSON == "" {
		return domain.EnvPatchSet{}, nil
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal([]byte(envPatchesJSON), &raw); err != nil {
		return nil, domain.NewValidationError("env-patches is not a JSON object mapping selectors to objects: %v", err)
	}

	patches := make(domain.EnvPatchSet, len(raw))
	for selector, vars := range raw {
		if envSelectorContainer(selector) == "" {
			return nil, domain.NewValidationError("env-patches selector %q must take the form <container>.env", selector)
		}
		resolved := make(map[string]string, len(vars))
		for name, value := range vars {
			s, ok := value.(string)
			if !ok {
				return nil, domain.NewValidationError("env-patches value for %s.%s must be a string", selector, name)
			}
			resolved[name] = s
		}
		patches[selector] = resolved
	}
	return patches, nil
}

// envSelectorContainer extracts the container part of a <container>.env
// selector, empty when the selector is malformed.
func envSelectorContainer(selector string) string {
	container, ok := strings.CutSuffix(selector, ".env")
	if !ok || container == "" || strings.Contains(container, ".") {
		return ""
	}
	return container
}

// envSelectorWildcard matches every container in the overlay.
const envSelectorWildcard = "container"
