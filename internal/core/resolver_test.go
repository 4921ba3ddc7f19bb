package core

import (
	"errors"
	"testing"

	"skiff/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveImages_SinglePair(t *testing.T) {
	refs, err := ResolveImages("registry.example.com/app", "v1.2.3", "")

	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "registry.example.com/app", refs[0].Name)
	assert.Equal(t, "v1.2.3", refs[0].NewTag)
}

func TestResolveImages_BothFormsRejected(t *testing.T) {
	_, err := ResolveImages("r/app", "v1", `[{"name":"r/app","newTag":"v1"}]`)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestResolveImages_NeitherFormRejected(t *testing.T) {
	_, err := ResolveImages("", "", "")

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "nothing to deploy")
}

func TestResolveImages_TagWithoutImageRejected(t *testing.T) {
	_, err := ResolveImages("", "v1", "")

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestResolveImages_ListKeepsOrder(t *testing.T) {
	refs, err := ResolveImages("", "", `[{"name":"r/app","newTag":"v1"},{"name":"r/app-migrator","newTag":"v1"}]`)

	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "r/app", refs[0].Name)
	assert.Equal(t, "r/app-migrator", refs[1].Name)
}

func TestResolveImages_ListMissingFieldNamesIndex(t *testing.T) {
	_, err := ResolveImages("", "", `[{"name":"r/app","newTag":"v1"},{"name":"r/worker"}]`)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "entry 1")
	assert.Contains(t, err.Error(), "newTag")
}

func TestResolveImages_ListDuplicateNameRejected(t *testing.T) {
	_, err := ResolveImages("", "", `[{"name":"r/app","newTag":"v1"},{"name":"r/app","newTag":"v2"}]`)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "duplicates")
}

func TestResolveImages_MalformedJSONRejected(t *testing.T) {
	_, err := ResolveImages("", "", `{"name":"r/app"}`)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestResolveImages_EmptyListRejected(t *testing.T) {
	_, err := ResolveImages("", "", `[]`)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestResolveEnvPatches_Empty(t *testing.T) {
	patches, err := ResolveEnvPatches("")

	require.NoError(t, err)
	assert.Empty(t, patches)
}

func TestResolveEnvPatches_Valid(t *testing.T) {
	patches, err := ResolveEnvPatches(`{"container.env":{"LOG_LEVEL":"debug","FEATURE":"on"}}`)

	require.NoError(t, err)
	require.Contains(t, patches, "container.env")
	assert.Equal(t, "debug", patches["container.env"]["LOG_LEVEL"])
	assert.Equal(t, "on", patches["container.env"]["FEATURE"])
}

func TestResolveEnvPatches_NonStringValueRejected(t *testing.T) {
	_, err := ResolveEnvPatches(`{"container.env":{"PORT":8080}}`)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "PORT")
}

func TestResolveEnvPatches_ObjectValueRejected(t *testing.T) {
	_, err := ResolveEnvPatches(`{"container.env":{"NESTED":{"a":"b"}}}`)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestResolveEnvPatches_BadSelectorRejected(t *testing.T) {
	_, err := ResolveEnvPatches(`{"container.ports":{"HTTP":"8080"}}`)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "container.ports")
}
