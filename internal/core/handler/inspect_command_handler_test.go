package handler

import (
	"errors"
	"testing"

	"skiff/internal/core"
	"skiff/internal/core/domain"
	"skiff/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectCommandHandler_Handle_ReportsTargetAndMode(t *testing.T) {
	renderer := new(testutil.MockRenderer)
	renderer.On("Render", "overlay").Return([]byte(fixtureRenderedGitOps), nil)

	sut := ProvideInspectCommandHandler(core.ProvideInspector(renderer))
	target, mode, err := sut.Handle("overlay", "api")

	require.NoError(t, err)
	assert.Equal(t, "prod", target.Namespace)
	assert.Equal(t, "argocd", target.ManagedBy)
	assert.Equal(t, domain.ModeGitOps, mode)
}

func TestInspectCommandHandler_Handle_KubectlWithoutArgoCD(t *testing.T) {
	renderer := new(testutil.MockRenderer)
	renderer.On("Render", "overlay").Return([]byte(fixtureRenderedKubectl), nil)

	sut := ProvideInspectCommandHandler(core.ProvideInspector(renderer))
	_, mode, err := sut.Handle("overlay", "api")

	require.NoError(t, err)
	assert.Equal(t, domain.ModeKubectl, mode)
}

func TestInspectCommandHandler_Handle_RequiresArguments(t *testing.T) {
	sut := ProvideInspectCommandHandler(core.ProvideInspector(new(testutil.MockRenderer)))

	_, _, err := sut.Handle("", "api")
	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))

	_, _, err = sut.Handle("overlay", "")
	require.True(t, errors.As(err, &validationErr))
}
