package core

import (
	"errors"
	"testing"

	"skiff/internal/core/domain"
	"skiff/internal/ports"
	"skiff/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitOpsCommitter_Push_NoFilesIsNoChanges(t *testing.T) {
	scm := new(testutil.MockScm)

	sut := ProvideGitOpsCommitter(scm)
	result, err := sut.Push("overlay", nil, "deploy: api v1 to prod")

	require.NoError(t, err)
	assert.True(t, result.NoChanges)
	scm.AssertNotCalled(t, "CommitAndPush")
}

func TestGitOpsCommitter_Push_DelegatesToScm(t *testing.T) {
	scm := new(testutil.MockScm)
	scm.On("CommitAndPush", "overlay", []string{"kustomization.yaml"}, "deploy: api v1 to prod").
		Return(ports.CommitResult{Revision: "abc123"}, nil)

	sut := ProvideGitOpsCommitter(scm)
	result, err := sut.Push("overlay", []string{"kustomization.yaml"}, "deploy: api v1 to prod")

	require.NoError(t, err)
	assert.Equal(t, "abc123", result.Revision)
	scm.AssertExpectations(t)
}

func TestGitOpsCommitter_Push_WrapsFailureAsGitOpsError(t *testing.T) {
	scm := new(testutil.MockScm)
	scm.On("CommitAndPush", "overlay", []string{"kustomization.yaml"}, "msg").
		Return(ports.CommitResult{}, errors.New("push rejected"))

	sut := ProvideGitOpsCommitter(scm)
	_, err := sut.Push("overlay", []string{"kustomization.yaml"}, "msg")

	var gitOpsErr *domain.GitOpsError
	require.True(t, errors.As(err, &gitOpsErr))
}

func TestCommitMessage_CustomWins(t *testing.T) {
	assert.Equal(t, "custom", CommitMessage("custom", "api", "v1", "prod"))
}

func TestCommitMessage_Generated(t *testing.T) {
	assert.Equal(t, "deploy: api v1.2.3 to prod", CommitMessage("", "api", "v1.2.3", "prod"))
}
