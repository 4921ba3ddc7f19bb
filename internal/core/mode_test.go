package core

import (
	"testing"

	"skiff/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name         string
		force        domain.DeployMode
		detectGitOps bool
		managedBy    string
		want         domain.DeployMode
	}{
		{"forced kubectl wins over argocd", domain.ModeKubectl, true, "argocd", domain.ModeKubectl},
		{"forced gitops wins without argocd", domain.ModeGitOps, true, "", domain.ModeGitOps},
		{"auto detects argocd", domain.ModeAuto, true, "argocd", domain.ModeGitOps},
		{"auto without managed-by", domain.ModeAuto, true, "", domain.ModeKubectl},
		{"auto with other controller", domain.ModeAuto, true, "helm", domain.ModeKubectl},
		{"auto is case-sensitive", domain.ModeAuto, true, "ArgoCD", domain.ModeKubectl},
		{"detection disabled", domain.ModeAuto, false, "argocd", domain.ModeKubectl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMode(tt.force, tt.detectGitOps, tt.managedBy))
		})
	}
}

func TestParseDeployMode_Valid(t *testing.T) {
	for _, s := range []string{"auto", "gitops", "kubectl"} {
		mode, err := ParseDeployMode(s)
		require.NoError(t, err)
		assert.Equal(t, domain.DeployMode(s), mode)
	}
}

func TestParseDeployMode_Invalid(t *testing.T) {
	_, err := ParseDeployMode("helm")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}
