package cmd

import (
	"os"

	"skiff/internal/cli/output"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skiff",
	Short: "Deploys kustomize overlays via GitOps or kubectl",
	Long: `Skiff deploys a containerized workload by mutating a kustomize overlay
(image tags, version label, tracking annotations, env patches), rendering it,
and delivering the result either by committing to the overlay's repository for
a GitOps controller to reconcile, or by applying it directly to the cluster
and waiting for the rollout.

The delivery mode is detected from the rendered workload's managed-by label
and can be forced with --mode.

Common workflows:
  skiff deploy --overlay overlays/prod --service api --environment prod --image r/api --tag v1.2.3
  skiff deploy --overlay overlays/prod --service api --environment prod --images-json '[{"name":"r/api","newTag":"v1"}]'
  skiff inspect --overlay overlays/prod --service api`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
}
