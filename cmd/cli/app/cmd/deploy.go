package cmd

import (
	"os"
	"time"

	"skiff/cmd/cli/app"
	"skiff/internal/cli/output"
	"skiff/internal/core/handler"

	"github.com/spf13/cobra"
)

var (
	deployOverlay         string
	deployService         string
	deployEnvironment     string
	deployImage           string
	deployTag             string
	deployImagesJSON      string
	deployEnvPatches      string
	deployActor           string
	deployRunID           string
	deployMode            string
	deployDetectGitOps    bool
	deployCommitMessage   string
	deployCreateNamespace bool
	deployWaitTimeout     int
	deployDryRun          bool
)

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringVar(&deployOverlay, "overlay", "", "Path to the kustomize overlay directory")
	deployCmd.Flags().StringVar(&deployService, "service", "", "Name of the primary workload to deploy")
	deployCmd.Flags().StringVar(&deployEnvironment, "environment", "", "Target environment name")
	deployCmd.Flags().StringVar(&deployImage, "image", "", "Image repository to substitute (with --tag)")
	deployCmd.Flags().StringVar(&deployTag, "tag", "", "Image tag to substitute (with --image)")
	deployCmd.Flags().StringVar(&deployImagesJSON, "images-json", "", `JSON array of {"name","newTag"} substitutions`)
	deployCmd.Flags().StringVar(&deployEnvPatches, "env-patches", "", `JSON object of <container>.env selectors to variables`)
	deployCmd.Flags().StringVar(&deployActor, "actor", "", "Deploying actor recorded on the overlay (default $GITHUB_ACTOR or $USER)")
	deployCmd.Flags().StringVar(&deployRunID, "run-id", "", "Run identifier recorded on the overlay (default $GITHUB_RUN_ID or generated)")
	deployCmd.Flags().StringVar(&deployMode, "mode", "auto", "Delivery mode: auto, gitops, or kubectl")
	deployCmd.Flags().BoolVar(&deployDetectGitOps, "detect-gitops", true, "Select gitops mode when the workload is managed by Argo CD")
	deployCmd.Flags().StringVar(&deployCommitMessage, "commit-message", "", "Commit message for gitops mode (default generated)")
	deployCmd.Flags().BoolVar(&deployCreateNamespace, "create-namespace", true, "Create the target namespace if it does not exist")
	deployCmd.Flags().IntVar(&deployWaitTimeout, "wait-timeout", 120, "Seconds to wait for the rollout to complete")
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "Mutate and inspect, but skip commit/apply")
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploys a service by mutating and delivering its overlay",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := app.InjectDeployCommandHandler()
		if err != nil {
			return err
		}

		request := handler.DeployRequest{
			OverlayDir:      deployOverlay,
			ServiceName:     deployService,
			Environment:     deployEnvironment,
			Image:           deployImage,
			Tag:             deployTag,
			ImagesJSON:      deployImagesJSON,
			EnvPatchesJSON:  deployEnvPatches,
			Actor:           defaultActor(deployActor),
			RunID:           defaultRunID(deployRunID),
			ForceMode:       deployMode,
			DetectGitOps:    deployDetectGitOps,
			CommitMessage:   deployCommitMessage,
			CreateNamespace: deployCreateNamespace,
			WaitTimeout:     time.Duration(deployWaitTimeout) * time.Second,
			DryRun:          deployDryRun,
		}

		outputs, err := h.Handle(cmd.Context(), request)
		if err != nil {
			return err
		}

		output.PrintSuccess("Deployed " + outputs.Deployment)
		output.PrintKeyValue("mode", string(outputs.Mode))
		output.PrintKeyValue("namespace", outputs.Namespace)
		output.PrintKeyValue("deployment", outputs.Deployment)
		output.PrintKeyValue("managed_by", outputs.ManagedBy)
		if outputs.Revision != "" {
			output.PrintKeyValue("revision", outputs.Revision)
		}
		return nil
	},
}

func defaultActor(actor string) string {
	if actor != "" {
		return actor
	}
	if fromEnv := os.Getenv("GITHUB_ACTOR"); fromEnv != "" {
		return fromEnv
	}
	return os.Getenv("USER")
}

func defaultRunID(runID string) string {
	if runID != "" {
		return runID
	}
	return os.Getenv("GITHUB_RUN_ID")
}
