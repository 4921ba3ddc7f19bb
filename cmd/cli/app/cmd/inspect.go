package cmd

import (
	"fmt"

	"skiff/cmd/cli/app"
	"skiff/internal/cli/output"

	"github.com/spf13/cobra"
)

var (
	inspectOverlay string
	inspectService string
)

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectOverlay, "overlay", "", "Path to the kustomize overlay directory")
	inspectCmd.Flags().StringVar(&inspectService, "service", "", "Name of the primary workload")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Renders an overlay and reports what a deployment would target",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := app.InjectInspectCommandHandler()
		if err != nil {
			return err
		}

		target, mode, err := h.Handle(inspectOverlay, inspectService)
		if err != nil {
			return err
		}

		output.PrintHeader("Workloads")
		for _, workload := range target.Workloads {
			marker := " "
			if workload == target.Primary {
				marker = "*"
			}
			fmt.Printf("%s %s/%s in %s\n", marker, workload.Kind, workload.Name, workload.Namespace)
		}
		fmt.Println()
		output.PrintKeyValue("namespace", target.Namespace)
		output.PrintKeyValue("deployment", target.Primary.Name)
		output.PrintKeyValue("managed_by", target.ManagedBy)
		output.PrintKeyValue("mode", string(mode))
		return nil
	},
}
