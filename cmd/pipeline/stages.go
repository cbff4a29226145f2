package pipeline

import (
	"pipeline/internal/stages"

	"github.com/spf13/cobra"
)

var stageDescriptions = map[stages.Stage]string{
	stages.UnitTest: "run unit tests for each Lambda",
	stages.Build:    "build each Lambda",
	stages.IntTest:  "run integration tests for each Lambda",
	stages.Init:     "initialise Terraform against the remote state",
	stages.Plan:     "plan a Terraform apply",
	stages.Apply:    "apply Terraform (plans unless --confirm is set)",
	stages.Destroy:  "destroy the deployment (plans a destroy unless --confirm is set)",
}

func newStageCmd(stage stages.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   string(stage),
		Short: stageDescriptions[stage],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newPipeline().Run(ctx, stage)
		},
	}
}

func init() {
	for _, stage := range stages.All {
		rootCmd.AddCommand(newStageCmd(stage))
	}
}
