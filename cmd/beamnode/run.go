package main

import (
	"os"
	"os/signal"
	"syscall"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/logger"
	"beam_automation/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

type runOutput struct {
	Results []entity.ExecutionResult `json:"results"`
	Error   string                   `json:"error,omitempty"`
}

func newRunCmd(boot func() (*application, error)) *cobra.Command {
	var file string
	var continueOnFail bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a batch file and print the results as JSON",
		Example: `  beamnode run --file batch.json
  beamnode run -f batch.json --continue-on-fail`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := utils.LoadBatchFromJSON(file)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("continue-on-fail") {
				req.ContinueOnFail = continueOnFail
			}

			app, err := boot()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results, execErr := app.dispatcher.ExecuteBatch(ctx, req)
			out := runOutput{Results: results}
			if out.Results == nil {
				out.Results = []entity.ExecutionResult{}
			}
			if execErr != nil {
				out.Error = execErr.Error()
			}

			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			return execErr
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "batch request JSON file")
	cmd.Flags().BoolVar(&continueOnFail, "continue-on-fail", false, "record failed items and keep going")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
