package main

import (
	"fmt"

	"beam_automation/internal/app/executor"

	"github.com/spf13/cobra"
)

func newOperationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List every supported resource and operation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, k := range executor.Keys() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), k.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
