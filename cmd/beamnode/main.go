package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var development bool

	root := &cobra.Command{
		Use:           "beamnode",
		Short:         "Beam workflow automation node",
		Long:          "Runs Beam chain, marketplace and game API operations in batches, over HTTP or from a file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yml", "path to the YAML configuration file")
	root.PersistentFlags().BoolVar(&development, "dev", false, "human readable development logging")

	boot := func() (*application, error) {
		return bootstrap(configPath, development)
	}
	root.AddCommand(newServeCmd(boot), newRunCmd(boot), newOperationsCmd())
	return root
}
