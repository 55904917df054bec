package main

import (
	"fmt"

	"vision-infra/internal/startup"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newVersionCmd creates the command printing the build information.
func newVersionCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of vision-infra",
		Long:  `Print the version, commit, build time and Go toolchain of this binary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := startup.GetBuildInfo()
			switch output {
			case "", "text":
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
			case "yaml":
				data, err := yaml.Marshal(info)
				if err != nil {
					return fmt.Errorf("failed to encode build info: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
			default:
				return fmt.Errorf("unknown output format %q (want text or yaml)", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or yaml")

	return cmd
}
