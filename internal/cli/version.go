package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	sysraw "github.com/sysraw/sysraw"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sysraw version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), sysraw.Version())
		},
	}
}
