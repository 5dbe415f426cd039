package cli

import (
	"github.com/spf13/cobra"

	sysraw "github.com/sysraw/sysraw"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sysraw",
		Short:        "Inspect and exercise low-level filesystem primitives.",
		Long:         "Inspect and exercise low-level filesystem primitives: copy-on-write file cloning and filesystem capability probing.",
		Version:      sysraw.Version(),
		SilenceUsage: true,
	}

	root.AddCommand(
		cloneCmd(),
		probeCmd(),
		versionCmd(),
	)

	root.CompletionOptions.HiddenDefaultCmd = true

	return root
}
