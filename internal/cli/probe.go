package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sysraw "github.com/sysraw/sysraw"
	"github.com/sysraw/sysraw/fsinfo"
)

func probeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "probe PATH",
		Short:   "Report filesystem identity and clone capability for a path",
		Example: "  sysraw probe /var/lib/data",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("probe: %w", err)
			}
			defer f.Close()

			stats, err := fsinfo.StatsOf(sysraw.FileDescriptor(f))
			if err != nil {
				logrus.Errorf("probe operation failed: %s", err)
				return fmt.Errorf("probe: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "filesystem: %s\n", stats.Kind)
			fmt.Fprintf(out, "block size: %d\n", stats.BlockSize)
			fmt.Fprintf(out, "device:     %#x\n", stats.Device)
			fmt.Fprintf(out, "reflink:    %v\n", stats.Kind.SupportsReflink())
			return nil
		},
	}

	return cmd
}
