package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sysraw/sysraw/clone"
)

func cloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clone [flags] SOURCE DEST",
		Short:   "Duplicate a file, sharing extents where the filesystem allows",
		Example: "  sysraw clone --behavior reflink data.db data.db.bak",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			behaviorName, err := cmd.Flags().GetString("behavior")
			if err != nil {
				return err
			}

			var behavior clone.Behavior
			switch behaviorName {
			case "reflink":
				behavior = clone.ReflinkOrFail
			case "auto":
				behavior = clone.ReflinkOrCopy
			case "copy":
				behavior = clone.CopyOnly
			default:
				return fmt.Errorf("unknown behavior %q (want reflink, auto or copy)", behaviorName)
			}

			res, err := clone.File(args[0], args[1], behavior)
			if err != nil {
				logrus.Errorf("clone operation failed: %s", err)
				return fmt.Errorf("clone: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringP("behavior", "b", "auto", "fallback policy: reflink (fail if cloning is impossible), auto (fall back to a byte copy) or copy (never attempt a clone)")

	return cmd
}
