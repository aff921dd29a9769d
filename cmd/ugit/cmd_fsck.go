package main

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/repo"
	"github.com/spf13/cobra"
)

func newFsckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fsck",
		Short: "Check object integrity and reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			report, err := r.Fsck()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, oid := range report.Corrupt {
				fmt.Fprintf(out, "corrupt %s\n", oid)
			}
			for _, oid := range report.Missing {
				fmt.Fprintf(out, "missing %s\n", oid)
			}
			if len(report.Corrupt) > 0 || len(report.Missing) > 0 {
				return fmt.Errorf("fsck: %d corrupt, %d missing", len(report.Corrupt), len(report.Missing))
			}

			fmt.Fprintf(out, "ok: %d object(s), %d reachable, %d unreachable\n",
				report.Objects, report.Reachable, report.Unreachable)
			return nil
		},
	}
}
