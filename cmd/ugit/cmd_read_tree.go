package main

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/repo"
	"github.com/spf13/cobra"
)

func newReadTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-tree <tree>",
		Short: "Replace the working directory with a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			oid, ok, err := r.Locate(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("unknown revision %q", args[0])
			}

			return r.ReadTree(oid, r.RootDir)
		},
	}
}
