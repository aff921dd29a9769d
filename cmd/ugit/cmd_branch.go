package main

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	var deleteBranch string

	cmd := &cobra.Command{
		Use:   "branch [name] [start]",
		Short: "List, create, or delete branches",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			// Delete mode.
			if deleteBranch != "" {
				if len(args) > 0 {
					return fmt.Errorf("branch --delete does not accept positional args")
				}
				if err := r.DeleteBranch(deleteBranch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted branch '%s'\n", deleteBranch)
				return nil
			}

			// Create mode.
			if len(args) >= 1 {
				start := ""
				if len(args) == 2 {
					start = args[1]
				}
				return r.CreateBranch(args[0], start)
			}

			// List mode: branches pointing at the HEAD commit get a marker.
			branches, err := r.ListBranches()
			if err != nil {
				return err
			}
			head, err := r.Head()
			if err != nil {
				return err
			}
			refs, err := r.ListRefs("heads")
			if err != nil {
				return err
			}
			for _, b := range branches {
				if head != "" && refs["refs/heads/"+b] == head {
					fmt.Fprintf(cmd.OutOrStdout(), "* %s\n", b)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", b)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deleteBranch, "delete", "d", "", "delete the named branch")

	return cmd
}
