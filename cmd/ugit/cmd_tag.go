package main

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/repo"
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	var showOID bool

	cmd := &cobra.Command{
		Use:   "tag [name] [target]",
		Short: "List tags, or tag a commit",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if len(args) == 0 {
				tags, err := r.ListTags()
				if err != nil {
					return err
				}
				refs, err := r.ListRefs("tags")
				if err != nil {
					return err
				}
				for _, name := range tags {
					if showOID {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", refs["refs/tags/"+name], name)
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), name)
					}
				}
				return nil
			}

			target := ""
			if len(args) == 2 {
				target = args[1]
			}
			return r.CreateTag(args[0], target)
		},
	}

	cmd.Flags().BoolVar(&showOID, "show-oid", false, "show tag targets when listing")

	return cmd
}
