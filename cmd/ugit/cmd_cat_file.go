package main

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file <name>",
		Short: "Print a stored object's payload, or its type with -t",
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

			typ, payload, err := r.Store.Read(oid)
			if err != nil {
				return err
			}

			if showType {
				fmt.Fprintln(cmd.OutOrStdout(), typ)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object's type instead of its payload")

	return cmd
}
