package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/ugit/pkg/repo"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Store a file as a blob and print its OID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			oid, err := r.Store.WriteBlob(data)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), oid)
			return nil
		},
	}
}
