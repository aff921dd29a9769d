package main

import (
	"fmt"
	"strings"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log [revision]",
		Short: "Show commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			start, ok, err := r.ResolveOrHead(name)
			if err != nil {
				return err
			}
			if !ok {
				if name == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "no commits yet")
					return nil
				}
				return fmt.Errorf("unknown revision %q", name)
			}

			entries, err := r.Log(start, limit)
			if err != nil {
				return err
			}

			head, err := r.Head()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, entry := range entries {
				decoration := ""
				if entry.OID == head {
					decoration = " (HEAD)"
				}

				if oneline {
					subject := entry.Commit.Message
					if i := strings.IndexByte(subject, '\n'); i >= 0 {
						subject = subject[:i]
					}
					fmt.Fprintf(out, "%s%s %s\n", shortOID(entry.OID), decoration, subject)
					continue
				}

				fmt.Fprintf(out, "commit %s%s\n", entry.OID, decoration)
				fmt.Fprintln(out)
				for _, line := range strings.Split(strings.TrimRight(entry.Commit.Message, "\n"), "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits to show (0 = all)")

	return cmd
}

// shortOID abbreviates an OID to its first 8 characters for display.
func shortOID(oid object.OID) string {
	s := string(oid)
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}
