package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/odvcencio/ugit/pkg/bundle"
	"github.com/odvcencio/ugit/pkg/repo"
	"github.com/spf13/cobra"
)

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Move history between repositories as a single file",
	}
	cmd.AddCommand(newBundleCreateCmd())
	cmd.AddCommand(newBundleVerifyCmd())
	cmd.AddCommand(newBundleUnbundleCmd())
	return cmd
}

func newBundleCreateCmd() *cobra.Command {
	var output string
	var sign bool
	var keyPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write HEAD, all refs, and their objects to a bundle file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			b, err := r.CreateBundle()
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := bundle.Write(&buf, b); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d ref(s), %d object(s)\n", output, len(b.Refs), len(b.Objects))

			if sign {
				signFn, resolvedPath, err := newSSHBundleSigner(keyPath)
				if err != nil {
					return err
				}
				line, err := signFn(buf.Bytes())
				if err != nil {
					return fmt.Errorf("sign bundle: %w", err)
				}
				sigPath := output + ".sig"
				if err := os.WriteFile(sigPath, []byte(line+"\n"), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", sigPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "signed with %s\n", resolvedPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "ugit.bundle", "bundle file to write")
	cmd.Flags().BoolVar(&sign, "sign", false, "sign the bundle with an SSH key")
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "SSH private key (default: ~/.ssh/id_*)")

	return cmd
}

func newBundleVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a bundle's integrity and its signature if present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			b, err := bundle.Read(bytes.NewReader(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d ref(s), %d object(s)\n", len(b.Refs), len(b.Objects))

			sigPath := args[0] + ".sig"
			line, err := os.ReadFile(sigPath)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "unsigned")
					return nil
				}
				return fmt.Errorf("read %s: %w", sigPath, err)
			}

			keyType, err := verifyBundleSignature(data, string(line))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signature ok (%s)\n", keyType)
			return nil
		},
	}
}

func newBundleUnbundleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unbundle <file>",
		Short: "Import a bundle's objects and refs into this repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			b, err := bundle.Read(f)
			if err != nil {
				return err
			}

			result, err := r.ApplyBundle(b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unbundled %s: %d new object(s), %d ref(s) created, %d skipped\n",
				args[0], result.ObjectsNew, len(result.RefsCreated), len(result.RefsSkipped))
			return nil
		},
	}
}
