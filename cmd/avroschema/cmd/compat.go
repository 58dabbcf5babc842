package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guillefix/avro/schema"
)

func newCompatCmd(opts *rootOpts) *cobra.Command {
	var explain bool

	compatCmd := &cobra.Command{
		Use:   "compat READER WRITER",
		Short: "Check that data written with WRITER can be read with READER",
		Long: `Check reader/writer compatibility. The command exits with status 1 when
the reader cannot decode data produced with the writer schema.`,
		Args:    cobra.ExactArgs(2),
		Example: `avroschema compat --explain user-v2.avsc user-v1.avsc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" && args[1] == "-" {
				return errors.New("standard input can supply only one of READER and WRITER")
			}

			reader, err := opts.loadSchema(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			writer, err := opts.loadSchema(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if !explain {
				if !schema.CanRead(reader, writer) {
					fmt.Fprintln(out, "incompatible")
					return errIncompatible
				}

				fmt.Fprintln(out, "compatible")

				return nil
			}

			diags := schema.Explain(reader, writer)
			for _, d := range diags.All() {
				fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
			}

			if !diags.IsValid() {
				fmt.Fprintf(out, "incompatible: %d error(s)\n", len(diags.Errors))
				return errIncompatible
			}

			fmt.Fprintln(out, "compatible")

			return nil
		},
	}

	compatCmd.Flags().BoolVar(&explain, "explain", false, "list every finding instead of a yes/no answer")

	return compatCmd
}
