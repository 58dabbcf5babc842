package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guillefix/avro/schema"
)

func newCanonicalCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "canonical FILE",
		Short:   "Print the parsing canonical form of a schema",
		Args:    cobra.ExactArgs(1),
		Example: `avroschema canonical user.avsc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSchema(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			out, err := schema.Canonical(s)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return err
		},
	}
}
