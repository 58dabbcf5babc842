package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guillefix/avro/schema"
)

type formatOpts struct {
	yaml   bool
	indent int
}

func newFormatCmd(opts *rootOpts) *cobra.Command {
	var fo formatOpts

	formatCmd := &cobra.Command{
		Use:   "format FILE",
		Short: "Rewrite a schema as parsed, with implicit conventions applied",
		Args:  cobra.ExactArgs(1),
		Example: `avroschema format user.avsc
avroschema format --yaml --implicit-nullable=false user.avsc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSchema(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			var out []byte

			switch {
			case fo.yaml:
				out, err = schema.MarshalYAML(s)
			case fo.indent > 0:
				out, err = schema.MarshalIndent(s, fmt.Sprintf("%*s", fo.indent, ""))
			default:
				out, err = schema.Marshal(s)
			}

			if err != nil {
				return err
			}

			if fo.yaml {
				_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
			} else {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}

			return err
		},
	}

	formatCmd.Flags().BoolVar(&fo.yaml, "yaml", false, "write YAML instead of JSON")
	formatCmd.Flags().IntVar(&fo.indent, "indent", 2, "JSON indent width, 0 for compact output")

	return formatCmd
}
