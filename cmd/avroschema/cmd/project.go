package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guillefix/avro/schema"
)

func newProjectCmd(opts *rootOpts) *cobra.Command {
	var paths []string

	projectCmd := &cobra.Command{
		Use:   "project FILE --path PATH...",
		Short: "Keep only the record fields on the given paths",
		Long: `Parse a schema keeping only the fields whose qualified path equals, is an
ancestor of, or is a descendant of one of the requested paths. Paths are
derived by --path-strategy.`,
		Args:    cobra.ExactArgs(1),
		Example: `avroschema project user.avsc --path com.acme.User.address`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.parseConfig()
			if err != nil {
				return err
			}

			cfg.Projection = paths

			s, err := opts.readSchema(args[0], cmd.InOrStdin(), cfg)
			if err != nil {
				return err
			}

			out, err := schema.MarshalIndent(s, "  ")
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return err
		},
	}

	projectCmd.Flags().StringSliceVar(&paths, "path", nil, "qualified field path to keep (repeatable)")
	_ = projectCmd.MarkFlagRequired("path")

	return projectCmd
}
