package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/guillefix/avro/schema"
)

// summary is the inspect report.
type summary struct {
	Kind   string         `yaml:"kind"`
	Name   string         `yaml:"name,omitempty"`
	Hash   string         `yaml:"hash"`
	Fields []fieldSummary `yaml:"fields,omitempty"`
}

type fieldSummary struct {
	Pos     int    `yaml:"pos"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default bool   `yaml:"hasDefault"`
}

func newInspectCmd(opts *rootOpts) *cobra.Command {
	var dump bool

	inspectCmd := &cobra.Command{
		Use:     "inspect FILE",
		Short:   "Summarize a schema: kind, name, structural hash and fields",
		Args:    cobra.ExactArgs(1),
		Example: `avroschema inspect --dump user.avsc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSchema(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			if dump {
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 6}
				cfg.Fdump(cmd.OutOrStdout(), s)

				return nil
			}

			return writeSummary(cmd.OutOrStdout(), s)
		},
	}

	inspectCmd.Flags().BoolVar(&dump, "dump", false, "dump the in-memory schema graph")

	return inspectCmd
}

func writeSummary(w io.Writer, s schema.Schema) error {
	sum := summary{
		Kind: s.Kind().String(),
		Hash: fmt.Sprintf("%016x", schema.Hash(s)),
	}

	if named, ok := s.(schema.NamedSchema); ok {
		sum.Name = named.FullName()
	}

	if rec, ok := s.(*schema.Record); ok {
		for _, f := range rec.Fields() {
			sum.Fields = append(sum.Fields, fieldSummary{
				Pos:     f.Pos(),
				Name:    f.Name(),
				Type:    typeName(f.Schema()),
				Default: f.HasDefault(),
			})
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(sum); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	return enc.Close()
}

// typeName renders a field type on one line.
func typeName(s schema.Schema) string {
	switch t := s.(type) {
	case interface{ FullName() string }:
		if t.FullName() != "" {
			return t.FullName()
		}
	case *schema.Union:
		parts := make([]string, 0, len(t.Branches()))
		for _, b := range t.Branches() {
			parts = append(parts, typeName(b))
		}

		return "union[" + strings.Join(parts, ", ") + "]"
	case *schema.Array:
		return "array<" + typeName(t.Items()) + ">"
	case *schema.Map:
		return "map<" + typeName(t.Values()) + ">"
	case *schema.Logical:
		return t.LogicalType() + "(" + typeName(t.Underlying()) + ")"
	}

	return s.Kind().String()
}
