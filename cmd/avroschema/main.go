// Package main provides the CLI entrypoint for avroschema.
//
// avroschema works with Avro-style schema documents written as JSON or YAML:
//   - Prints the parsing canonical form or a normalized rewrite of a schema
//   - Checks whether a reader schema can decode data from a writer schema
//   - Projects a record schema down to selected field paths
//   - Inspects the named types and structural hash of a schema
package main

import "github.com/guillefix/avro/cmd/avroschema/cmd"

func main() {
	cmd.Execute()
}
