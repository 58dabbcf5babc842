// Package schema models Avro-style data schemas: parsing schema text into an
// in-memory graph, checking reader/writer compatibility, comparing and
// hashing schemas structurally, and writing them back out.
//
// Pipeline:
//  1. Decode JSON or YAML text into a node tree (yaml.v3)
//  2. Parse the tree into schemas, registering named types in a Names
//     registry before descending so records may refer to themselves
//  3. Check that every reference resolves
//  4. Resolve, compare, hash or serialize the result
//
// Records are the center of the model. A Record owns an ordered field
// table: positions always equal list indices, names and aliases are unique,
// and the table is only ever replaced as a whole through SetFields.
//
// The parser applies two field conventions by default, both switchable
// through ParseConfig:
//   - ImplicitNullable: a field type T becomes the union [null, T]
//   - ImplicitNullDefault: a field without a default gets a null default
//
// Named references are Ref handles into the Names arena, so cyclic graphs
// never contain partially built values. CanRead, Explain, Equal and Hash
// walk such graphs with a per-call recursion guard and always terminate.
package schema
