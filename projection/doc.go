// Package projection selects a subset of record fields by qualified path.
//
// A caller supplies fully-qualified field paths such as "com.acme.User.address".
// While a record is parsed, every field gets a derived path and is kept only
// when that path equals a requested path, is a segment prefix of one (an
// ancestor of something requested), or has one as a segment prefix (a
// descendant of something requested). Anything else is dropped.
//
// How a field's path is derived is a Strategy:
//   - Nested: the root record contributes its full name, nested records
//     continue the path of the field that contains them. Array, map and
//     union wrappers are transparent.
//   - Namespaced: every record contributes its own full name, with
//     namespace segments rewritten by configurable suffix stripping and a
//     segment Transform. This reproduces conventions where nested element
//     types live in synthesized namespaces such as "a.b.items_element".
//
// # Path Syntax
//
// Paths are dot-separated identifiers: "a.b", "a.b.x", "a.b.x.inner".
package projection
