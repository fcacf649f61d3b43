// Package jsonschema derives JSON Schema documents from Go types by
// reflection. It targets the tool input_schema field of the Messages API:
// flat argument objects with primitive fields, slices, maps, and the
// occasional nested struct, which is inlined. [For] is the entry point.
package jsonschema
