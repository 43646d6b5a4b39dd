// Package parser provides the runtime registry that maps parser identifiers
// to pure extraction functions, plus the built-in parsers.
//
// Parsers are registered at startup and looked up by string id when a source
// descriptor is constructed. Plugin addition therefore never touches the
// scheduler or source code paths. Built-ins tolerate missing optional fields
// by substituting documented placeholders; only an absent required target
// field is a parse error.
package parser
