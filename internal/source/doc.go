// Package source provides the polymorphic text providers the scheduler polls:
// static strings, user callables, and HTTP endpoints with pluggable parsers.
//
// Every fetch attempt yields exactly one Result tagged Success, Empty,
// ParseFailure, or TransportFailure. Sources know nothing about rendering or
// scheduling; classifying a result into retry behavior is the scheduler's job.
package source
