// Package heuristic defines the classification capability curation delegates
// to, and the loaders that produce one from a user-supplied reference.
//
// A heuristic maps a SeqInfo collection onto an ordered list of destination
// templates with their matched sequences. Classification is a pure function:
// all remote mutation happens afterwards in the apply layer. Three heuristic
// sources are supported: an interpreted Go file (yaegi), a declarative YAML
// rule file, and registered preset names.
package heuristic
