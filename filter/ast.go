// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

// Package filter implements the filter-expression language: a small query
// language over track metadata used for library filtering, add-time
// filtering and user-defined named filters. It tokenizes and parses
// expressions into a typed AST (tagged variant, modeled as an interface with
// six exhaustive implementations rather than a class hierarchy), expands the
// '~KV' shorthand form, and evaluates the AST against a track.
package filter

// Node is the tagged-variant interface implemented by every AST case: And,
// Or, Not, String, Int, Ident and Bool.
type Node interface {
	isNode()
}

// Op is a comparison operator. Not every Op is legal on every node kind: a
// String node only ever carries OpEQ or OpNE (enforced by the parser); Int
// and Ident nodes may carry any of the six.
type Op int

const (
	OpLT Op = iota
	OpLE
	OpEQ
	OpGE
	OpGT
	OpNE
)

func (o Op) String() string {
	switch o {
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpEQ:
		return "="
	case OpGE:
		return ">="
	case OpGT:
		return ">"
	case OpNE:
		return "!="
	default:
		return "?"
	}
}

// And is the conjunction of Left and Right.
type And struct {
	Left, Right Node
}

// Or is the disjunction of Left and Right.
type Or struct {
	Left, Right Node
}

// Not negates Child.
type Not struct {
	Child Node
}

// String compares the string value of Key against a compiled glob pattern.
// Op is always OpEQ or OpNE.
type String struct {
	Key     string
	Pattern string
	Glob    *Glob
	Op      Op
}

// Int compares the integer value of Key against Value.
type Int struct {
	Key   string
	Value int
	Op    Op
}

// Ident compares two fields of the same track, Key against Other.
type Ident struct {
	Key, Other string
	Op         Op
}

// Bool is a bare key with no operator: a builtin boolean field, or (once
// resolved by CheckLeaves) the name of a user-defined filter.
type Bool struct {
	Key string
}

func (*And) isNode()    {}
func (*Or) isNode()     {}
func (*Not) isNode()    {}
func (*String) isNode() {}
func (*Int) isNode()    {}
func (*Ident) isNode()  {}
func (*Bool) isNode()   {}
