// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package filter

import (
	"strings"
	"testing"
)

func TestParseBoolLeaf(t *testing.T) {
	n, err := Parse("stream")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, ok := n.(*Bool)
	if !ok || b.Key != "stream" {
		t.Errorf("got %#v, want *Bool{Key: \"stream\"}", n)
	}
}

func TestParseStringLeaf(t *testing.T) {
	n, err := Parse(`artist="Miles*"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, ok := n.(*String)
	if !ok || s.Key != "artist" || s.Op != OpEQ || s.Pattern != "Miles*" {
		t.Errorf("got %#v", n)
	}
}

func TestParseIntLeaf(t *testing.T) {
	n, err := Parse("bpm>=120")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	i, ok := n.(*Int)
	if !ok || i.Key != "bpm" || i.Op != OpGE || i.Value != 120 {
		t.Errorf("got %#v", n)
	}
}

func TestParseIdentLeaf(t *testing.T) {
	n, err := Parse("tracknumber=discnumber")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	i, ok := n.(*Ident)
	if !ok || i.Key != "tracknumber" || i.Other != "discnumber" || i.Op != OpEQ {
		t.Errorf("got %#v", n)
	}
}

func TestParseAndPrecedesOr(t *testing.T) {
	// "a | b & c" must parse as "a | (b & c)": OR is the loosest binder.
	n, err := Parse("stream | tag & artist=\"x\"")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	or, ok := n.(*Or)
	if !ok {
		t.Fatalf("root is %#v, want *Or", n)
	}
	if _, ok := or.Left.(*Bool); !ok {
		t.Errorf("Or.Left = %#v, want *Bool", or.Left)
	}
	and, ok := or.Right.(*And)
	if !ok {
		t.Errorf("Or.Right = %#v, want *And", or.Right)
	} else if _, ok := and.Left.(*Bool); !ok {
		t.Errorf("And.Left = %#v, want *Bool", and.Left)
	}
}

func TestParseParens(t *testing.T) {
	n, err := Parse("(stream | tag) & artist=\"x\"")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	and, ok := n.(*And)
	if !ok {
		t.Fatalf("root is %#v, want *And", n)
	}
	if _, ok := and.Left.(*Or); !ok {
		t.Errorf("And.Left = %#v, want *Or", and.Left)
	}
}

func TestParseNotBindsTighterThanAnd(t *testing.T) {
	n, err := Parse("!stream & tag")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	and, ok := n.(*And)
	if !ok {
		t.Fatalf("root is %#v, want *And", n)
	}
	if _, ok := and.Left.(*Not); !ok {
		t.Errorf("And.Left = %#v, want *Not", and.Left)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct{ expr, wantErr string }{
		{"", "expression expected"},
		{"&", "key expected"},
		{"artist=", "right side of expression expected"},
		{"(stream", "')' expected"},
		{"stream)", "unexpected ')'"},
		{"stream tag", "'&' or '|' expected"},
		{`artist<"x"`, `invalid string operator`},
		{`"unterminated`, "end of expression at middle of string"},
	}
	for _, c := range cases {
		_, err := Parse(c.expr)
		if err == nil {
			t.Errorf("Parse(%q): expected error containing %q, got nil", c.expr, c.wantErr)
			continue
		}
		if !strings.Contains(err.Error(), c.wantErr) {
			t.Errorf("Parse(%q) error = %q, want substring %q", c.expr, err.Error(), c.wantErr)
		}
	}
}

func TestParseSetsLastError(t *testing.T) {
	_, err := Parse("&")
	if err == nil {
		t.Fatal("expected error")
	}
	if LastError() != err.Error() {
		t.Errorf("LastError() = %q, want %q", LastError(), err.Error())
	}
}
