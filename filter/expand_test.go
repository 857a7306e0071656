// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package filter

import "testing"

func TestIsShorthand(t *testing.T) {
	cases := []struct {
		s    string
		want bool
	}{
		{"~a Miles", true},
		{"  ~a Miles", true},
		{"!~a Miles", true},
		{"(~a Miles)", true},
		{"artist=\"Miles\"", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsShorthand(c.s); got != c.want {
			t.Errorf("IsShorthand(%q) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestExpandIntForms(t *testing.T) {
	cases := []struct{ in, want string }{
		{"~y1959", "(date=1959)"},
		{"~y-1959", "(date<=1959)"},
		{"~y1959-", "(date>=1959)"},
		{"~y1959-1960", "(date>=1959&date<=1960)"},
		{"~d<200", "(duration<200)"},
		{"~d>200", "(duration>200)"},
	}
	for _, c := range cases {
		got, err := Expand(c.in)
		if err != nil {
			t.Fatalf("Expand(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Expand(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExpandStringForms(t *testing.T) {
	cases := []struct{ in, want string }{
		{"~aMiles", `artist="*Miles*"`},
		{`~l"Kind of Blue"`, `album="*Kind of Blue*"`},
	}
	for _, c := range cases {
		got, err := Expand(c.in)
		if err != nil {
			t.Fatalf("Expand(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Expand(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExpandBoolForm(t *testing.T) {
	got, err := Expand("~T")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "tag" {
		t.Errorf("Expand(~T) = %q, want %q", got, "tag")
	}
}

func TestExpandInsertsImplicitAnd(t *testing.T) {
	got, err := Expand("~aMiles~l Kind")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := `artist="*Miles*"&album="*Kind*"`
	if got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpandUnknownShortKey(t *testing.T) {
	if _, err := Expand("~Qfoo"); err == nil {
		t.Error("expected error for unknown short key")
	}
}

func TestExpandedExpressionParses(t *testing.T) {
	expanded, err := Expand("~aMiles&~l Kind")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if _, err := Parse(expanded); err != nil {
		t.Errorf("Parse(%q): %v", expanded, err)
	}
}

func TestParseExpandsShorthandTransparently(t *testing.T) {
	n, err := Parse("~aMiles")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, ok := n.(*String)
	if !ok || s.Key != "artist" || s.Pattern != "*Miles*" {
		t.Errorf("got %#v", n)
	}
}
