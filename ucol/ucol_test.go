// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package ucol

import "testing"

func TestValidUTF8(t *testing.T) {
	want := []struct {
		in string
		ok bool
	}{
		{"hello", true},
		{"Éléanor", true},
		{string([]byte{0xff, 0xfe}), false},
	}
	for _, tc := range want {
		if got := ValidUTF8(tc.in); got != tc.ok {
			t.Errorf("ValidUTF8(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}

func TestWidthInvalidPlaceholder(t *testing.T) {
	s := string([]byte{0xff})
	if got := Width(s); got != invalidPlaceholderWidth {
		t.Errorf("Width(invalid) = %d, want %d", got, invalidPlaceholderWidth)
	}
}

func TestEqualFold(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Miles Davis", "miles davis", true},
		{"Miles Davis", "MILES DAVIS", true},
		{"Éléanor", "éléanor", true},
		{"Miles Davis", "John Coltrane", false},
	}
	for _, c := range cases {
		if got := EqualFold(c.a, c.b); got != c.want {
			t.Errorf("EqualFold(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestHasPrefixFold(t *testing.T) {
	if !HasPrefixFold("Kind of Blue", "kind") {
		t.Error("expected prefix match")
	}
	if HasPrefixFold("Kind of Blue", "blue") {
		t.Error("unexpected prefix match")
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Kind of Blue (Legacy Edition)", "Kind of Blue") {
		t.Error("expected substring match")
	}
	if ContainsFold("Kind of Blue", "nope") {
		t.Error("unexpected substring match")
	}
}

func TestStripDiacritics(t *testing.T) {
	if got := StripDiacritics("Éléanor"); got != "Eleanor" {
		t.Errorf("StripDiacritics = %q, want %q", got, "Eleanor")
	}
}

func TestCollationKey(t *testing.T) {
	if CollationKey("Éléanor") != CollationKey("eleanor") {
		t.Error("collation keys should match after fold+strip")
	}
}
