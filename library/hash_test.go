// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import (
	"testing"

	"github.com/ambrevar/libmuse/track"
)

func TestLocatorHashInsertRejectsDuplicate(t *testing.T) {
	h := newLocatorHash()
	a := track.New("http://example.com/a.mp3")
	b := track.New("http://example.com/a.mp3")

	if !h.insert(a) {
		t.Fatal("first insert should succeed")
	}
	if h.insert(b) {
		t.Fatal("second insert of the same locator should be rejected")
	}

	n := 0
	h.each(func(*track.Track) { n++ })
	if n != 1 {
		t.Fatalf("hash has %d entries, want 1", n)
	}
}

func TestLocatorHashRemove(t *testing.T) {
	h := newLocatorHash()
	a := track.New("http://example.com/a.mp3")
	h.insert(a)
	h.remove(a)

	n := 0
	h.each(func(*track.Track) { n++ })
	if n != 0 {
		t.Fatalf("hash has %d entries after remove, want 0", n)
	}
	// Ref on insert + unref on remove should bring it back to the caller's
	// own single reference.
	if !a.Unique() {
		t.Fatal("track should be unique again after hash removal")
	}
}

func TestLocatorHashURLsNotCanonicalized(t *testing.T) {
	h := newLocatorHash()
	a := track.New("http://example.com/a.mp3")
	if !h.insert(a) {
		t.Fatal("insert should succeed")
	}
	if _, ok := h.entries["http://example.com/a.mp3"]; !ok {
		t.Fatal("a URL should be hashed under its own unchanged text")
	}
	b := track.New("http://example.com/a.mp3")
	if h.insert(b) {
		t.Fatal("identical URL should be rejected as a duplicate")
	}
}
