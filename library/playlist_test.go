// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import (
	"bytes"
	"strings"
	"testing"
)

func TestSaveLibraryWritesOneLocatorPerLine(t *testing.T) {
	var buf bytes.Buffer
	if err := SaveLibrary(&buf, []string{"/a.mp3", "/b.mp3"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "/a.mp3\n/b.mp3\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestLoadLibrarySkipsBlankAndCommentLines(t *testing.T) {
	input := "# a comment\n\n/a.mp3\n/b.mp3\n# trailing\n"
	got, err := LoadLibrary(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/a.mp3", "/b.mp3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
