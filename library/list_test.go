// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import "testing"

func TestEditableListAppendAndEach(t *testing.T) {
	l := newEditableList()
	tr := newTree(false, nil, nil)
	a, _ := tr.add(mkTrack("/a.mp3", "Artist", "Album", "A", 1, 1, 2000))
	b, _ := tr.add(mkTrack("/b.mp3", "Artist", "Album", "B", 1, 2, 2000))
	l.append(a)
	l.append(b)

	var got []string
	l.each(func(tt *TreeTrack) bool { got = append(got, tt.Track.Title); return true })
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("each order = %v, want [A B]", got)
	}
	if l.length != 2 {
		t.Fatalf("length = %d, want 2", l.length)
	}
}

func TestEditableListSortDescending(t *testing.T) {
	l := newEditableList()
	tr := newTree(false, nil, nil)
	a, _ := tr.add(mkTrack("/a.mp3", "Artist", "Album", "A Track", 1, 1, 2000))
	b, _ := tr.add(mkTrack("/b.mp3", "Artist", "Album", "B Track", 1, 2, 2000))
	l.append(a)
	l.append(b)

	l.setSortKeys([]SortKey{{Field: "title", Descending: true}})
	var got []string
	l.each(func(tt *TreeTrack) bool { got = append(got, tt.Track.Title); return true })
	if len(got) != 2 || got[0] != "B Track" || got[1] != "A Track" {
		t.Fatalf("descending title order = %v, want [B Track A Track]", got)
	}
}

func TestEditableListRemoveMatchingUpdatesTotals(t *testing.T) {
	l := newEditableList()
	tr := newTree(false, nil, nil)
	a, _ := tr.add(mkTrack("/a.mp3", "Artist", "Album", "A", 1, 1, 2000))
	b, _ := tr.add(mkTrack("/b.mp3", "Artist", "Album", "B", 1, 2, 2000))
	a.Track.Duration = 100
	b.Track.Duration = 200
	l.append(a)
	l.append(b)

	if l.totalDuration != 300 {
		t.Fatalf("totalDuration = %d, want 300", l.totalDuration)
	}

	l.removeMatching(func(tt *TreeTrack) bool { return tt.Track.Title == "A" })
	if l.length != 1 {
		t.Fatalf("length after removeMatching = %d, want 1", l.length)
	}
	if l.totalDuration != 200 {
		t.Fatalf("totalDuration after removeMatching = %d, want 200", l.totalDuration)
	}
}

func TestEditableListMarkUnmarkToggle(t *testing.T) {
	l := newEditableList()
	tr := newTree(false, nil, nil)
	a, _ := tr.add(mkTrack("/a.mp3", "Artist", "Album", "A", 1, 1, 2000))
	l.append(a)

	l.mark(a)
	if l.markedCount != 1 || !a.Marked {
		t.Fatal("mark should set Marked and increment markedCount")
	}
	l.toggle(a)
	if l.markedCount != 0 || a.Marked {
		t.Fatal("toggle should unmark a marked track")
	}
}

func TestEditableListSuccessorPredecessor(t *testing.T) {
	l := newEditableList()
	tr := newTree(false, nil, nil)
	a, _ := tr.add(mkTrack("/a.mp3", "Artist", "Album", "A", 1, 1, 2000))
	b, _ := tr.add(mkTrack("/b.mp3", "Artist", "Album", "B", 1, 2, 2000))
	l.append(a)
	l.append(b)

	if l.successor(a) != b {
		t.Fatal("successor(a) should be b")
	}
	if l.successor(b) != nil {
		t.Fatal("successor(b) should be nil")
	}
	if l.predecessor(b) != a {
		t.Fatal("predecessor(b) should be a")
	}
	if l.first() != a || l.last() != b {
		t.Fatal("first/last should be a/b")
	}
}

func TestEditableListClearResetsEverything(t *testing.T) {
	l := newEditableList()
	tr := newTree(false, nil, nil)
	a, _ := tr.add(mkTrack("/a.mp3", "Artist", "Album", "A", 1, 1, 2000))
	a.Track.Duration = 42
	l.append(a)
	l.mark(a)

	l.clear()
	if l.length != 0 || l.totalDuration != 0 || l.markedCount != 0 {
		t.Fatal("clear should reset length, totalDuration and markedCount")
	}
	if a.listElem != nil {
		t.Fatal("clear should detach every node's listElem back-reference")
	}
}
