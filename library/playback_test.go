// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import "testing"

// buildScenarioE sets up the library scenario 8.E: three tracks A1, A2, B1
// under albums A and B of one artist.
func buildScenarioE(t *testing.T) (lib *Library, a1, a2, b1 *TreeTrack) {
	t.Helper()
	// Keys are drawn in Add order: album A, track A1, track A2, album B,
	// track B1. Album A's shuffle key (10) sorts before Album B's (20), so
	// next(albumA, ScopeAll) deterministically picks Album B.
	fixedKeys(t, []uint64{10, 1, 2, 20, 3})

	lib = New()
	lib.Add(mkTrack("/a1.mp3", "One Artist", "Album A", "A1", 1, 1, 2000))
	lib.Add(mkTrack("/a2.mp3", "One Artist", "Album A", "A2", 1, 2, 2000))
	lib.Add(mkTrack("/b1.mp3", "One Artist", "Album B", "B1", 1, 1, 2000))

	lib.IterateTree(func(tt *TreeTrack) bool {
		switch tt.Track.Title {
		case "A1":
			a1 = tt
		case "A2":
			a2 = tt
		case "B1":
			b1 = tt
		}
		return true
	})
	return lib, a1, a2, b1
}

func TestPlaybackScenarioE(t *testing.T) {
	lib, _, a2, b1 := buildScenarioE(t)
	lib.SetCurrent(a2)

	sel := Selector{Shuffle: ShuffleAlbums, Sort: false, Scope: ScopeAll, Repeat: false}
	next := lib.Next(sel)
	if next != b1 {
		t.Fatalf("Next() = %v, want B1 (tree order: end of album A, first of album B)", next)
	}

	next2 := lib.Next(sel)
	if next2 != nil {
		t.Fatalf("second Next() = %v, want nil (repeat is off)", next2)
	}
}

func TestPlaybackTreeOrderWithinAlbum(t *testing.T) {
	lib, a1, a2, _ := buildScenarioE(t)
	lib.SetCurrent(a1)

	sel := Selector{Shuffle: ShuffleNone, Sort: false, Scope: ScopeAll, Repeat: false}
	next := lib.Next(sel)
	if next != a2 {
		t.Fatalf("Next() within album A = %v, want A2", next)
	}
}

func TestPlaybackTreeOrderCrossesAlbumAndWrapsOnRepeat(t *testing.T) {
	lib, a1, _, b1 := buildScenarioE(t)
	lib.SetCurrent(b1)

	sel := Selector{Shuffle: ShuffleNone, Sort: false, Scope: ScopeAll, Repeat: false}
	if got := lib.Next(sel); got != nil {
		t.Fatalf("Next() past the last track with repeat off = %v, want nil", got)
	}

	sel.Repeat = true
	if got := lib.Next(sel); got != a1 {
		t.Fatalf("Next() past the last track with repeat on = %v, want A1 (wrap to beginning)", got)
	}
}

func TestPlaybackNextThenPrevReturnsToSameTrack(t *testing.T) {
	lib, a1, a2, _ := buildScenarioE(t)
	lib.SetCurrent(a1)

	sel := Selector{Shuffle: ShuffleNone, Sort: false, Scope: ScopeAll, Repeat: false}
	next := lib.Next(sel)
	if next != a2 {
		t.Fatalf("Next() = %v, want A2", next)
	}
	prev := lib.Prev(sel)
	if prev != a1 {
		t.Fatalf("Prev() after Next() = %v, want A1 (property 12)", prev)
	}
}

func TestPlaybackAlbumScopeNeverLeavesAlbum(t *testing.T) {
	lib, a1, a2, _ := buildScenarioE(t)
	lib.SetCurrent(a2)

	sel := Selector{Shuffle: ShuffleNone, Sort: false, Scope: ScopeAlbum, Repeat: false}
	if got := lib.Next(sel); got != nil {
		t.Fatalf("Next() at album end with ScopeAlbum = %v, want nil (must not cross into album B)", got)
	}

	sel.Repeat = true
	if got := lib.Next(sel); got != a1 {
		t.Fatalf("Next() at album end with ScopeAlbum+Repeat = %v, want A1 (wraps within album only)", got)
	}
}

func TestPlaybackEmptyLibraryReturnsNil(t *testing.T) {
	lib := New()
	sel := Selector{Shuffle: ShuffleNone, Sort: false, Scope: ScopeAll, Repeat: false}
	if got := lib.Next(sel); got != nil {
		t.Fatal("Next() on an empty library should return nil")
	}
}

func TestPlaybackNextAlbumSkipsWithinAlbumStepping(t *testing.T) {
	lib, a1, _, b1 := buildScenarioE(t)
	lib.SetCurrent(a1)

	sel := Selector{Scope: ScopeAll, Repeat: false}
	got := lib.NextAlbum(sel)
	if got != b1 {
		t.Fatalf("NextAlbum() = %v, want B1's album's first track directly, skipping A2", got)
	}
}
