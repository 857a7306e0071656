// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import "testing"

// fixedKeys overrides randUint64 with a deterministic sequence for the
// duration of a test, restoring the original generator afterward. Scenario
// E's album-shuffle ordering needs a pinned key sequence to make "next"
// pick a specific album rather than whichever one a real PRNG hands it.
func fixedKeys(t *testing.T, seq []uint64) {
	t.Helper()
	i := 0
	orig := randUint64
	randUint64 = func() uint64 {
		if i >= len(seq) {
			t.Fatalf("fixedKeys: ran out of keys after %d calls", i)
		}
		k := seq[i]
		i++
		return k
	}
	t.Cleanup(func() { randUint64 = orig })
}

func TestShuffleOrderReshuffleIsAPermutation(t *testing.T) {
	s := newShuffleOrder()
	a := mkTrack("/a.mp3", "Artist", "Album", "A", 1, 1, 2000)
	b := mkTrack("/b.mp3", "Artist", "Album", "B", 1, 2, 2000)
	tr := newTree(false, nil, nil)
	ttA, _ := tr.add(a)
	ttB, _ := tr.add(b)

	s.insert(ttA)
	s.insert(ttB)
	if s.tree.Len() != 2 {
		t.Fatalf("tree has %d elements, want 2", s.tree.Len())
	}

	s.reshuffle()
	if s.tree.Len() != 2 {
		t.Fatalf("tree has %d elements after reshuffle, want 2 (property 11)", s.tree.Len())
	}

	seen := map[*TreeTrack]bool{}
	all := Scope{Kind: ScopeAll}
	for e := s.next(nil, all); e != nil; e = s.next(e, all) {
		seen[e.(*TreeTrack)] = true
	}
	if !seen[ttA] || !seen[ttB] || len(seen) != 2 {
		t.Fatal("reshuffle must preserve the multiset of elements")
	}
}

func TestShuffleOrderNextFromNilIsFirst(t *testing.T) {
	fixedKeys(t, []uint64{10, 20})
	s := newShuffleOrder()
	tr := newTree(false, nil, nil)
	a := mkTrack("/a.mp3", "Artist", "Album", "A", 1, 1, 2000)
	b := mkTrack("/b.mp3", "Artist", "Album", "B", 1, 2, 2000)
	ttA, _ := tr.add(a)
	ttB, _ := tr.add(b)
	s.insert(ttA) // key 10
	s.insert(ttB) // key 20

	all := Scope{Kind: ScopeAll}
	first := s.next(nil, all)
	if first != ttA {
		t.Fatal("next(nil) should return the smallest-keyed element")
	}
	if s.next(ttA, all) != ttB {
		t.Fatal("next(ttA) should return ttB")
	}
	if s.next(ttB, all) != nil {
		t.Fatal("next(ttB) should be nil: nothing follows the largest key")
	}
}

func TestShuffleOrderScopeFiltersAlbum(t *testing.T) {
	fixedKeys(t, []uint64{1, 2, 3})
	s := newShuffleOrder()
	tr := newTree(false, nil, nil)
	a1 := mkTrack("/a1.mp3", "Artist", "Album A", "A1", 1, 1, 2000)
	a2 := mkTrack("/a2.mp3", "Artist", "Album A", "A2", 1, 2, 2000)
	b1 := mkTrack("/b1.mp3", "Artist", "Album B", "B1", 1, 1, 2000)
	ttA1, _ := tr.add(a1)
	ttA2, _ := tr.add(a2)
	ttB1, _ := tr.add(b1)
	s.insert(ttA1)
	s.insert(ttA2)
	s.insert(ttB1)

	scope := Scope{Kind: ScopeAlbum, Album: ttA1.Album}
	if s.next(ttA1, scope) != ttA2 {
		t.Fatal("scoped next should stay within the album")
	}
	if s.next(ttA2, scope) != nil {
		t.Fatal("scoped next should not cross into another album")
	}
}
