// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import (
	"math/rand"

	"github.com/google/btree"
)

// randUint64 generates the ephemeral shuffle key for a newly inserted
// element. It is a package variable, not a bare call to rand.Uint64, so
// tests can substitute a deterministic sequence without having to predict
// real randomness (scenario E needs "next() picks the other album"
// determinism with only two albums in play).
var randUint64 = rand.Uint64

// ScopeKind selects how far a shuffle or playback-selector lookup is allowed
// to range: the whole tree, one artist, or one album.
type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeArtist
	ScopeAlbum
)

// Scope pins a lookup to an artist or album when its Kind requires one.
type Scope struct {
	Kind   ScopeKind
	Artist *Artist
	Album  *Album
}

func (s Scope) matches(artist *Artist, album *Album) bool {
	switch s.Kind {
	case ScopeAlbum:
		return album == s.Album
	case ScopeArtist:
		return artist == s.Artist
	default:
		return true
	}
}

// shuffleElem is implemented by *TreeTrack and *Album, the two kinds of
// object that get their own shuffle ordering (§4.7).
type shuffleElem interface {
	scopeArtist() *Artist
	scopeAlbum() *Album
	shuffleKeyPtr() *uint64
}

func (tt *TreeTrack) scopeArtist() *Artist  { return tt.Album.Artist }
func (tt *TreeTrack) scopeAlbum() *Album    { return tt.Album }
func (tt *TreeTrack) shuffleKeyPtr() *uint64 { return &tt.shuffleKey }

func (al *Album) scopeArtist() *Artist  { return al.Artist }
func (al *Album) scopeAlbum() *Album    { return al }
func (al *Album) shuffleKeyPtr() *uint64 { return &al.shuffleKey }

type shuffleEntry struct {
	key  uint64
	elem shuffleElem
}

func (x shuffleEntry) Less(than btree.Item) bool { return x.key < than.(shuffleEntry).key }

// shuffleOrder is the red-black-tree-keyed-by-random-number ordering spec.md
// §3/§4.7 describes. google/btree's balanced tree stands in for the
// hand-rolled red-black tree: both give O(log n) insert/delete/successor,
// and nothing in the algorithm cares which self-balancing scheme is under
// the hood.
type shuffleOrder struct {
	tree *btree.BTree
}

func newShuffleOrder() *shuffleOrder {
	return &shuffleOrder{tree: btree.New(btreeDegree)}
}

func (s *shuffleOrder) insert(e shuffleElem) {
	key := randUint64()
	*e.shuffleKeyPtr() = key
	s.tree.ReplaceOrInsert(shuffleEntry{key, e})
}

func (s *shuffleOrder) remove(e shuffleElem) {
	s.tree.Delete(shuffleEntry{*e.shuffleKeyPtr(), e})
}

// reshuffle reassigns every element a fresh random key, relocating it in
// the tree. Scenario-level determinism for tests comes from overriding
// randUint64, not from any ordering guarantee reshuffle itself makes.
func (s *shuffleOrder) reshuffle() {
	old := make([]shuffleElem, 0, s.tree.Len())
	s.tree.Ascend(func(i btree.Item) bool {
		old = append(old, i.(shuffleEntry).elem)
		return true
	})
	s.tree = btree.New(btreeDegree)
	for _, e := range old {
		s.insert(e)
	}
}

// next returns the in-order successor of current passing scope, or the
// first matching element if current is nil. It returns nil if nothing in
// scope follows current (callers that want repeat-wrap apply it
// themselves, matching spec.md's literal step-by-step algorithm rather than
// building wraparound into the ordering itself).
func (s *shuffleOrder) next(current shuffleElem, scope Scope) shuffleElem {
	if current == nil {
		var found shuffleElem
		s.tree.Ascend(func(i btree.Item) bool {
			e := i.(shuffleEntry).elem
			if scope.matches(e.scopeArtist(), e.scopeAlbum()) {
				found = e
				return false
			}
			return true
		})
		return found
	}
	var found shuffleElem
	pivot := shuffleEntry{*current.shuffleKeyPtr(), current}
	s.tree.AscendGreaterOrEqual(pivot, func(i btree.Item) bool {
		e := i.(shuffleEntry).elem
		if e == current {
			return true
		}
		if scope.matches(e.scopeArtist(), e.scopeAlbum()) {
			found = e
			return false
		}
		return true
	})
	return found
}

// prev is next's mirror image: the in-order predecessor of current passing
// scope, or the last matching element if current is nil.
func (s *shuffleOrder) prev(current shuffleElem, scope Scope) shuffleElem {
	if current == nil {
		var found shuffleElem
		s.tree.Descend(func(i btree.Item) bool {
			e := i.(shuffleEntry).elem
			if scope.matches(e.scopeArtist(), e.scopeAlbum()) {
				found = e
				return false
			}
			return true
		})
		return found
	}
	var found shuffleElem
	pivot := shuffleEntry{*current.shuffleKeyPtr(), current}
	s.tree.DescendLessOrEqual(pivot, func(i btree.Item) bool {
		e := i.(shuffleEntry).elem
		if e == current {
			return true
		}
		if scope.matches(e.scopeArtist(), e.scopeAlbum()) {
			found = e
			return false
		}
		return true
	})
	return found
}
