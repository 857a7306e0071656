// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

// ShuffleMode selects which of the two randomized orderings, if either,
// governs next/prev track selection (§4.8).
type ShuffleMode int

const (
	ShuffleNone ShuffleMode = iota
	ShuffleTracks
	ShuffleAlbums
)

// Selector bundles the inputs to the playback algorithm of §4.8 that are not
// already held by the Library itself: the shuffle mode, whether play order
// follows the editable list's sort order or tree order, the album/artist
// scope boundary, and whether running off the end wraps around.
type Selector struct {
	Shuffle ShuffleMode
	Sort    bool
	Scope   ScopeKind
	Repeat  bool
}

// scopeOf builds a Scope pinned to tt's artist/album, honoring s.Scope. With
// nothing currently playing there is no anchor to pin an artist/album scope
// to, so it falls back to ScopeAll: spec.md's "next returns the first
// element passing the filter" presupposes a scope that can actually be
// evaluated, and an artist/album scope with no artist/album is vacuous.
func scopeOf(s Selector, tt *TreeTrack) Scope {
	if tt == nil {
		return Scope{Kind: ScopeAll}
	}
	switch s.Scope {
	case ScopeArtist:
		return Scope{Kind: ScopeArtist, Artist: tt.Album.Artist}
	case ScopeAlbum:
		return Scope{Kind: ScopeAlbum, Album: tt.Album}
	default:
		return Scope{Kind: ScopeAll}
	}
}

// Next advances to the next track per §4.8 and returns it, or nil if there
// is nowhere to go (empty tree, or end of scope with repeat off). The new
// track becomes the library's current track, as §4.8's "State" paragraph
// requires of every playback transition.
func (l *Library) Next(s Selector) *TreeTrack {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.advanceLocked(s, true)
}

// Prev is Next's mirror image.
func (l *Library) Prev(s Selector) *TreeTrack {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.advanceLocked(s, false)
}

// NextAlbum jumps unconditionally to the first track of the next album in
// the album-shuffle ordering (shuffle mode irrelevant), per §4.8's "Next
// album" variant.
func (l *Library) NextAlbum(s Selector) *TreeTrack {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.jumpAlbumLocked(s, true)
}

// PrevAlbum is NextAlbum's mirror image.
func (l *Library) PrevAlbum(s Selector) *TreeTrack {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.jumpAlbumLocked(s, false)
}

func (l *Library) jumpAlbumLocked(s Selector, forward bool) *TreeTrack {
	if l.tree.empty() {
		return nil
	}
	cur := l.current
	var curAlbum shuffleElem
	if cur != nil {
		curAlbum = cur.Album
	}
	scope := scopeOf(s, cur)

	var al shuffleElem
	if forward {
		al = l.albumShuffle.next(curAlbum, scope)
	} else {
		al = l.albumShuffle.prev(curAlbum, scope)
	}
	if al == nil {
		if !s.Repeat {
			return nil
		}
		if forward {
			al = l.albumShuffle.next(nil, scope)
		} else {
			al = l.albumShuffle.prev(nil, scope)
		}
		if al == nil {
			return nil
		}
	}

	album := al.(*Album)
	tt := l.albumFirstTrack(album, s.Sort)
	if tt != nil {
		l.setCurrentLocked(tt)
	}
	return tt
}

func (l *Library) albumFirstTrack(al *Album, bySort bool) *TreeTrack {
	if bySort {
		return l.list.firstInAlbum(al)
	}
	return al.firstTrack()
}

func (l *Library) albumLastTrack(al *Album, bySort bool) *TreeTrack {
	if bySort {
		return l.list.lastInAlbum(al)
	}
	return al.lastTrack()
}

// advanceLocked implements the five-way branch of §4.8's algorithm.
func (l *Library) advanceLocked(s Selector, forward bool) *TreeTrack {
	if l.tree.empty() {
		return nil
	}
	cur := l.current

	var tt *TreeTrack
	switch s.Shuffle {
	case ShuffleTracks:
		tt = l.advanceTrackShuffleLocked(s, cur, forward)
	case ShuffleAlbums:
		tt = l.advanceAlbumShuffleLocked(s, cur, forward)
	default:
		if s.Sort {
			tt = l.advanceSortedLocked(s, cur, forward)
		} else {
			tt = l.advanceTreeOrderLocked(s, cur, forward)
		}
	}

	// A nil result means "stop", not "nothing is playing": the current
	// track pointer (and the scope it anchors for a later repeat-bounded
	// call) is left untouched rather than cleared.
	if tt != nil {
		l.setCurrentLocked(tt)
	}
	return tt
}

func (l *Library) advanceTrackShuffleLocked(s Selector, cur *TreeTrack, forward bool) *TreeTrack {
	scope := scopeOf(s, cur)
	var e shuffleElem
	if cur != nil {
		e = cur
	}
	var next shuffleElem
	if forward {
		next = l.trackShuffle.next(e, scope)
	} else {
		next = l.trackShuffle.prev(e, scope)
	}
	if next == nil {
		if !s.Repeat {
			return nil
		}
		if forward {
			next = l.trackShuffle.next(nil, scope)
		} else {
			next = l.trackShuffle.prev(nil, scope)
		}
	}
	if next == nil {
		return nil
	}
	return next.(*TreeTrack)
}

// advanceAlbumShuffleLocked walks within the current album (sorted or tree
// order per s.Sort) until it ends, then picks the next album from the
// album-shuffle ordering and takes that album's first (or last, going
// backward) track.
func (l *Library) advanceAlbumShuffleLocked(s Selector, cur *TreeTrack, forward bool) *TreeTrack {
	if cur != nil {
		var within *TreeTrack
		if forward {
			within = l.withinAlbumStep(cur, s.Sort, true)
		} else {
			within = l.withinAlbumStep(cur, s.Sort, false)
		}
		if within != nil {
			return within
		}
	}

	scope := scopeOf(s, cur)
	var curAlbum shuffleElem
	if cur != nil {
		curAlbum = cur.Album
	}
	var al shuffleElem
	if forward {
		al = l.albumShuffle.next(curAlbum, scope)
	} else {
		al = l.albumShuffle.prev(curAlbum, scope)
	}
	if al == nil {
		if !s.Repeat {
			return nil
		}
		if forward {
			al = l.albumShuffle.next(nil, scope)
		} else {
			al = l.albumShuffle.prev(nil, scope)
		}
		if al == nil {
			return nil
		}
	}

	album := al.(*Album)
	if forward {
		return l.albumFirstTrack(album, s.Sort)
	}
	return l.albumLastTrack(album, s.Sort)
}

// withinAlbumStep returns the next/previous track inside cur's own album
// (by sort or tree order), or nil once it runs off either end.
func (l *Library) withinAlbumStep(cur *TreeTrack, bySort, forward bool) *TreeTrack {
	var next *TreeTrack
	if bySort {
		if forward {
			next = l.list.successor(cur)
		} else {
			next = l.list.predecessor(cur)
		}
	} else {
		if forward {
			next = treeSuccessorInAlbum(cur)
		} else {
			next = treePredecessorInAlbum(cur)
		}
	}
	if next != nil && next.Album == cur.Album {
		return next
	}
	return nil
}

func (l *Library) advanceSortedLocked(s Selector, cur *TreeTrack, forward bool) *TreeTrack {
	scope := scopeOf(s, cur)
	next := cur
	for {
		if forward {
			if next == nil {
				next = l.list.first()
			} else {
				next = l.list.successor(next)
			}
		} else {
			if next == nil {
				next = l.list.last()
			} else {
				next = l.list.predecessor(next)
			}
		}
		if next == nil {
			break
		}
		if scope.matches(next.Album.Artist, next.Album) {
			return next
		}
	}
	if !s.Repeat || cur == nil {
		return nil
	}
	return l.advanceSortedLocked(Selector{Shuffle: s.Shuffle, Sort: s.Sort, Scope: s.Scope, Repeat: false}, nil, forward)
}

// advanceTreeOrderLocked is §4.8 case 5: step inside the album; at album
// end, first track of the next album inside the artist; at artist end, next
// artist; at root end, wrap only if repeat is set. Every boundary is
// bounded by scope, so e.g. ScopeArtist never steps outside the current
// artist even with repeat off (it simply returns nil there).
func (l *Library) advanceTreeOrderLocked(s Selector, cur *TreeTrack, forward bool) *TreeTrack {
	if cur == nil {
		return l.treeFirstOrLast(s, forward)
	}

	if within := treeStepInAlbum(cur, forward); within != nil {
		return within
	}

	album := cur.Album
	artist := album.Artist

	if s.Scope == ScopeAlbum {
		return l.wrapIfRepeat(s, forward, func() *TreeTrack { return l.treeFirstOrLastInAlbum(album, forward) })
	}

	var nextAlbum *Album
	if forward {
		nextAlbum = artist.successorAlbum(album)
	} else {
		nextAlbum = artist.predecessorAlbum(album)
	}
	if nextAlbum != nil {
		return treeEdgeTrack(nextAlbum, forward)
	}

	if s.Scope == ScopeArtist {
		return l.wrapIfRepeat(s, forward, func() *TreeTrack {
			edge := l.artistFirstOrLastAlbum(artist, forward)
			return treeEdgeTrack(edge, forward)
		})
	}

	var nextArtist *Artist
	if forward {
		nextArtist = l.tree.successorArtist(artist)
	} else {
		nextArtist = l.tree.predecessorArtist(artist)
	}
	if nextArtist != nil {
		edge := l.artistFirstOrLastAlbum(nextArtist, forward)
		return treeEdgeTrack(edge, forward)
	}

	return l.wrapIfRepeat(s, forward, func() *TreeTrack { return l.treeFirstOrLast(s, forward) })
}

func (l *Library) wrapIfRepeat(s Selector, forward bool, wrap func() *TreeTrack) *TreeTrack {
	if !s.Repeat {
		return nil
	}
	return wrap()
}

func (l *Library) treeFirstOrLast(s Selector, forward bool) *TreeTrack {
	if forward {
		art := l.tree.firstArtist()
		if art == nil {
			return nil
		}
		al := art.firstAlbum()
		return treeEdgeTrack(al, true)
	}
	art := l.tree.lastArtist()
	if art == nil {
		return nil
	}
	al := art.lastAlbum()
	return treeEdgeTrack(al, false)
}

func (l *Library) treeFirstOrLastInAlbum(al *Album, forward bool) *TreeTrack {
	return treeEdgeTrack(al, forward)
}

func (l *Library) artistFirstOrLastAlbum(art *Artist, forward bool) *Album {
	if forward {
		return art.firstAlbum()
	}
	return art.lastAlbum()
}

func treeEdgeTrack(al *Album, forward bool) *TreeTrack {
	if al == nil {
		return nil
	}
	if forward {
		return al.firstTrack()
	}
	return al.lastTrack()
}

// treeStepInAlbum and its successor/predecessor helpers walk the album's own
// track btree directly rather than going through the editable list, so tree
// order (case 5) and sorted order (case 4) can disagree.
func treeStepInAlbum(cur *TreeTrack, forward bool) *TreeTrack {
	if forward {
		return treeSuccessorInAlbum(cur)
	}
	return treePredecessorInAlbum(cur)
}
