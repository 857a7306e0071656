// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import (
	"fmt"
	"sync"

	"github.com/ambrevar/libmuse/filter"
	"github.com/ambrevar/libmuse/track"
	"github.com/ambrevar/libmuse/ucol"
)

// AddResult reports the outcome of Library.Add.
type AddResult int

const (
	Added AddResult = iota
	DuplicateLocator
	RejectedByAddFilter
	RejectedByExistenceCheck
)

func (r AddResult) String() string {
	switch r {
	case Added:
		return "added"
	case DuplicateLocator:
		return "duplicate locator"
	case RejectedByAddFilter:
		return "rejected by add filter"
	case RejectedByExistenceCheck:
		return "rejected by existence check"
	default:
		return "unknown"
	}
}

// Library is the in-memory index: one locator hash, one artist/album/track
// tree, one sorted editable list, two shuffle orderings (tracks, albums),
// and the three filter slots of §4.9. A single mutex serializes every
// mutating operation, matching the one-lock model of §5; the scan worker
// that calls Add is expected to release it between tracks rather than hold
// it for a whole batch.
type Library struct {
	mu sync.Mutex

	hash *locatorHash
	tree *tree
	list *editableList

	trackShuffle *shuffleOrder
	albumShuffle *shuffleOrder

	byTrack     map[*track.Track]*TreeTrack // tracks currently passing the views
	existTuples map[string]bool

	addFilter  filter.Node
	addExpr    string
	viewFilter filter.Node
	viewExpr   string
	liveFilter string

	// ExistenceCheck enables the secondary (collated-album-artist,
	// collated-album, disc, track, collated-title) duplicate rejection.
	ExistenceCheck bool

	// Resolver resolves a non-builtin BOOL leaf's key to a named filter's raw
	// expression string, as required by filter.CheckLeaves. Left nil, no
	// named filters exist and every non-builtin BOOL leaf fails to resolve.
	Resolver filter.Resolver

	current *TreeTrack
}

// New creates an empty Library.
func New() *Library {
	l := &Library{
		hash:        newLocatorHash(),
		byTrack:     map[*track.Track]*TreeTrack{},
		existTuples: map[string]bool{},
	}
	l.trackShuffle = newShuffleOrder()
	l.albumShuffle = newShuffleOrder()
	l.tree = newTree(false, l.onAlbumAdded, l.onAlbumRemoved)
	l.list = newEditableList()
	return l
}

func (l *Library) onAlbumAdded(al *Album)   { l.albumShuffle.insert(al) }
func (l *Library) onAlbumRemoved(al *Album) { l.albumShuffle.remove(al) }

// SetMergeVA toggles the "merge VA" rule of §4.5: a compilation-tagged
// track's album is keyed by its collated name alone, without the date and
// album-artist parts, so compilation tracks of one album name under the same
// tree artist share one album node whatever their dates. Tracks are still
// filed under their album-artist (or artist) first; compilation tracks filed
// under different artists are not folded together. It is a method rather than a plain exported field because
// the rule lives on the tree itself, applied at add time: a field the
// caller could set without the tree ever seeing it would silently do
// nothing, so this is the only way to change it. Only tracks added after
// the call observe the new setting; it does not retroactively re-merge or
// re-split albums already in the tree.
func (l *Library) SetMergeVA(merge bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tree.mergeVA = merge
}

// MergeVA reports the current merge-VA setting.
func (l *Library) MergeVA() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.mergeVA
}

func (l *Library) resolver() filter.Resolver {
	if l.Resolver != nil {
		return l.Resolver
	}
	return func(string) (string, bool) { return "", false }
}

// existenceKey builds the secondary-duplicate tuple key from a track's
// collated identity fields.
func existenceKey(t *track.Track) string {
	return fmt.Sprintf("%s\x00%s\x00%d\x00%d\x00%s",
		t.AlbumArtistKey, t.AlbumKey, t.DiscNumber, t.TrackNumber, t.TitleKey)
}

// Add composes add-filter, existence check, hash insert and (if the track
// passes the current view-filter) tree/list/shuffle insertion, exactly in
// that order (§4.5's add-track pipeline).
func (l *Library) Add(t *track.Track) AddResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.addFilter != nil && !filter.Evaluate(l.addFilter, t) {
		return RejectedByAddFilter
	}

	key := existenceKey(t)
	if l.ExistenceCheck {
		if l.existTuples[key] {
			return RejectedByExistenceCheck
		}
	}

	if !l.hash.insert(t) {
		return DuplicateLocator
	}
	l.existTuples[key] = true

	if l.passesViewsLocked(t) {
		l.insertIntoViewsLocked(t)
	}
	return Added
}

// passesViewsLocked reports whether t should be visible under the current
// view-filter and live-filter.
func (l *Library) passesViewsLocked(t *track.Track) bool {
	if l.viewFilter != nil && !filter.Evaluate(l.viewFilter, t) {
		return false
	}
	if l.liveFilter != "" && !matchesLiveFilter(t, l.liveFilter) {
		return false
	}
	return true
}

func (l *Library) insertIntoViewsLocked(t *track.Track) *TreeTrack {
	tt, _ := l.tree.add(t) // onAlbumAdded puts a newly created album into albumShuffle
	l.list.append(tt)
	l.trackShuffle.insert(tt)
	l.byTrack[t] = tt
	return tt
}

func (l *Library) removeFromViewsLocked(tt *TreeTrack) {
	l.trackShuffle.remove(tt)
	l.tree.remove(tt) // onAlbumRemoved drops the album from albumShuffle if emptied
	l.list.unlink(tt.listElem)
	delete(l.byTrack, tt.Track)
	if l.current == tt {
		l.current = nil
	}
}

// Remove drops t from the hash and, if present, from every view.
func (l *Library) Remove(t *track.Track) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tt, ok := l.byTrack[t]; ok {
		l.removeFromViewsLocked(tt)
	}
	l.hash.remove(t)
	delete(l.existTuples, existenceKey(t))
}

// ClearAll drops every track from the hash and every view.
func (l *Library) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hash.clear()
	l.tree.clear()
	l.list.clear()
	l.trackShuffle = newShuffleOrder()
	l.albumShuffle = newShuffleOrder()
	l.byTrack = map[*track.Track]*TreeTrack{}
	l.existTuples = map[string]bool{}
	l.current = nil
}

// Current returns the currently playing track, or nil.
func (l *Library) Current() *TreeTrack {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// SetCurrent forces the current track pointer, taking a reference on the
// new track and dropping the old one the way changing now-playing always
// does (§4.8's "State" paragraph).
func (l *Library) SetCurrent(tt *TreeTrack) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setCurrentLocked(tt)
}

func (l *Library) setCurrentLocked(tt *TreeTrack) {
	if l.current == tt {
		return
	}
	if l.current != nil {
		l.current.Track.Unref()
	}
	l.current = tt
	if tt != nil {
		tt.Track.Ref()
	}
}

// IterateTree walks every visible track in artist/album/track order.
func (l *Library) IterateTree(visit func(*TreeTrack) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tree.each(visit)
}

// IterateSorted walks every visible track in the editable list's current
// sort order.
func (l *Library) IterateSorted(visit func(*TreeTrack) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.list.each(visit)
}

// Mark/Unmark toggle a track's selection-window mark, maintaining the
// incremental marked count.
func (l *Library) Mark(tt *TreeTrack) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.list.mark(tt)
}

func (l *Library) Unmark(tt *TreeTrack) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.list.unmark(tt)
}

// SetAddFilter compiles expr as the add-time filter. An empty string clears
// it. Add-filter changes never touch existing views: §4.9's rebuild/prune
// decision governs the view and live filters only.
func (l *Library) SetAddFilter(expr string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expr == "" {
		l.addFilter, l.addExpr = nil, ""
		return nil
	}
	n, err := filter.Parse(expr)
	if err != nil {
		return err
	}
	if err := filter.CheckLeaves(&n, l.resolver()); err != nil {
		return err
	}
	l.addFilter, l.addExpr = n, expr
	return nil
}

// SetSort parses spec via ParseSort and re-sorts the editable list.
func (l *Library) SetSort(spec string) error {
	keys, err := ParseSort(spec)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.list.setSortKeys(keys)
	return nil
}

// matchesLiveFilter implements the live filter's free-text substring
// search over {artist, album, title, album-artist, filename}, or, when
// filter.IsShorthand(s) (the first character after leading spaces, '!' and
// '(' is '~'), the short-form expansion described in §4.3.
func matchesLiveFilter(t *track.Track, s string) bool {
	if filter.IsShorthand(s) {
		expanded, err := filter.Expand(s)
		if err != nil {
			return false
		}
		n, err := filter.Parse(expanded)
		if err != nil {
			return false
		}
		if err := filter.CheckLeaves(&n, func(string) (string, bool) { return "", false }); err != nil {
			return false
		}
		return filter.Evaluate(n, t)
	}
	return ucol.ContainsFold(t.Artist, s) ||
		ucol.ContainsFold(t.Album, s) ||
		ucol.ContainsFold(t.Title, s) ||
		ucol.ContainsFold(t.AlbumArtist, s) ||
		ucol.ContainsFold(t.Locator, s)
}
