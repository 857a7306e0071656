// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import (
	"strings"

	"github.com/ambrevar/libmuse/filter"
	"github.com/ambrevar/libmuse/track"
)

// SetFilter compiles expr as the new view-filter and applies it, deciding
// between a clear-and-rebuild and an incremental prune per §4.9. IsHarmless
// alone only tells you whether expr's own comparisons can ever widen in
// isolation; it says nothing about whether expr is actually a narrowing of
// the *previous* filter, so two unrelated harmless filters (one "Miles*",
// the next "Chet*") would wrongly take the prune branch and never re-admit
// tracks the old filter hid. The correct test is syntactic: expr must
// literally extend the previous expression by conjunction for pruning to
// be safe, mirroring cmus's lib_set_filter, which always clears when
// either a previous filter or a live filter was in effect (clear_before =
// lib_live_filter || filter) and reserves the superstring/harmless
// shortcuts for its live-search path, not this one.
func (l *Library) SetFilter(expr string) error {
	var n filter.Node
	if expr != "" {
		parsed, err := filter.Parse(expr)
		if err != nil {
			return err
		}
		if err := filter.CheckLeaves(&parsed, l.resolver()); err != nil {
			return err
		}
		n = parsed
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rebuild := l.liveFilter != "" ||
		(l.viewExpr != "" && (expr == "" || !isConjunctiveRefinement(expr, l.viewExpr)))
	l.applyFilterTransitionLocked(rebuild, func() {
		l.viewFilter, l.viewExpr = n, expr
	})
	return nil
}

// isConjunctiveRefinement reports whether newExpr is syntactically oldExpr
// with one or more extra clauses conjoined onto it (oldExpr itself, or
// oldExpr parenthesized, immediately followed by '&'), the one shape in
// which adding constraints is guaranteed to only narrow what oldExpr
// already admitted. Anything else — a different expression entirely, an
// OR, a rewritten-but-equivalent form — is treated conservatively as
// unrelated and forces a rebuild.
func isConjunctiveRefinement(newExpr, oldExpr string) bool {
	old := strings.TrimSpace(oldExpr)
	if old == "" {
		return false
	}
	candidate := strings.TrimSpace(newExpr)
	return candidate == old ||
		strings.HasPrefix(candidate, old+"&") ||
		strings.HasPrefix(candidate, "("+old+")&")
}

// SetLiveFilter applies the free-text live filter, using substring
// containment of the previous search string as the "superstring" test
// §4.9 describes: narrowing an existing text search (the new string
// contains the old one) can only remove matches, so a prune suffices;
// anything else might admit tracks the old search excluded.
func (l *Library) SetLiveFilter(s string) error {
	if err := filter.ValidateInput(s, "invalid live filter"); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	old := l.liveFilter
	rebuild := old != "" && (s == "" || !strings.Contains(s, old))
	l.applyFilterTransitionLocked(rebuild, func() {
		l.liveFilter = s
	})
	return nil
}

// applyFilterTransitionLocked performs the shared machinery of §4.9 step 1,
// 3 and 4 around whichever filter slot setField actually changes: save the
// current track, apply the new filter value, then either rebuild every
// view from the hash or prune tracks that stopped matching, and finally
// restore the current track if it is still visible.
func (l *Library) applyFilterTransitionLocked(rebuild bool, setField func()) {
	savedCurrent := l.current

	setField()

	if rebuild {
		l.rebuildViewsLocked()
	} else {
		l.pruneViewsLocked()
	}

	l.restoreCurrentLocked(savedCurrent)
}

// rebuildViewsLocked empties every view (without touching the hash) and
// re-adds every hashed track that passes the current filters.
func (l *Library) rebuildViewsLocked() {
	l.tree.clear()
	l.list.clear()
	l.trackShuffle = newShuffleOrder()
	l.albumShuffle = newShuffleOrder()
	l.byTrack = map[*track.Track]*TreeTrack{}

	l.hash.each(func(t *track.Track) {
		if l.passesViewsLocked(t) {
			l.insertIntoViewsLocked(t)
		}
	})
}

// pruneViewsLocked removes from the views every currently visible track
// that no longer passes the filters, leaving everything else untouched.
func (l *Library) pruneViewsLocked() {
	for t, tt := range l.byTrack {
		if !l.passesViewsLocked(t) {
			l.removeFromViewsLocked(tt)
		}
	}
}

// restoreCurrentLocked re-adopts saved as the current track if it is still
// present in the views; otherwise the current track becomes nil.
func (l *Library) restoreCurrentLocked(saved *TreeTrack) {
	if saved == nil {
		return
	}
	if tt, ok := l.byTrack[saved.Track]; ok {
		l.setCurrentLocked(tt)
		return
	}
	l.setCurrentLocked(nil)
}

// LiveFilterMatchTypes reports which of {artist, album, title} the active
// live filter mentions, so a UI knows whether to expand tree nodes (§4.9's
// final step). A shorthand live filter is compiled and walked with
// filter.MatchTypes; a plain-text search always touches all three fields.
func (l *Library) LiveFilterMatchTypes() filter.MatchSet {
	l.mu.Lock()
	s := l.liveFilter
	l.mu.Unlock()

	if s == "" {
		return 0
	}
	if filter.IsShorthand(s) {
		expanded, err := filter.Expand(s)
		if err != nil {
			return 0
		}
		n, err := filter.Parse(expanded)
		if err != nil {
			return 0
		}
		if err := filter.CheckLeaves(&n, func(string) (string, bool) { return "", false }); err != nil {
			return 0
		}
		return filter.MatchTypes(n)
	}
	return filter.MatchArtist | filter.MatchAlbum | filter.MatchTitle
}
