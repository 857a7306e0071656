// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

// Package library implements the in-memory music index: a hash of source
// locators guarding uniqueness, a three-level artist/album/track tree, a
// sorted editable list, shuffle orderings, the playback selector and the
// live/add/view filter coordinator described by the core.
package library

import (
	"strings"

	"github.com/yookoala/realpath"

	"github.com/ambrevar/libmuse/track"
)

// locatorHash maps a canonicalized source locator to the track holding that
// exact locator. It is a plain Go map rather than the separate-chaining
// bucket array of the reference implementation: Go's builtin map already is
// a chained hash table with a stable amortized cost, so reimplementing
// buckets by hand would only hide the same algorithm behind more code.
type locatorHash struct {
	entries map[string]*track.Track
}

func newLocatorHash() *locatorHash {
	return &locatorHash{entries: map[string]*track.Track{}}
}

// canonicalLocator resolves a filesystem locator to its real path before
// hashing, so that symlinks and ".." traversal never produce two hash
// entries for what is really one file. URLs (and paths realpath cannot
// resolve, e.g. one that does not exist yet) are hashed unchanged: a failed
// resolution must never block Add.
func canonicalLocator(locator string) string {
	if isURL(locator) {
		return locator
	}
	if rp, err := realpath.Realpath(locator); err == nil {
		return rp
	}
	return locator
}

func isURL(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") ||
		strings.Contains(locator, "://")
}

// insert adds t under its canonical locator, refusing a locator already
// present. It reports whether the insert happened.
func (h *locatorHash) insert(t *track.Track) bool {
	key := canonicalLocator(t.Locator)
	if _, exists := h.entries[key]; exists {
		return false
	}
	h.entries[key] = t
	t.Ref()
	return true
}

// remove drops the entry whose track pointer equals t, if any, releasing the
// hash's reference.
func (h *locatorHash) remove(t *track.Track) {
	key := canonicalLocator(t.Locator)
	if cur, ok := h.entries[key]; ok && cur == t {
		delete(h.entries, key)
		t.Unref()
	}
}

func (h *locatorHash) clear() {
	for k, t := range h.entries {
		t.Unref()
		delete(h.entries, k)
	}
}

func (h *locatorHash) each(visit func(*track.Track)) {
	for _, t := range h.entries {
		visit(t)
	}
}
