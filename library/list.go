// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey names one field in a SetSort spec plus its direction.
type SortKey struct {
	Field      string
	Descending bool
}

// ParseSort parses a space-separated sort-key list such as "artist album
// -date", each name optionally prefixed with '-' for descending order.
func ParseSort(spec string) ([]SortKey, error) {
	fields := strings.Fields(spec)
	keys := make([]SortKey, 0, len(fields))
	for _, f := range fields {
		desc := false
		if strings.HasPrefix(f, "-") {
			desc = true
			f = f[1:]
		}
		if f == "" {
			return nil, fmt.Errorf("empty sort key")
		}
		if !validSortField(f) {
			return nil, fmt.Errorf("unknown sort key %q", f)
		}
		keys = append(keys, SortKey{Field: f, Descending: desc})
	}
	return keys, nil
}

func validSortField(f string) bool {
	switch f {
	case "artist", "album", "albumartist", "title", "genre",
		"tracknumber", "discnumber", "duration", "bitrate",
		"date", "originaldate", "play_count", "bpm", "filemtime",
		"trackgain", "albumgain":
		return true
	}
	return false
}

// compareDouble orders two floats with NaN treated as smallest, since a
// bare a<b/a>b comparison is false for any pair involving NaN and would
// otherwise make ReplayGain-less tracks compare equal to everything.
func compareDouble(a, b float64) int {
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareField compares a and b on one field, returning <0, 0, >0. String
// fields use locale-aware collation (the track's precomputed collation
// key); numeric fields plain subtraction; filemtime compares modification
// times; trackgain/albumgain are doubles compared with NaN as smallest.
func compareField(a, b *TreeTrack, field string) int {
	ta, tb := a.Track, b.Track
	switch field {
	case "artist":
		return strings.Compare(ta.ArtistKey, tb.ArtistKey)
	case "album":
		return strings.Compare(ta.AlbumKey, tb.AlbumKey)
	case "albumartist":
		return strings.Compare(ta.AlbumArtistKey, tb.AlbumArtistKey)
	case "title":
		return strings.Compare(ta.TitleKey, tb.TitleKey)
	case "genre":
		return strings.Compare(ta.GenreKey, tb.GenreKey)
	case "tracknumber":
		return ta.TrackNumber - tb.TrackNumber
	case "discnumber":
		return ta.DiscNumber - tb.DiscNumber
	case "duration":
		return ta.Duration - tb.Duration
	case "bitrate":
		return ta.Bitrate - tb.Bitrate
	case "date":
		return ta.DateYYYYMMDD - tb.DateYYYYMMDD
	case "originaldate":
		return ta.OriginalDate - tb.OriginalDate
	case "play_count":
		return int(ta.PlayCount) - int(tb.PlayCount)
	case "bpm":
		return ta.BPM - tb.BPM
	case "trackgain":
		return compareDouble(ta.TrackGain, tb.TrackGain)
	case "albumgain":
		return compareDouble(ta.AlbumGain, tb.AlbumGain)
	case "filemtime":
		switch {
		case ta.ModTime.Before(tb.ModTime):
			return -1
		case ta.ModTime.After(tb.ModTime):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// lessBy applies a full SortKey list left-to-right, stopping at the first key
// that discriminates.
func lessBy(keys []SortKey, a, b *TreeTrack) bool {
	for _, k := range keys {
		c := compareField(a, b, k.Field)
		if c == 0 {
			continue
		}
		if k.Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}

type listNode struct {
	tt         *TreeTrack
	prev, next *listNode
}

// editableList is the doubly linked, independently sorted view over the
// same tracks the tree holds, plus a selection window and incrementally
// maintained totals (§4.6).
type editableList struct {
	head, tail *listNode
	length     int
	keys       []SortKey

	totalDuration int
	markedCount   int

	selStart, selCursor int
}

func newEditableList() *editableList {
	return &editableList{}
}

func (l *editableList) append(tt *TreeTrack) {
	n := &listNode{tt: tt}
	tt.listElem = n
	l.insertSorted(n)
	l.length++
	l.totalDuration += tt.Track.Duration
	if tt.Marked {
		l.markedCount++
	}
}

// insertSorted splices n into its sorted position among the existing nodes
// by a linear scan from the head, so an append costs O(n) rather than the
// O(n log n) full resort a naive "append then re-sort" would pay on every
// insert; resort itself stays reserved for setSortKeys's bulk re-key.
func (l *editableList) insertSorted(n *listNode) {
	if l.head == nil {
		l.head, l.tail = n, n
		return
	}
	for p := l.head; p != nil; p = p.next {
		if lessBy(l.keys, n.tt, p.tt) {
			n.next = p
			n.prev = p.prev
			if p.prev != nil {
				p.prev.next = n
			} else {
				l.head = n
			}
			p.prev = n
			return
		}
	}
	n.prev = l.tail
	l.tail.next = n
	l.tail = n
}

// removeMatching unlinks every track for which match returns true,
// updating the incremental totals as it goes.
func (l *editableList) removeMatching(match func(*TreeTrack) bool) {
	n := l.head
	for n != nil {
		next := n.next
		if match(n.tt) {
			l.unlink(n)
		}
		n = next
	}
}

func (l *editableList) unlink(n *listNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.length--
	l.totalDuration -= n.tt.Track.Duration
	if n.tt.Marked {
		l.markedCount--
	}
	n.tt.listElem = nil
	l.selStart, l.selCursor = clampSel(l.selStart, l.length), clampSel(l.selCursor, l.length)
}

func clampSel(v, length int) int {
	if v >= length {
		return length - 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// clear empties the list. The hash-removal suppression flag the reference
// implementation threads through "clear" is a decision the Library's filter
// coordinator makes instead (clear-and-rebuild empties every view without
// touching the hash); the list itself never reaches into the hash, so there
// is nothing to suppress here.
func (l *editableList) clear() {
	n := l.head
	for n != nil {
		n.tt.listElem = nil
		n = n.next
	}
	l.head, l.tail = nil, nil
	l.length, l.totalDuration, l.markedCount = 0, 0, 0
	l.selStart, l.selCursor = 0, 0
}

func (l *editableList) setSortKeys(keys []SortKey) {
	l.keys = keys
	l.resort()
}

// resort rebuilds the link order by a plain sort.SliceStable over a snapshot,
// which is simpler than an in-place merge sort and runs once per sort-key
// change rather than per insert.
func (l *editableList) resort() {
	if l.length == 0 {
		return
	}
	nodes := make([]*listNode, 0, l.length)
	for n := l.head; n != nil; n = n.next {
		nodes = append(nodes, n)
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return lessBy(l.keys, nodes[i].tt, nodes[j].tt)
	})
	l.head = nodes[0]
	nodes[0].prev = nil
	for i := 1; i < len(nodes); i++ {
		nodes[i-1].next = nodes[i]
		nodes[i].prev = nodes[i-1]
	}
	nodes[len(nodes)-1].next = nil
	l.tail = nodes[len(nodes)-1]
}

func (l *editableList) mark(tt *TreeTrack) {
	if tt.listElem == nil || tt.Marked {
		return
	}
	tt.Marked = true
	l.markedCount++
}

func (l *editableList) unmark(tt *TreeTrack) {
	if tt.listElem == nil || !tt.Marked {
		return
	}
	tt.Marked = false
	l.markedCount--
}

func (l *editableList) toggle(tt *TreeTrack) {
	if tt.Marked {
		l.unmark(tt)
	} else {
		l.mark(tt)
	}
}

func (l *editableList) each(visit func(*TreeTrack) bool) {
	for n := l.head; n != nil; n = n.next {
		if !visit(n.tt) {
			return
		}
	}
}

// moveSelection shifts the cursor by delta tracks, clamping to the list
// bounds, and reports the new cursor position.
func (l *editableList) moveSelection(delta int) int {
	l.selCursor = clampSel(l.selCursor+delta, l.length)
	return l.selCursor
}

// successor/predecessor within the editable list, used by the playback
// selector's "shuffle=none, sort flag" case.
func (l *editableList) successor(tt *TreeTrack) *TreeTrack {
	if tt == nil || tt.listElem == nil || tt.listElem.next == nil {
		return nil
	}
	return tt.listElem.next.tt
}

func (l *editableList) predecessor(tt *TreeTrack) *TreeTrack {
	if tt == nil || tt.listElem == nil || tt.listElem.prev == nil {
		return nil
	}
	return tt.listElem.prev.tt
}

// firstInAlbum and lastInAlbum give the playback selector's sorted-order
// album-shuffle case (§4.8 case 3, sort flag set) an album's first/last
// track under the list's current sort order, which need not agree with the
// tree's (disc, track, title, filename) order.
func (l *editableList) firstInAlbum(al *Album) *TreeTrack {
	for n := l.head; n != nil; n = n.next {
		if n.tt.Album == al {
			return n.tt
		}
	}
	return nil
}

func (l *editableList) lastInAlbum(al *Album) *TreeTrack {
	for n := l.tail; n != nil; n = n.prev {
		if n.tt.Album == al {
			return n.tt
		}
	}
	return nil
}

func (l *editableList) first() *TreeTrack {
	if l.head == nil {
		return nil
	}
	return l.head.tt
}

func (l *editableList) last() *TreeTrack {
	if l.tail == nil {
		return nil
	}
	return l.tail.tt
}
