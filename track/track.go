// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

// Package track implements the track metadata record: an immutable-after
// construction descriptor of one track, reference counted because its
// lifetime spans the de-duplication hash, every view that holds it, and the
// currently-playing slot.
package track

import (
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ambrevar/libmuse/ucol"
)

var nextUID uint64

// Track is immutable after AttachComments returns, with the sole exception of
// PlayCount, which the library mutates under its lock.
type Track struct {
	UID     uint64
	Locator string // filesystem path or URL

	Comments map[string][]string // lowercase ASCII comment name -> values, insertion order preserved

	Artist, Album, Title, AlbumArtist string
	Genre, Comment, Media, Codec      string
	CodecProfile                      string

	// TrackNumber, DiscNumber, TotalDiscs, DateYYYYMMDD, OriginalDate and BPM
	// are -1 when the corresponding tag was never set; PlayCount starts at 0
	// since "never played" is a meaningful value, not a missing one.
	TrackNumber, DiscNumber, TotalDiscs int
	DateYYYYMMDD, OriginalDate          int
	Duration                            int // seconds
	Bitrate                             int // bits/sec, raw
	PlayCount                           int32
	BPM                                 int

	TrackGain, TrackPeak, AlbumGain, AlbumPeak float64
	OutputGain                                 float64

	ModTime time.Time

	ArtistKey, AlbumKey, TitleKey, AlbumArtistKey, GenreKey string

	Compilation bool

	refs int32
}

// New creates a track with a monotonically increasing UID and a single
// reference held by the caller. Duration and Bitrate default to -1, the
// same missing-tag sentinel TrackNumber/DiscNumber/DateYYYYMMDD/BPM use:
// they are stream properties the scanner fills in after a successful
// decode, not comment-tag fields AttachComments populates, so they need
// their own unset default here rather than AttachComments's firstInt.
func New(locator string) *Track {
	return &Track{
		UID:      atomic.AddUint64(&nextUID, 1),
		Locator:  locator,
		Duration: -1,
		Bitrate:  -1,
		refs:     1,
	}
}

// Ref increments the reference count.
func (t *Track) Ref() {
	atomic.AddInt32(&t.refs, 1)
}

// Unref decrements the reference count and reports whether this was the last
// reference. The caller is responsible for discarding t once true is
// returned; nothing further may be done with it.
func (t *Track) Unref() bool {
	return atomic.AddInt32(&t.refs, -1) == 0
}

// Unique reports whether t currently has exactly one holder. The count is
// read with relaxed ordering: it is advisory, not a synchronization point.
func (t *Track) Unique() bool {
	return atomic.LoadInt32(&t.refs) == 1
}

// AttachComments populates every derived field from a parsed comment
// multimap. It never fails except on allocation, which is fatal and therefore
// not represented as an error return.
func (t *Track) AttachComments(comments map[string][]string) {
	t.Comments = comments

	t.Artist = first(comments, "artist")
	t.Album = first(comments, "album")
	t.AlbumArtist = firstOf(comments, "albumartist", "album_artist", "album artist")
	if t.AlbumArtist == "" {
		t.AlbumArtist = t.Artist
	}
	t.Title = first(comments, "title")
	if t.Title == "" {
		if len(comments) > 0 {
			t.Title = basename(t.Locator)
		}
	}
	t.Genre = first(comments, "genre")
	t.Comment = first(comments, "comment")
	t.Media = first(comments, "media")

	t.TrackNumber = firstInt(comments, -1, "tracknumber", "track")
	t.DiscNumber = firstInt(comments, -1, "discnumber", "disc")
	t.TotalDiscs = firstInt(comments, -1, "totaldiscs", "disctotal")
	t.DateYYYYMMDD = parseDate(firstOf(comments, "date", "year"))
	t.OriginalDate = parseDate(first(comments, "originaldate"))
	t.BPM = firstInt(comments, -1, "bpm")

	t.attachReplayGain(comments)

	t.ArtistKey = ucol.CollationKey(t.Artist)
	t.AlbumKey = ucol.CollationKey(t.Album)
	t.TitleKey = ucol.CollationKey(t.Title)
	t.AlbumArtistKey = ucol.CollationKey(t.AlbumArtist)
	t.GenreKey = ucol.CollationKey(t.Genre)

	t.Compilation = first(comments, "compilation") != "" || hasMultipleArtists(comments)
}

func (t *Track) attachReplayGain(comments map[string][]string) {
	if v, ok := firstFloat(comments, "replaygain_track_gain"); ok {
		t.TrackGain = v
	} else if r128, ok := firstFloat(comments, "r128_track_gain"); ok {
		t.TrackGain = round2(r128/256 + 5)
	}
	if v, ok := firstFloat(comments, "replaygain_album_gain"); ok {
		t.AlbumGain = v
	} else if r128, ok := firstFloat(comments, "r128_album_gain"); ok {
		t.AlbumGain = round2(r128/256 + 5)
	}
	if v, ok := firstFloat(comments, "replaygain_track_peak"); ok {
		t.TrackPeak = v
	}
	if v, ok := firstFloat(comments, "replaygain_album_peak"); ok {
		t.AlbumPeak = v
	}
	if v, ok := firstFloat(comments, "output_gain"); ok {
		t.OutputGain = v
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func hasMultipleArtists(comments map[string][]string) bool {
	artists := map[string]bool{}
	for _, v := range comments["artist"] {
		artists[strings.ToLower(v)] = true
	}
	return len(artists) > 1
}

func first(comments map[string][]string, key string) string {
	if v, ok := comments[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

func firstOf(comments map[string][]string, keys ...string) string {
	for _, k := range keys {
		if v := first(comments, k); v != "" {
			return v
		}
	}
	return ""
}

func firstInt(comments map[string][]string, missing int, keys ...string) int {
	s := firstOf(comments, keys...)
	if s == "" {
		return missing
	}
	// Tolerate "3/12" style track numbers.
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return missing
	}
	return n
}

func firstFloat(comments map[string][]string, key string) (float64, bool) {
	s := first(comments, key)
	if s == "" {
		return 0, false
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), " dB")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseDate parses a YYYYMMDD-ish tag value; missing month/day default to 01.
// Returns -1 (the missing-tag sentinel) when no date tag was present at all.
func parseDate(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1
	}
	s = strings.NewReplacer("-", "", "/", "").Replace(s)
	switch len(s) {
	case 4: // year only
		s += "0101"
	case 6: // year+month
		s += "01"
	}
	if len(s) < 8 {
		n, err := strconv.Atoi(s)
		if err != nil {
			return -1
		}
		return n
	}
	n, err := strconv.Atoi(s[:8])
	if err != nil {
		return -1
	}
	return n
}

func basename(path string) string {
	i := strings.LastIndexAny(path, "/\\")
	return path[i+1:]
}
