// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package track

import "testing"

func TestNewAssignsIncreasingUID(t *testing.T) {
	a := New("/a.mp3")
	b := New("/b.mp3")
	if b.UID <= a.UID {
		t.Errorf("expected increasing UIDs, got %d then %d", a.UID, b.UID)
	}
	if a.refs != 1 {
		t.Errorf("new track should start with refcount 1, got %d", a.refs)
	}
}

func TestRefUnref(t *testing.T) {
	tr := New("/a.mp3")
	tr.Ref()
	if tr.Unref() {
		t.Error("Unref should not report last reference yet")
	}
	if !tr.Unref() {
		t.Error("Unref should report last reference")
	}
}

func TestAttachCommentsBasicFields(t *testing.T) {
	tr := New("/a.mp3")
	tr.AttachComments(map[string][]string{
		"artist": {"Miles Davis"},
		"album":  {"Kind of Blue"},
		"title":  {"So What"},
		"date":   {"1959-08-17"},
	})

	if tr.Artist != "Miles Davis" {
		t.Errorf("Artist = %q", tr.Artist)
	}
	if tr.AlbumArtist != "Miles Davis" {
		t.Errorf("AlbumArtist should fall back to Artist, got %q", tr.AlbumArtist)
	}
	if tr.DateYYYYMMDD != 19590817 {
		t.Errorf("DateYYYYMMDD = %d, want 19590817", tr.DateYYYYMMDD)
	}
}

func TestAttachCommentsDateDefaults(t *testing.T) {
	tr := New("/a.mp3")
	tr.AttachComments(map[string][]string{"date": {"1960"}})
	if tr.DateYYYYMMDD != 19600101 {
		t.Errorf("DateYYYYMMDD = %d, want 19600101", tr.DateYYYYMMDD)
	}
}

func TestAttachCommentsMissingIntFieldsAreSentinel(t *testing.T) {
	tr := New("/a.mp3")
	tr.AttachComments(map[string][]string{"artist": {"X"}})
	if tr.DateYYYYMMDD != -1 {
		t.Errorf("DateYYYYMMDD = %d, want -1 (unset)", tr.DateYYYYMMDD)
	}
	if tr.TrackNumber != -1 || tr.DiscNumber != -1 || tr.BPM != -1 {
		t.Errorf("missing integer tags should default to -1, got track=%d disc=%d bpm=%d", tr.TrackNumber, tr.DiscNumber, tr.BPM)
	}
	if tr.PlayCount != 0 {
		t.Errorf("PlayCount should default to 0, got %d", tr.PlayCount)
	}
}

func TestAttachCommentsTitleFallsBackToBasename(t *testing.T) {
	tr := New("/music/unknown.mp3")
	tr.AttachComments(map[string][]string{"artist": {"X"}})
	if tr.Title != "unknown.mp3" {
		t.Errorf("Title = %q, want basename fallback", tr.Title)
	}
}

func TestAttachCommentsTitleStaysEmptyWithoutAnyTag(t *testing.T) {
	tr := New("/music/unknown.mp3")
	tr.AttachComments(map[string][]string{})
	if tr.Title != "" {
		t.Errorf("Title = %q, want empty when no tag is present at all", tr.Title)
	}
}

func TestAttachCommentsCompilationFromMultipleArtists(t *testing.T) {
	tr := New("/a.mp3")
	tr.AttachComments(map[string][]string{
		"artist": {"Artist A", "Artist B"},
		"album":  {"Various"},
	})
	if !tr.Compilation {
		t.Error("expected compilation to be detected from multiple distinct artists")
	}
}

func TestAttachCommentsReplayGainFromR128(t *testing.T) {
	tr := New("/a.mp3")
	tr.AttachComments(map[string][]string{
		"r128_track_gain": {"-1024"},
	})
	want := round2(-1024.0/256 + 5)
	if tr.TrackGain != want {
		t.Errorf("TrackGain = %v, want %v", tr.TrackGain, want)
	}
}

func TestAttachCommentsReplayGainPrefersExplicitFloat(t *testing.T) {
	tr := New("/a.mp3")
	tr.AttachComments(map[string][]string{
		"replaygain_track_gain": {"-3.5 dB"},
		"r128_track_gain":       {"-1024"},
	})
	if tr.TrackGain != -3.5 {
		t.Errorf("TrackGain = %v, want -3.5", tr.TrackGain)
	}
}

func TestCollationKeysFoldAndStripDiacritics(t *testing.T) {
	tr := New("/a.mp3")
	tr.AttachComments(map[string][]string{"artist": {"Éléanor"}})
	other := New("/b.mp3")
	other.AttachComments(map[string][]string{"artist": {"eleanor"}})
	if tr.ArtistKey != other.ArtistKey {
		t.Errorf("collation keys should match: %q vs %q", tr.ArtistKey, other.ArtistKey)
	}
}
