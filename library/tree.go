// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import (
	"fmt"

	"github.com/google/btree"

	"github.com/ambrevar/libmuse/track"
)

// btreeDegree is the branching factor passed to every btree.New call in this
// package. 32 is the value google/btree's own benchmarks settle on for
// small-to-medium in-memory sets; there is nothing library-specific about it.
const btreeDegree = 32

// TreeTrack is one track's slot in the artist/album/track tree. It is the
// handle shared with the editable list, the track-shuffle ordering and the
// UI: Mark/Unmark, SetCurrent and the playback selector all operate on
// *TreeTrack rather than *track.Track directly, since the tree position
// (album, ordering) is what playback and marking need, not just the bare
// metadata record.
type TreeTrack struct {
	Track *track.Track
	Album *Album

	Marked bool

	shuffleKey uint64
	listElem   *listNode // back-reference into the editable list
}

func (tt *TreeTrack) less(other *TreeTrack) bool {
	a, b := tt.Track, other.Track
	if a.DiscNumber != b.DiscNumber {
		return a.DiscNumber < b.DiscNumber
	}
	if a.TrackNumber != b.TrackNumber {
		return a.TrackNumber < b.TrackNumber
	}
	if a.TitleKey != b.TitleKey {
		return a.TitleKey < b.TitleKey
	}
	return a.Locator < b.Locator
}

type trackItem struct{ tt *TreeTrack }

func (x trackItem) Less(than btree.Item) bool { return x.tt.less(than.(trackItem).tt) }

// Album owns the ordered set of tracks sharing one (artist, album name,
// date, album-artist) key. It embeds its own shuffle-ordering node so the
// album-shuffle order (§4.7) can be reassigned independently of the track
// order.
type Album struct {
	Artist *Artist

	Name, Key          string
	Date               int
	AlbumArtistKey     string
	compilationMerged  bool // keyed purely by Name when MergeVA folded it in

	tracks *btree.BTree // of trackItem, ordered by trackItem.Less

	shuffleKey uint64
}

func (al *Album) key() string {
	if al.compilationMerged {
		return al.Key
	}
	return fmt.Sprintf("%s\x00%010d\x00%s", al.Key, al.Date, al.AlbumArtistKey)
}

func (al *Album) less(other *Album) bool { return al.key() < other.key() }

type albumItem struct{ al *Album }

func (x albumItem) Less(than btree.Item) bool { return x.al.less(than.(albumItem).al) }

// firstTrack returns the album's first track in tree order, or nil if empty.
func (al *Album) firstTrack() *TreeTrack {
	var found *TreeTrack
	al.tracks.Ascend(func(i btree.Item) bool {
		found = i.(trackItem).tt
		return false
	})
	return found
}

func (al *Album) lastTrack() *TreeTrack {
	var found *TreeTrack
	al.tracks.Descend(func(i btree.Item) bool {
		found = i.(trackItem).tt
		return false
	})
	return found
}

// treeSuccessorInAlbum and treePredecessorInAlbum give the playback
// selector's tree-order case (§4.8 case 5) the in-album step, independent of
// the editable list's own (possibly differently sorted) order.
func treeSuccessorInAlbum(tt *TreeTrack) *TreeTrack {
	var found *TreeTrack
	al := tt.Album
	al.tracks.AscendGreaterOrEqual(trackItem{tt}, func(i btree.Item) bool {
		candidate := i.(trackItem).tt
		if candidate == tt {
			return true
		}
		found = candidate
		return false
	})
	return found
}

func treePredecessorInAlbum(tt *TreeTrack) *TreeTrack {
	var found *TreeTrack
	al := tt.Album
	al.tracks.DescendLessOrEqual(trackItem{tt}, func(i btree.Item) bool {
		candidate := i.(trackItem).tt
		if candidate == tt {
			return true
		}
		found = candidate
		return false
	})
	return found
}

// Artist owns the ordered set of albums by a collated artist (or
// album-artist) name.
type Artist struct {
	Name, Key string
	albums    *btree.BTree // of albumItem
}

func (a *Artist) less(other *Artist) bool { return a.Key < other.Key }

type artistItem struct{ a *Artist }

func (x artistItem) Less(than btree.Item) bool { return x.a.less(than.(artistItem).a) }

// tree is the three-level artist -> album -> track index described in
// spec.md §4.5 / §3. It holds no locks itself; Library serializes access.
type tree struct {
	artists *btree.BTree // of artistItem

	mergeVA bool

	onAlbumAdded   func(*Album)
	onAlbumRemoved func(*Album)
}

func newTree(mergeVA bool, onAlbumAdded, onAlbumRemoved func(*Album)) *tree {
	return &tree{
		artists:        btree.New(btreeDegree),
		mergeVA:        mergeVA,
		onAlbumAdded:   onAlbumAdded,
		onAlbumRemoved: onAlbumRemoved,
	}
}

// add inserts t into the artist/album/track tree, creating artist and album
// nodes as needed. It reports the resulting *TreeTrack and whether a new
// album was created; a newly created album is also passed to onAlbumAdded,
// if set, which is how Library puts it into the album-shuffle ordering.
func (tr *tree) add(t *track.Track) (tt *TreeTrack, albumCreated bool) {
	artistName := t.AlbumArtist
	artistKey := t.AlbumArtistKey
	if artistKey == "" {
		artistName, artistKey = t.Artist, t.ArtistKey
	}

	art := tr.findOrCreateArtist(artistName, artistKey)

	merged := tr.mergeVA && t.Compilation
	al, created := tr.findOrCreateAlbum(art, t, merged)

	tt = &TreeTrack{Track: t, Album: al}
	al.tracks.ReplaceOrInsert(trackItem{tt})

	if created {
		albumCreated = true
		if tr.onAlbumAdded != nil {
			tr.onAlbumAdded(al)
		}
	}
	return tt, albumCreated
}

func (tr *tree) findOrCreateArtist(name, key string) *Artist {
	probe := &Artist{Key: key}
	if existing := tr.artists.Get(artistItem{probe}); existing != nil {
		return existing.(artistItem).a
	}
	art := &Artist{Name: name, Key: key, albums: btree.New(btreeDegree)}
	tr.artists.ReplaceOrInsert(artistItem{art})
	return art
}

func (tr *tree) findOrCreateAlbum(art *Artist, t *track.Track, merged bool) (*Album, bool) {
	probe := &Album{
		Artist:            art,
		Key:               t.AlbumKey,
		Date:              t.DateYYYYMMDD,
		AlbumArtistKey:    t.AlbumArtistKey,
		compilationMerged: merged,
	}
	if existing := art.albums.Get(albumItem{probe}); existing != nil {
		return existing.(albumItem).al, false
	}
	al := &Album{
		Artist:            art,
		Name:              t.Album,
		Key:               t.AlbumKey,
		Date:              t.DateYYYYMMDD,
		AlbumArtistKey:    t.AlbumArtistKey,
		compilationMerged: merged,
		tracks:            btree.New(btreeDegree),
	}
	art.albums.ReplaceOrInsert(albumItem{al})
	return al, true
}

// remove drops tt from its album, removing the album from its artist if it
// becomes empty, and the artist from the root if it in turn becomes empty.
// It reports whether the owning album was removed, so callers can also drop
// it from the album-shuffle ordering.
func (tr *tree) remove(tt *TreeTrack) (albumRemoved bool) {
	al := tt.Album
	al.tracks.Delete(trackItem{tt})
	if al.tracks.Len() > 0 {
		return false
	}

	art := al.Artist
	art.albums.Delete(albumItem{al})
	if tr.onAlbumRemoved != nil {
		tr.onAlbumRemoved(al)
	}
	if art.albums.Len() == 0 {
		tr.artists.Delete(artistItem{art})
	}
	return true
}

// each walks every track in the tree in artist/album/track order.
func (tr *tree) each(visit func(*TreeTrack) bool) {
	stop := false
	tr.artists.Ascend(func(i btree.Item) bool {
		art := i.(artistItem).a
		art.albums.Ascend(func(j btree.Item) bool {
			al := j.(albumItem).al
			al.tracks.Ascend(func(k btree.Item) bool {
				if !visit(k.(trackItem).tt) {
					stop = true
					return false
				}
				return true
			})
			return !stop
		})
		return !stop
	})
}

func (tr *tree) clear() {
	tr.artists = btree.New(btreeDegree)
}

// The following give the playback selector (§4.8) tree-order navigation:
// the next/previous album within an artist, and the next/previous artist
// at the root, independent of either shuffle ordering.

func (art *Artist) successorAlbum(al *Album) *Album {
	var found *Album
	art.albums.AscendGreaterOrEqual(albumItem{al}, func(i btree.Item) bool {
		candidate := i.(albumItem).al
		if candidate == al {
			return true
		}
		found = candidate
		return false
	})
	return found
}

func (art *Artist) predecessorAlbum(al *Album) *Album {
	var found *Album
	art.albums.DescendLessOrEqual(albumItem{al}, func(i btree.Item) bool {
		candidate := i.(albumItem).al
		if candidate == al {
			return true
		}
		found = candidate
		return false
	})
	return found
}

func (art *Artist) firstAlbum() *Album {
	var found *Album
	art.albums.Ascend(func(i btree.Item) bool {
		found = i.(albumItem).al
		return false
	})
	return found
}

func (art *Artist) lastAlbum() *Album {
	var found *Album
	art.albums.Descend(func(i btree.Item) bool {
		found = i.(albumItem).al
		return false
	})
	return found
}

func (tr *tree) successorArtist(art *Artist) *Artist {
	var found *Artist
	tr.artists.AscendGreaterOrEqual(artistItem{art}, func(i btree.Item) bool {
		candidate := i.(artistItem).a
		if candidate == art {
			return true
		}
		found = candidate
		return false
	})
	return found
}

func (tr *tree) predecessorArtist(art *Artist) *Artist {
	var found *Artist
	tr.artists.DescendLessOrEqual(artistItem{art}, func(i btree.Item) bool {
		candidate := i.(artistItem).a
		if candidate == art {
			return true
		}
		found = candidate
		return false
	})
	return found
}

func (tr *tree) firstArtist() *Artist {
	var found *Artist
	tr.artists.Ascend(func(i btree.Item) bool {
		found = i.(artistItem).a
		return false
	})
	return found
}

func (tr *tree) lastArtist() *Artist {
	var found *Artist
	tr.artists.Descend(func(i btree.Item) bool {
		found = i.(artistItem).a
		return false
	})
	return found
}

func (tr *tree) empty() bool {
	return tr.artists.Len() == 0
}
