// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package filter

import "sort"

// Kind classifies a builtin key's comparison type.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

type builtinEntry struct {
	key  string
	kind Kind
}

// builtins is the fixed table of track fields the filter language knows
// about, sorted by key for binary search.
var builtins = []builtinEntry{
	{"album", KindString},
	{"albumartist", KindString},
	{"artist", KindString},
	{"bitrate", KindInt},
	{"bpm", KindInt},
	{"codec", KindString},
	{"codec_profile", KindString},
	{"comment", KindString},
	{"date", KindInt},
	{"discnumber", KindInt},
	{"duration", KindInt},
	{"filename", KindString},
	{"genre", KindString},
	{"media", KindString},
	{"originaldate", KindInt},
	{"play_count", KindInt},
	{"stream", KindBool},
	{"tag", KindBool},
	{"title", KindString},
	{"tracknumber", KindInt},
}

// lookupBuiltin reports key's Kind, if it names a builtin field.
func lookupBuiltin(key string) (Kind, bool) {
	i := sort.Search(len(builtins), func(i int) bool { return builtins[i].key >= key })
	if i < len(builtins) && builtins[i].key == key {
		return builtins[i].kind, true
	}
	return 0, false
}

// shortKeys maps the single-letter shorthand keys to their long builtin
// names, used by the '~KV' expander.
var shortKeys = map[byte]string{
	'A': "albumartist",
	'D': "discnumber",
	'T': "tag",
	'X': "play_count",
	'a': "artist",
	'c': "comment",
	'd': "duration",
	'f': "filename",
	'g': "genre",
	'l': "album",
	'n': "tracknumber",
	's': "stream",
	't': "title",
	'y': "date",
}
