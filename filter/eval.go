// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package filter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ambrevar/libmuse/track"
)

// Resolver looks up a user-defined filter by name, returning its expression
// text. It is called by CheckLeaves once a bare key fails to match any
// builtin boolean field.
type Resolver func(key string) (expr string, ok bool)

// CheckLeaves walks *root bottom-up and resolves every *Bool leaf: a
// builtin boolean key is left in place; anything else is looked up via
// resolve, parsed as an expression in its own right, recursively checked,
// and spliced into the tree in place of the original leaf (the pointer
// receiver lets the replacement reach all the way up to *root itself, when
// root is nothing but a single named-filter reference). It also validates
// that every *String, *Int and *Ident leaf names builtin fields of a
// compatible Kind.
func CheckLeaves(root *Node, resolve Resolver) error {
	if err := checkNode(root, resolve, map[string]bool{}); err != nil {
		setLastError(err.Error())
		return err
	}
	return nil
}

func checkNode(slot *Node, resolve Resolver, seen map[string]bool) error {
	switch n := (*slot).(type) {
	case *And:
		if err := checkNode(&n.Left, resolve, seen); err != nil {
			return err
		}
		return checkNode(&n.Right, resolve, seen)
	case *Or:
		if err := checkNode(&n.Left, resolve, seen); err != nil {
			return err
		}
		return checkNode(&n.Right, resolve, seen)
	case *Not:
		return checkNode(&n.Child, resolve, seen)
	case *String:
		kind, ok := lookupBuiltin(n.Key)
		if !ok {
			return keyError(n.Key, resolve)
		}
		if kind != KindString {
			return fmt.Errorf("%q is %s, not a string field", n.Key, articleKind(kind))
		}
		return nil
	case *Int:
		kind, ok := lookupBuiltin(n.Key)
		if !ok {
			return keyError(n.Key, resolve)
		}
		if kind != KindInt {
			return fmt.Errorf("%q is %s, not an integer field", n.Key, articleKind(kind))
		}
		return nil
	case *Ident:
		kind, ok := lookupBuiltin(n.Key)
		if !ok {
			return keyError(n.Key, resolve)
		}
		otherKind, ok := lookupBuiltin(n.Other)
		if !ok {
			return keyError(n.Other, resolve)
		}
		if kind == KindBool || otherKind == KindBool {
			return fmt.Errorf("%q is a boolean field, not comparable to another field", n.Key)
		}
		return nil
	case *Bool:
		if kind, ok := lookupBuiltin(n.Key); ok {
			if kind != KindBool {
				return fmt.Errorf("%q is %s, not a boolean field", n.Key, articleKind(kind))
			}
			return nil
		}
		expr, ok := resolve(n.Key)
		if !ok {
			return keyError(n.Key, resolve)
		}
		if seen[n.Key] {
			return fmt.Errorf("filter %q is recursively defined", n.Key)
		}
		sub, err := Parse(expr)
		if err != nil {
			return err
		}
		seen[n.Key] = true
		if err := checkNode(&sub, resolve, seen); err != nil {
			return err
		}
		delete(seen, n.Key)
		*slot = sub
		return nil
	}
	return fmt.Errorf("unknown node type")
}

func articleKind(k Kind) string {
	switch k {
	case KindString:
		return "a string field"
	case KindInt:
		return "an integer field"
	case KindBool:
		return "a boolean field"
	}
	return "of unknown type"
}

func keyError(key string, resolve Resolver) error {
	msg := fmt.Sprintf("%q is not a known key or filter", key)
	return errors.New(suggestKey(msg, key, namesFromResolver(resolve)))
}

// namesFromResolver has nothing to enumerate a Resolver's keyspace with, so
// it only ever contributes builtin names to the "did you mean" search; a
// Resolver that also wants filter-name suggestions should list its own
// names via a closure-captured slice instead.
func namesFromResolver(resolve Resolver) []string {
	return nil
}

// MatchSet records which of the three fields the library tree is organized
// by — artist, album, title — an expression mentions.
type MatchSet uint8

const (
	MatchArtist MatchSet = 1 << iota
	MatchAlbum
	MatchTitle
)

// Has reports whether every bit of want is set in m.
func (m MatchSet) Has(want MatchSet) bool { return m&want == want }

// MatchTypes returns the bitset of {artist, album, title} mentioned
// anywhere in n, so the UI can decide whether a filter change requires
// re-expanding tree nodes or only moving the selection.
func MatchTypes(n Node) MatchSet {
	switch x := n.(type) {
	case *And:
		return MatchTypes(x.Left) | MatchTypes(x.Right)
	case *Or:
		return MatchTypes(x.Left) | MatchTypes(x.Right)
	case *Not:
		return MatchTypes(x.Child)
	case *String:
		return matchSetForKey(x.Key)
	case *Ident:
		return matchSetForKey(x.Key) | matchSetForKey(x.Other)
	default:
		return 0
	}
}

func matchSetForKey(key string) MatchSet {
	switch key {
	case "artist", "albumartist":
		return MatchArtist
	case "album":
		return MatchAlbum
	case "title":
		return MatchTitle
	}
	return 0
}

// IsHarmless reports whether tightening n (adding more constraints to it)
// can only ever shrink the set of tracks it matches, never admit new ones
// by surprise. An OR, a NOT, an IDENT, or an integer comparison using '<',
// '=' or '<=' anywhere in the tree breaks that guarantee, since each can
// flip from false to true in a way a plain AND-of-lower-bounds cannot.
func IsHarmless(n Node) bool {
	switch x := n.(type) {
	case *And:
		return IsHarmless(x.Left) && IsHarmless(x.Right)
	case *Or, *Not, *Ident:
		return false
	case *Int:
		switch x.Op {
		case OpLT, OpLE, OpEQ:
			return false
		default:
			return true
		}
	default:
		return true
	}
}

// Evaluate reports whether t matches the expression rooted at n. n must
// already have passed CheckLeaves.
func Evaluate(n Node, t *track.Track) bool {
	switch x := n.(type) {
	case *And:
		return Evaluate(x.Left, t) && Evaluate(x.Right, t)
	case *Or:
		return Evaluate(x.Left, t) || Evaluate(x.Right, t)
	case *Not:
		return !Evaluate(x.Child, t)
	case *String:
		v, _ := stringField(t, x.Key)
		m := x.Glob.Match(v)
		if x.Op == OpNE {
			return !m
		}
		return m
	case *Int:
		v, _ := intField(t, x.Key)
		return evalIntLeaf(v, x.Op, x.Value)
	case *Ident:
		keyKind, _ := lookupBuiltin(x.Key)
		otherKind, _ := lookupBuiltin(x.Other)
		if keyKind == KindString || otherKind == KindString {
			a := anyFieldAsString(t, x.Key)
			b := anyFieldAsString(t, x.Other)
			return compareBytes(a, x.Op, b)
		}
		a, _ := intField(t, x.Key)
		b, _ := intField(t, x.Other)
		return evalIdentInt(a, x.Op, b)
	case *Bool:
		return boolField(t, x.Key)
	}
	return false
}

// evalIntLeaf implements the -1 "missing tag" convention for a leaf
// comparing a fetched field against a literal: comparing to the literal -1
// with '=' or '!=' tests whether the tag is unset; any other comparison
// against a missing value is false; otherwise compare numerically.
func evalIntLeaf(v int, op Op, target int) bool {
	if v == -1 {
		if target == -1 {
			switch op {
			case OpEQ:
				return true
			case OpNE:
				return false
			}
		}
		return false
	}
	return compareInt(v, op, target)
}

// evalIdentInt compares two fetched integer fields: '=' and '!=' are always
// meaningful (two unset fields compare equal), but the ordering operators
// are false whenever either side is unset.
func evalIdentInt(a int, op Op, b int) bool {
	switch op {
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	default:
		if a == -1 || b == -1 {
			return false
		}
		return compareInt(a, op, b)
	}
}

func compareInt(a int, op Op, b int) bool {
	switch op {
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpEQ:
		return a == b
	case OpGE:
		return a >= b
	case OpGT:
		return a > b
	case OpNE:
		return a != b
	}
	return false
}

// compareBytes implements the IDENT case's case-sensitive byte comparison,
// as opposed to the fold+collation comparison a STRING leaf's glob match
// effectively gives you.
func compareBytes(a string, op Op, b string) bool {
	switch op {
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpEQ:
		return a == b
	case OpGE:
		return a >= b
	case OpGT:
		return a > b
	case OpNE:
		return a != b
	}
	return false
}

func isHTTPURL(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

func stringField(t *track.Track, key string) (string, bool) {
	switch key {
	case "artist":
		return t.Artist, true
	case "album":
		return t.Album, true
	case "albumartist":
		return t.AlbumArtist, true
	case "title":
		return t.Title, true
	case "genre":
		return t.Genre, true
	case "comment":
		return t.Comment, true
	case "media":
		return t.Media, true
	case "filename":
		return t.Locator, true
	case "codec":
		return t.Codec, true
	case "codec_profile":
		return t.CodecProfile, true
	}
	return "", false
}

// anyFieldAsString fetches key as a string regardless of its builtin Kind,
// for the IDENT case where one side names a string field and the other an
// integer one.
func anyFieldAsString(t *track.Track, key string) string {
	if v, ok := stringField(t, key); ok {
		return v
	}
	if v, ok := intField(t, key); ok {
		if v == -1 {
			return ""
		}
		return fmt.Sprintf("%d", v)
	}
	return ""
}

func intField(t *track.Track, key string) (int, bool) {
	switch key {
	case "tracknumber":
		return t.TrackNumber, true
	case "discnumber":
		return t.DiscNumber, true
	case "date":
		if t.DateYYYYMMDD == -1 {
			return -1, true
		}
		return t.DateYYYYMMDD / 10000, true
	case "originaldate":
		if t.OriginalDate == -1 {
			return -1, true
		}
		return t.OriginalDate / 10000, true
	case "bpm":
		return t.BPM, true
	case "duration":
		if isHTTPURL(t.Locator) {
			return math.MaxInt32, true
		}
		return t.Duration, true
	case "bitrate":
		// Stored raw (bits/sec); filters compare the rounded kbps figure a
		// user would actually type, e.g. bitrate=320. -1 (unset) must not
		// be rounded into a bogus near-zero value.
		if t.Bitrate < 0 {
			return -1, true
		}
		return (t.Bitrate + 500) / 1000, true
	case "play_count":
		return int(t.PlayCount), true
	}
	return 0, false
}

func boolField(t *track.Track, key string) bool {
	switch key {
	case "stream":
		return isHTTPURL(t.Locator)
	case "tag":
		return t.Artist != "" || t.Album != "" || t.Title != ""
	}
	return false
}
