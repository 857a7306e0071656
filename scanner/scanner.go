// Copyright © 2013-2018 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

// Package scanner is the reference external collaborator that hands the
// core its *track.Track records (§1's "scanning worker"). It is
// deliberately outside the core: it owns every decision spec.md calls a
// Non-goal for the library itself — walking the filesystem, deciding which
// extensions are audio, and reading tag metadata — exactly the way
// demlo's own `main` package owns FFmpeg/TagLib calls while `library`-style
// packages stay decoder-agnostic.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/wtolson/go-taglib"
	"github.com/yookoala/realpath"

	"github.com/ambrevar/libmuse/internal/pipeline"
	"github.com/ambrevar/libmuse/track"
)

// Extensions is the default set of file extensions (lowercase, without the
// dot) the Walk stage accepts. A caller can substitute a different set.
var Extensions = map[string]bool{
	"mp3": true, "flac": true, "ogg": true, "oga": true,
	"m4a": true, "aac": true, "wav": true, "wv": true,
}

func ext(path string) string {
	e := filepath.Ext(path)
	if e == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(e, "."))
}

// Walk lists every regular file under roots whose extension is in
// Extensions and sends one *pipeline.Job per file to the returned channel,
// which it closes once every root has been walked. It does not itself
// read tags: that is DedupStage/TagStage's job, so Walk can run ahead of
// the slower tag-reading stages without blocking on them.
func Walk(roots []string) <-chan *pipeline.Job {
	out := make(chan *pipeline.Job)
	go func() {
		defer close(out)
		for _, root := range roots {
			_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
				if err != nil || info.IsDir() {
					return nil
				}
				if !Extensions[ext(path)] {
					return nil
				}
				out <- &pipeline.Job{Path: path}
				return nil
			})
		}
	}()
	return out
}

// DedupStage rejects a Job whose realpath was already seen by this
// goroutine, the same "visited" guard demlo's walker.go keeps for its own
// file set, adapted from a single global map to one per Stage goroutine
// (pipeline.Pipeline.Add gives each goroutine its own Stage instance).
type DedupStage struct {
	visited map[string]bool
}

func (d *DedupStage) Init()  { d.visited = map[string]bool{} }
func (d *DedupStage) Close() {}

func (d *DedupStage) Run(ctx context.Context, j *pipeline.Job) error {
	rp, err := realpath.Realpath(j.Path)
	if err != nil {
		rp = j.Path
	}
	if d.visited[rp] {
		return fmt.Errorf("duplicate file: %s", j.Path)
	}
	d.visited[rp] = true
	return nil
}

// TagStage reads stream properties with go-taglib (duration, bitrate) and
// the full comment multimap with dhowden/tag, then builds the *track.Track
// the library's Add entry point expects. Two readers are used because
// neither alone exposes both halves: go-taglib's cgo binding reaches
// TagLib's accurate stream-property parsing, while dhowden/tag's pure-Go
// reader exposes the raw frame map (including non-standard ReplayGain/R128
// comments) go-taglib's narrow getter set drops.
type TagStage struct{}

func (TagStage) Init()  {}
func (TagStage) Close() {}

func (TagStage) Run(ctx context.Context, j *pipeline.Job) error {
	info, err := os.Stat(j.Path)
	if err != nil {
		return err
	}

	f, err := os.Open(j.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return fmt.Errorf("reading tags from %s: %w", j.Path, err)
	}

	comments := map[string][]string{}
	addComment := func(key, val string) {
		if val != "" {
			comments[key] = append(comments[key], val)
		}
	}
	addComment("artist", m.Artist())
	addComment("album", m.Album())
	addComment("title", m.Title())
	addComment("albumartist", m.AlbumArtist())
	addComment("genre", m.Genre())
	if y := m.Year(); y != 0 {
		addComment("date", strconv.Itoa(y))
	}
	if tn, _ := m.Track(); tn != 0 {
		addComment("tracknumber", strconv.Itoa(tn))
	}
	if dn, _ := m.Disc(); dn != 0 {
		addComment("discnumber", strconv.Itoa(dn))
	}
	for k, v := range m.Raw() {
		lk := strings.ToLower(k)
		interesting := strings.HasPrefix(lk, "replaygain_") || strings.HasPrefix(lk, "r128_") || lk == "compilation"
		if !interesting {
			continue
		}
		if s, ok := v.(string); ok {
			addComment(lk, s)
		}
	}

	tr := track.New(j.Path)
	tr.ModTime = info.ModTime()
	tr.Media = string(m.FileType())

	if tl, err := taglib.Read(j.Path); err == nil {
		defer tl.Close()
		tr.Duration = int(tl.Length() / time.Second)
		tr.Bitrate = tl.Bitrate() * 1000
	}

	tr.AttachComments(comments)
	j.Track = tr
	return nil
}
