// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

// Command libmusectl is the reference command-line front end demonstrating
// the core's external interfaces end-to-end (§6): it walks directories (or
// loads a saved playlist), scans files through the reference scanner
// package, feeds the resulting tracks to a library.Library, applies the
// requested filters and sort, and prints the sequence of playback
// decisions a UI would otherwise drive interactively. It owns none of the
// core's invariants; it is the external collaborator spec.md §1 describes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/ambrevar/libmuse/internal/logging"
	"github.com/ambrevar/libmuse/internal/pipeline"
	"github.com/ambrevar/libmuse/library"
	"github.com/ambrevar/libmuse/scanner"
)

const (
	application = "libmusectl"
	version     = "0.1"
)

// options holds every flag, in the same "struct of fields flag.*Var binds
// into" shape demlo.go's Options uses, so flags > config-file values (not
// implemented here, since the core has no config format of its own) >
// hardcoded defaults is a single assignment chain rather than three.
type options struct {
	color    bool
	debug    bool
	cores    int
	mergeVA  bool
	existence bool

	filter  string
	live    string
	sort    string
	shuffle string
	scope   string
	repeat  bool

	load string
	save string
}

func main() {
	opts := options{cores: runtime.NumCPU(), shuffle: "none", scope: "all"}

	flag.BoolVar(&opts.color, "color", true, "Colorize log output.")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug messages.")
	flag.IntVar(&opts.cores, "cores", opts.cores, "Parallel tag-reading goroutines.")
	flag.BoolVar(&opts.mergeVA, "mergeva", false, "Key compilation albums by name alone, ignoring date and album-artist (tracks stay under their tree artist).")
	flag.BoolVar(&opts.existence, "existence-check", false, "Reject duplicate (album-artist, album, disc, track, title) tuples.")
	flag.StringVar(&opts.filter, "filter", "", "View-filter expression (§4.3 syntax).")
	flag.StringVar(&opts.live, "live", "", "Live (free-text or ~shorthand) filter.")
	flag.StringVar(&opts.sort, "sort", "", "Sort-key spec, e.g. \"artist album -date\".")
	flag.StringVar(&opts.shuffle, "shuffle", opts.shuffle, "none|tracks|albums")
	flag.StringVar(&opts.scope, "scope", opts.scope, "all|artist|album")
	flag.BoolVar(&opts.repeat, "repeat", false, "Wrap around at the end of the library.")
	flag.StringVar(&opts.load, "load", "", "Load locators from a saved playlist instead of walking directories.")
	flag.StringVar(&opts.save, "save", "", "Save the resulting library to a playlist file before exiting.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s %s: drive the libmuse core over a directory tree.\n\n", application, version)
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [directory ...]\n\n", application)
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logging.New(opts.debug, opts.color)
	defer log.Flush()

	lib := library.New()
	lib.SetMergeVA(opts.mergeVA)
	lib.ExistenceCheck = opts.existence

	if err := scanInto(lib, opts, log); err != nil {
		log.Error.Println(err)
		log.Flush()
		os.Exit(1)
	}

	if opts.filter != "" {
		if err := lib.SetFilter(opts.filter); err != nil {
			log.Error.Println("invalid -filter:", err)
		}
	}
	if opts.live != "" {
		if err := lib.SetLiveFilter(opts.live); err != nil {
			log.Error.Println("invalid -live:", err)
		}
	}
	if opts.sort != "" {
		if err := lib.SetSort(opts.sort); err != nil {
			log.Error.Println("invalid -sort:", err)
		}
	}

	printPlayback(lib, opts, log)

	if opts.save != "" {
		if err := saveLibrary(lib, opts.save); err != nil {
			log.Error.Println("saving playlist:", err)
		} else {
			log.Info.Println("saved playlist to", opts.save)
		}
	}

	log.Flush()
}

// scanInto walks flag.Args() (or reads opts.load) through the reference
// scanner pipeline and inserts every resulting track into lib, one Add
// call (and therefore one lock acquisition) per track, released between
// tracks, per §5.
func scanInto(lib *library.Library, opts options, log *logging.Logger) error {
	var jobs <-chan *pipeline.Job
	if opts.load != "" {
		locs, err := loadLocators(opts.load)
		if err != nil {
			return err
		}
		jobs = jobsFromLocators(locs)
	} else {
		roots := flag.Args()
		if len(roots) == 0 {
			roots = []string{"."}
		}
		jobs = scanner.Walk(roots)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := pipeline.New(opts.cores, opts.cores, func(j *pipeline.Job) {
		log.Debug.Printf("skipped %s: %v", j.Path, j.Err)
	})
	p.Add(ctx, func() pipeline.Stage { return &scanner.DedupStage{} }, opts.cores)
	p.Add(ctx, func() pipeline.Stage { return scanner.TagStage{} }, opts.cores)

	go func() {
		for j := range jobs {
			p.Input() <- j
		}
		close(p.Input())
	}()

	added, rejected := 0, 0
	for j := range p.Output() {
		switch lib.Add(j.Track) {
		case library.Added:
			added++
		default:
			rejected++
		}
	}
	p.Close()

	log.Section.Printf("scanned: %d added, %d rejected/duplicate", added, rejected)
	return nil
}

func jobsFromLocators(locators []string) <-chan *pipeline.Job {
	out := make(chan *pipeline.Job)
	go func() {
		defer close(out)
		for _, l := range locators {
			out <- &pipeline.Job{Path: l}
		}
	}()
	return out
}

func loadLocators(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return library.LoadLibrary(f)
}

func saveLibrary(lib *library.Library, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var locators []string
	lib.IterateTree(func(tt *library.TreeTrack) bool {
		locators = append(locators, tt.Track.Locator)
		return true
	})
	return library.SaveLibrary(f, locators)
}

func parseShuffle(s string) library.ShuffleMode {
	switch s {
	case "tracks":
		return library.ShuffleTracks
	case "albums":
		return library.ShuffleAlbums
	default:
		return library.ShuffleNone
	}
}

func parseScope(s string) library.ScopeKind {
	switch s {
	case "artist":
		return library.ScopeArtist
	case "album":
		return library.ScopeAlbum
	default:
		return library.ScopeAll
	}
}

// printPlayback walks the full next-track sequence from the start of the
// library under the requested shuffle/scope/repeat, printing one line per
// decision, the way a UI would drive the player one keypress at a time.
func printPlayback(lib *library.Library, opts options, log *logging.Logger) {
	sel := library.Selector{
		Shuffle: parseShuffle(opts.shuffle),
		Sort:    opts.sort != "",
		Scope:   parseScope(opts.scope),
		Repeat:  opts.repeat,
	}

	n := 0
	for tt := lib.Next(sel); tt != nil; tt = lib.Next(sel) {
		log.Output.Printf("%s - %s - %s", tt.Track.Artist, tt.Track.Album, tt.Track.Title)
		n++
		if opts.repeat && n >= 10000 {
			log.Info.Println("stopping after 10000 tracks under repeat")
			break
		}
	}
}
