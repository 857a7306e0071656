// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package library

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// SaveLibrary writes one source locator per line, verbatim, in the order
// given by locators, per §6's playlist layout. It never touches the
// library lock directly: callers that want a point-in-time snapshot take
// it themselves (e.g. via IterateTree), since writing to w may block on
// I/O and spec.md forbids the core from blocking under its own lock.
func SaveLibrary(w io.Writer, locators []string) error {
	bw := bufio.NewWriter(w)
	for _, loc := range locators {
		if _, err := fmt.Fprintln(bw, loc); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadLibrary reads a playlist file and returns the locators it names,
// skipping blank lines and '#'-comments per §6. It does not itself
// construct *track.Track records or call Library.Add: per §6, "the caller
// re-scans them through the external scanner," so a playlist alone is
// never enough to repopulate a Library, only to tell the scanner what to
// scan.
func LoadLibrary(r io.Reader) ([]string, error) {
	var locators []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		locators = append(locators, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return locators, nil
}
