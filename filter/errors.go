// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package filter

import (
	"errors"
	"sync"

	"github.com/jhprks/damerau"
)

// ValidateInput rejects control characters (below 0x20) before a string
// reaches the lexer, since one reaching the terminal could corrupt the
// display. The diagnostic is caller-supplied because it reads differently
// depending on the call site: the interactive filter line, an add-filter,
// or a named-filter definition loaded from configuration.
func ValidateInput(s, errMsg string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return errors.New(errMsg)
		}
	}
	return nil
}

var (
	lastErrMu sync.Mutex
	lastErr   string
)

func setLastError(msg string) {
	lastErrMu.Lock()
	lastErr = msg
	lastErrMu.Unlock()
}

// LastError returns the diagnostic from the most recent failed Parse or
// CheckLeaves call. It is process-wide rather than threaded through every
// return value because callers (the interactive filter line, add-filters,
// named-filter definitions) all want the same "show me what's wrong"
// behavior and none of them run concurrently with each other.
func LastError() string {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	return lastErr
}

// suggestionThreshold is the minimum string relation (1 = identical, 0 =
// unrelated) below which no "did you mean" hint is offered.
const suggestionThreshold = 0.6

// suggestKey appends a fuzzy "(did you mean ...)" hint to msg when some
// builtin key is closer to key than suggestionThreshold, scored the same way
// the sibling online-tagging tool scores match candidates.
func suggestKey(msg, key string, filterNames []string) string {
	best := ""
	bestScore := 0.0
	for _, b := range builtins {
		if score := stringRel(key, b.key); score > bestScore {
			bestScore = score
			best = b.key
		}
	}
	for _, name := range filterNames {
		if score := stringRel(key, name); score > bestScore {
			bestScore = score
			best = name
		}
	}
	if bestScore >= suggestionThreshold {
		return msg + ` (did you mean "` + best + `"?)`
	}
	return msg
}

// stringRel returns 1 minus the Damerau-Levenshtein distance between a and b
// divided by the length of the longer string, so identical strings score 1
// and completely unrelated strings score 0.
func stringRel(a, b string) float64 {
	max := len([]rune(a))
	if l := len([]rune(b)); l > max {
		max = l
	} else if max == 0 {
		return 1
	}
	distance := damerau.DamerauLevenshteinDistance(a, b)
	return 1 - float64(distance)/float64(max)
}
