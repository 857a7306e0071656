// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

// Package logging implements the structured, colorized terminal logger used
// by cmd/libmusectl: a handful of named streams (debug,
// info, section, warning, error, output) each buffered per caller and
// flushed together, so interleaved scan-worker goroutines never tear a
// message in half on the terminal.
package logging

import (
	"bytes"
	"io"
	"io/ioutil"
	"log"
	"os"
	"sync"

	"github.com/mgutz/ansi"
)

var flushMu sync.Mutex

// Logger is a structured, buffered logger: every stream writes into an
// internal buffer first, and Flush is the only place output reaches the
// terminal. This keeps one goroutine's multi-line message contiguous even
// when several scan-worker goroutines log concurrently.
type Logger struct {
	Debug   *log.Logger
	Info    *log.Logger
	Section *log.Logger
	Warning *log.Logger
	Error   *log.Logger
	Output  *log.Logger

	stderrBuf bytes.Buffer
	stdoutBuf bytes.Buffer
}

// New builds a Logger. debug controls whether Debug actually reaches the
// buffer (it is discarded otherwise); color controls whether stream
// prefixes are ANSI-colorized.
func New(debug, color bool) *Logger {
	l := &Logger{}
	l.Debug = log.New(ioutil.Discard, "@@ ", 0)
	l.Info = log.New(&l.stderrBuf, ":: ", 0)
	l.Output = log.New(&l.stdoutBuf, "", 0)
	l.Section = log.New(&l.stderrBuf, "==> ", 0)
	l.Warning = log.New(&l.stderrBuf, ":: Warning: ", 0)
	l.Error = log.New(&l.stderrBuf, ":: Error: ", 0)

	if debug {
		l.Debug.SetOutput(&l.stderrBuf)
	}

	if color {
		l.Debug.SetPrefix(ansi.Color(l.Debug.Prefix(), "cyan+b"))
		l.Info.SetPrefix(ansi.Color(l.Info.Prefix(), "magenta+b"))
		l.Section.SetPrefix(ansi.Color(l.Section.Prefix(), "green+b"))
		l.Warning.SetPrefix(ansi.Color(l.Warning.Prefix(), "blue+b"))
		l.Error.SetPrefix(ansi.Color(l.Error.Prefix(), "red+b"))
	}

	return l
}

// Flush copies the buffered streams to stderr/stdout and resets them. A
// package-level mutex (not one per Logger) serializes the actual terminal
// writes, since every worker goroutine typically owns its own Logger but
// they all share one terminal.
func (l *Logger) Flush() {
	flushMu.Lock()
	_, _ = io.Copy(os.Stderr, &l.stderrBuf)
	_, _ = io.Copy(os.Stdout, &l.stdoutBuf)
	flushMu.Unlock()

	l.stderrBuf.Reset()
	l.stdoutBuf.Reset()
}
