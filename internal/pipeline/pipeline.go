// Copyright © 2013-2018 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

// Package pipeline implements the scan worker's channel pipeline: a
// sequence of Stages (e.g. dedup, tag-read) that a Job flows through,
// parallelized per stage, with failures routed to a side log channel
// instead of aborting the run. Library insertion is not a stage: the
// consumer of Output() calls Library.Add once per Job, so the library lock
// is taken and released per track and a long scan never blocks the UI
// thread for more than one track at a time.
package pipeline

import (
	"context"
	"sync"

	"github.com/ambrevar/libmuse/track"
)

// Job is one unit of work flowing through the pipeline: a candidate file
// that may or may not become a *track.Track, and the error of the stage
// that rejected it, if any.
type Job struct {
	Path  string
	Track *track.Track

	Err error
}

// Stage is implemented by anything addable to a Pipeline: discovery
// (dedup by real path), tag reading, or library insertion. Init/Close run
// once per goroutine, not once per Job, so a Stage can hold goroutine-local
// state (e.g. a dedup set, or one *logging.Logger) cheaply.
type Stage interface {
	Init()
	Run(ctx context.Context, j *Job) error
	Close()
}

// Pipeline fans a stream of *Job through a sequence of Stages. A Job that a
// Stage's Run returns an error for is routed to the fail channel instead of
// the next stage; a Job that reaches the end of every stage is routed to
// Output().
type Pipeline struct {
	input  chan *Job
	output chan *Job
	fail   chan *Job
	failWg sync.WaitGroup
}

// New creates a Pipeline. onFail is drained in its own goroutine so a full
// fail channel never deadlocks a stage trying to report one.
func New(inputQueueSize, failQueueSize int, onFail func(*Job)) *Pipeline {
	p := &Pipeline{
		input: make(chan *Job, inputQueueSize),
		fail:  make(chan *Job, failQueueSize),
	}
	p.output = p.input

	p.failWg.Add(1)
	go func() {
		for j := range p.fail {
			if onFail != nil {
				onFail(j)
			}
		}
		p.failWg.Done()
	}()

	return p
}

// Input is the channel callers feed with Jobs.
func (p *Pipeline) Input() chan<- *Job { return p.input }

// Output is the channel of Jobs that passed every stage.
func (p *Pipeline) Output() <-chan *Job { return p.output }

// Add appends a new Stage, run by routineCount goroutines each built by
// newStage (once per goroutine, so stage-local state is never shared
// across goroutines implicitly). ctx is checked between Jobs: once
// cancelled, a stage keeps pulling Jobs but no longer runs them, forwarding
// each remaining one to the fail side, matching §5's "a job runs to completion or is
// skipped by a cancelled flag checked between tracks."
func (p *Pipeline) Add(ctx context.Context, newStage func() Stage, routineCount int) {
	if routineCount <= 0 {
		return
	}
	var wg sync.WaitGroup
	out := make(chan *Job, routineCount)

	wg.Add(routineCount)
	for i := 0; i < routineCount; i++ {
		go func(input <-chan *Job) {
			defer wg.Done()
			s := newStage()
			s.Init()
			defer s.Close()
			for j := range input {
				if ctx.Err() != nil {
					p.fail <- j
					continue
				}
				if err := s.Run(ctx, j); err != nil {
					j.Err = err
					p.fail <- j
					continue
				}
				out <- j
			}
		}(p.output)
	}

	p.output = out

	go func() {
		wg.Wait()
		close(out)
	}()
}

// Close finishes draining the fail channel. Call it once every stage has
// been Add-ed and the input producer is done (closing Input()).
func (p *Pipeline) Close() {
	close(p.fail)
	p.failWg.Wait()
}
