// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stream

import (
	"strings"
	"sync"
)

// Progress tracks what a stream has delivered so far.
type Progress struct {
	// Counts holds the number of events seen per type
	Counts map[EventType]int
	// Stages preserves the progress stages in the order they were reported
	Stages []string
	// ModelID is the id of the generated model once the service reports it
	ModelID string
	// Completed is set when a done event arrives
	Completed bool
	// Failure holds the message of the first failure event
	Failure string
	// text accumulates token events
	text strings.Builder
	// mu protects concurrent access to all fields
	mu sync.Mutex
}

// NewProgress creates an empty Progress.
func NewProgress() *Progress {
	return &Progress{Counts: make(map[EventType]int)}
}

// Apply records a single event.
func (p *Progress) Apply(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Counts[ev.Type]++
	if p.ModelID == "" && len(ev.Data) > 0 {
		p.ModelID = ExtractModelID(ev.Data)
	}

	switch ev.Type {
	case EventToken:
		p.text.WriteString(ev.Message)
	case EventProgress:
		if ev.Message != "" {
			p.Stages = append(p.Stages, ev.Message)
		}
	case EventDone:
		p.Completed = true
	case EventError, EventStreamError:
		if p.Failure == "" {
			p.Failure = ev.Message
			if p.Failure == "" {
				p.Failure = "stream failed"
			}
		}
	}
}

// Text returns the concatenated token text.
func (p *Progress) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text.String()
}

// Total returns the number of events applied, excluding local transport events.
func (p *Progress) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for t, c := range p.Counts {
		if t == EventStreamClosed || t == EventStreamError {
			continue
		}
		n += c
	}
	return n
}

// HasFailures returns true if any failure event was applied.
func (p *Progress) HasFailures() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Failure != ""
}

// Err returns the first failure message, or "" when the stream succeeded.
func (p *Progress) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Failure
}
