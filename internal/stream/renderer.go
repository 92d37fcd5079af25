// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stream

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pterm/pterm"
)

// Renderer renders stream events to the console.
// Token events are written inline so generated text reads as it arrives;
// every other event ends any open inline run first.
type Renderer struct {
	out      io.Writer
	inline   bool
	showData bool
}

// NewRenderer creates a renderer writing to stdout.
func NewRenderer() *Renderer { return &Renderer{out: os.Stdout} }

// WithWriter sets the output writer.
func (r *Renderer) WithWriter(w io.Writer) *Renderer {
	r.out = w
	return r
}

// WithData makes the renderer print raw payloads of untyped events.
func (r *Renderer) WithData(show bool) *Renderer {
	r.showData = show
	return r
}

func (r *Renderer) endInline() {
	if r.inline {
		pterm.Fprintln(r.out)
		r.inline = false
	}
}

// Render processes a single event.
func (r *Renderer) Render(ev Event) {
	if ev.Type == EventToken {
		pterm.Fprint(r.out, ev.Message)
		r.inline = true
		return
	}
	r.endInline()

	switch ev.Type {
	case EventProgress:
		pterm.Fprintln(r.out, pterm.Info.Sprint(ev.Message))
	case EventMetaModel, EventVisualization:
		label := pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint(string(ev.Type))
		pterm.Fprintln(r.out, label)
		pterm.Fprintln(r.out, indentJSON(ev.Data))
	case EventDone:
		msg := ev.Message
		if msg == "" {
			msg = "model generation finished"
		}
		pterm.Fprintln(r.out, pterm.Success.Sprint(msg))
	case EventError, EventStreamError:
		msg := ev.Message
		if msg == "" {
			msg = "stream failed"
		}
		pterm.Fprintln(r.out, pterm.Error.Sprint(msg))
	case EventStreamClosed:
		// Suppressed to keep UI clean
	default:
		switch {
		case ev.Message != "":
			pterm.Fprintln(r.out, ev.Message)
		case r.showData && len(ev.Data) > 0:
			pterm.Fprintln(r.out, indentJSON(ev.Data))
		}
	}
}

// Finish ends any open inline output.
func (r *Renderer) Finish() { r.endInline() }

// indentJSON pretty-prints raw JSON, returning it unchanged when it cannot be indented.
func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
