// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"harmonizer/cli/internal/ddl"
	"harmonizer/cli/internal/harmonizer"
	"harmonizer/cli/internal/stream"

	"github.com/starfederation/datastar-go/datastar"
)

// maxBody bounds request bodies.
const maxBody = 4 << 20

// SchemaRequest is the body of every /api endpoint and the signal set read by
// /api/stream.
type SchemaRequest struct {
	SQLQuery string `json:"sqlQuery"`
}

// RelayResponse is returned by /api/init-message.
type RelayResponse struct {
	Report   ddl.Report      `json:"report"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// StreamSignals are patched into the client after every stream event.
type StreamSignals struct {
	// Status is one of invalid, streaming, done or error.
	Status  string     `json:"status"`
	Report  ddl.Report `json:"report"`
	Event   string     `json:"event,omitempty"`
	Text    string     `json:"text,omitempty"`
	ModelID string     `json:"modelId,omitempty"`
	Events  int        `json:"events"`
	Error   string     `json:"error,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSchema(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ddl.Check(req.SQLQuery))
}

func (s *Server) initMessage(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSchema(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	report := ddl.Check(req.SQLQuery)
	if !report.IsValid {
		writeJSON(w, http.StatusUnprocessableEntity, RelayResponse{Report: report})
		return
	}
	if s.relay == nil {
		writeJSON(w, http.StatusServiceUnavailable, RelayResponse{Report: report, Error: "harmonizer relay is not configured"})
		return
	}

	out, err := s.relay.InitMessage(r.Context(), req.SQLQuery)
	if err != nil {
		s.logger.Warn("init message relay failed", "error", err)
		writeJSON(w, relayStatus(err), RelayResponse{Report: report, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, RelayResponse{Report: report, Response: out})
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	// Read signals before creating the SSE generator, which consumes the body
	var req SchemaRequest
	if err := datastar.ReadSignals(r, &req); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	sse := datastar.NewSSE(w, r)
	signals := StreamSignals{Status: "invalid", Report: ddl.Check(req.SQLQuery)}
	if !signals.Report.IsValid {
		_ = sse.MarshalAndPatchSignals(signals)
		return
	}
	if s.relay == nil {
		signals.Status = "error"
		signals.Error = "harmonizer relay is not configured"
		_ = sse.MarshalAndPatchSignals(signals)
		return
	}

	signals.Status = "streaming"
	if err := sse.MarshalAndPatchSignals(signals); err != nil {
		return
	}

	progress := stream.NewProgress()
	err := s.relay.StreamInitMessage(r.Context(), req.SQLQuery, func(data json.RawMessage) error {
		ev := stream.FromPayload(data)
		progress.Apply(ev)

		signals.Event = string(ev.Type)
		signals.Text = progress.Text()
		signals.ModelID = progress.ModelID
		signals.Events = progress.Total()
		switch {
		case ev.Failed():
			signals.Status = "error"
			signals.Error = progress.Err()
		case ev.Type == stream.EventDone:
			signals.Status = "done"
		}
		if err := sse.MarshalAndPatchSignals(signals); err != nil {
			return err
		}
		if ev.Terminal() || ev.Failed() {
			return harmonizer.ErrStopStream
		}
		return nil
	})
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.logger.Warn("stream relay failed", "error", err)
		signals.Status = "error"
		signals.Error = err.Error()
		_ = sse.MarshalAndPatchSignals(signals)
		_ = sse.ConsoleError(err)
		return
	}
	if signals.Status == "streaming" {
		signals.Status = "done"
		_ = sse.MarshalAndPatchSignals(signals)
	}
}

func decodeSchema(r *http.Request) (SchemaRequest, error) {
	var req SchemaRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("request body is empty")
		}
		return req, errors.New("invalid JSON body: " + err.Error())
	}
	return req, nil
}

// relayStatus maps a harmonizer failure onto the status returned to callers.
func relayStatus(err error) int {
	var apiErr *harmonizer.APIError
	if errors.As(err, &apiErr) && apiErr.IsNetwork() {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
