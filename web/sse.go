// Copyright (c) Microsoft. All rights reserved.

package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rishtawaliauntie/auntie/workflow"
)

// sseDisplay is a [workflow.Display] that writes server-sent events.
// Write errors are logged once and later events are dropped.
type sseDisplay struct {
	w      http.ResponseWriter
	rc     *http.ResponseController
	logger *slog.Logger
	failed bool
}

var _ workflow.Display = (*sseDisplay)(nil)

func newSSEDisplay(w http.ResponseWriter, logger *slog.Logger) *sseDisplay {
	return &sseDisplay{w: w, rc: http.NewResponseController(w), logger: logger}
}

func (d *sseDisplay) Status(level workflow.StatusLevel, text string) {
	d.send("status", map[string]string{"level": string(level), "text": text})
}

func (d *sseDisplay) Response(full string) {
	d.send("response", map[string]string{"text": workflow.ResponsePrefix + full})
}

func (d *sseDisplay) send(event string, payload any) {
	if d.failed {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("encode event", "event", event, "error", err)
		return
	}
	if _, err := fmt.Fprintf(d.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		d.fail(err)
		return
	}
	if err := d.rc.Flush(); err != nil {
		d.fail(err)
	}
}

func (d *sseDisplay) fail(err error) {
	d.failed = true
	d.logger.Debug("client stream closed", "error", err)
}
