// Copyright (c) Microsoft. All rights reserved.

package main

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/rishtawaliauntie/auntie/config"
	"github.com/rishtawaliauntie/auntie/workflow"
)

func TestTerminalDisplay(t *testing.T) {
	var b strings.Builder
	d := &terminalDisplay{w: &b}

	d.Status(workflow.StatusInfo, workflow.StatusThinking)
	d.Response("")
	d.Response("Hello")
	d.Response("Hello, Ali")
	d.Status(workflow.StatusSuccess, workflow.StatusComplete)

	want := workflow.StatusThinking + "\n💬 Hello, Ali\n" + workflow.StatusComplete + "\n"
	if b.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", b.String(), want)
	}
}

func TestNewChatClient(t *testing.T) {
	c, err := newChatClient(config.Model{APIKey: "key", Name: "gemini-1.5-flash"}, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != "gemini-1.5-flash" {
		t.Errorf("Model = %q", c.Model())
	}
}
