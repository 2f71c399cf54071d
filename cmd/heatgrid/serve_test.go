// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/heatgrid/internal/bridge"
	"github.com/davetashner/heatgrid/internal/heatmap"
)

// hostInput encodes messages as the JSON lines a host writes.
func hostInput(t *testing.T, msgs ...bridge.Message) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, m := range msgs {
		require.NoError(t, enc.Encode(m))
	}
	return &buf
}

// events decodes the event lines written by serve.
func events(t *testing.T, out string) []bridge.Event {
	t.Helper()
	var evs []bridge.Event
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		var ev bridge.Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev), "line: %s", sc.Text())
		evs = append(evs, ev)
	}
	require.NoError(t, sc.Err())
	return evs
}

func snapshots(evs []bridge.Event) []string {
	var out []string
	for _, ev := range evs {
		if ev.Type == bridge.EventSnapshot {
			out = append(out, ev.Text)
		}
	}
	return out
}

func TestServe_SetDataAndSnapshot(t *testing.T) {
	isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetIn(hostInput(t,
		bridge.Message{Signal: heatmap.SignalSetData, Payload: sampleFeed},
		bridge.Message{Signal: bridge.SignalRequestSnapshot},
	))
	cmd.SetArgs([]string{"serve"})
	require.NoError(t, cmd.Execute())

	evs := events(t, stdout.String())
	require.NotEmpty(t, evs)
	assert.Equal(t, bridge.Event{Type: bridge.EventLog, Text: "Widget up and running..."}, evs[0])
	assert.Contains(t, evs, bridge.Event{Type: bridge.EventLog, Text: "Data changed..."})

	snaps := snapshots(evs)
	require.Len(t, snaps, 1)
	assert.Contains(t, snaps[0], "<svg")
	assert.Equal(t, 3, strings.Count(snaps[0], "<rect"))
}

func TestServe_HandlerErrorsBecomeEvents(t *testing.T) {
	isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetIn(hostInput(t,
		bridge.Message{Signal: heatmap.SignalSetMaxXElements, Payload: "zero"},
		bridge.Message{Signal: "sgnUnknown"},
	))
	cmd.SetArgs([]string{"serve"})
	require.NoError(t, cmd.Execute())

	var errs []string
	for _, ev := range events(t, stdout.String()) {
		if ev.Type == bridge.EventError {
			errs = append(errs, ev.Text)
		}
	}
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Handler: "+heatmap.SignalSetMaxXElements)
	assert.Contains(t, errs[1], `no handler for signal "sgnUnknown"`)
}

func TestServe_InitialFeedAndJSONSnapshot(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)

	cmd, stdout, _ := newTestCmd()
	cmd.SetIn(hostInput(t,
		bridge.Message{Signal: heatmap.SignalSetMaxYElements, Payload: "9"},
		bridge.Message{Signal: bridge.SignalRequestSnapshot},
	))
	cmd.SetArgs([]string{"serve", src, "--snapshot-format", "json"})
	require.NoError(t, cmd.Execute())

	snaps := snapshots(events(t, stdout.String()))
	require.Len(t, snaps, 1)
	doc := decodeJSON(t, []byte(snaps[0]))
	assert.Equal(t, 9, doc.Layout.Rows)
	assert.Len(t, doc.Cells, 3)
}

func TestServe_PNGSnapshotIsBase64(t *testing.T) {
	isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetIn(hostInput(t,
		bridge.Message{Signal: heatmap.SignalSetData, Payload: sampleFeed},
		bridge.Message{Signal: bridge.SignalRequestSnapshot},
	))
	cmd.SetArgs([]string{"serve", "--snapshot-format", "png"})
	require.NoError(t, cmd.Execute())

	snaps := snapshots(events(t, stdout.String()))
	require.Len(t, snaps, 1)
	data, err := base64.StdEncoding.DecodeString(snaps[0])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
}

func TestServe_RejectsStdinFeed(t *testing.T) {
	isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"serve", "-"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
}

func TestServe_UnknownSnapshotFormat(t *testing.T) {
	isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"serve", "--snapshot-format", "bmp"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
}
