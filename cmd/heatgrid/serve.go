// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/base64"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/davetashner/heatgrid/internal/bridge"
	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/output"
)

// Serve-specific flag values.
var serveSnapshotFormat string

// serveCmd keeps a widget attached to a host over stdio.
var serveCmd = &cobra.Command{
	Use:   "serve [feed]",
	Short: "Run the widget on a JSON-lines host bridge over stdio",
	Long: `Attach a widget to a host speaking JSON lines on stdin and stdout.

Each input line is a signal: {"signal": "sgnSetData", "payload": "..."}.
Accepted signals are sgnSetData, sgnSetXLabels, sgnSetYLabels,
sgnSetMaxXElements, sgnSetMaxYElements, and sgnRequestSnapshot.

Each output line is an event: {"type": "onJsLog", "text": "..."}, with
type onJsLog, onJsError, or onSnapshot. A snapshot carries the rendered
widget in --snapshot-format; png is base64 encoded.

An optional feed argument is drawn before the first signal is read.
The command exits when stdin ends.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveSnapshotFormat, "snapshot-format", defaultFormat, "format of onSnapshot events: svg, html, json, markdown, or png")
	addLayoutFlags(serveCmd)
	addFeedFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	_, layout, opts, err := setup(cmd)
	if err != nil {
		return err
	}
	snap, err := output.GetFormatter(serveSnapshotFormat)
	if err != nil {
		return exitError(ExitInvalidArgs, "heatgrid: %v", err)
	}

	w := heatmap.New(layout, bridge.NewConsole(nil))
	if len(args) > 0 {
		if args[0] == feed.StdinSource {
			return exitError(ExitInvalidArgs, "heatgrid: serve reads signals from stdin; pass the initial feed as a file or URL")
		}
		parsed, err := feed.Load(cmd.Context(), args[0], opts)
		if err != nil {
			return exitError(ExitTotalFailure, "heatgrid: %v", err)
		}
		w.LoadFeed(parsed)
	}

	stream := bridge.NewStream(cmd.InOrStdin(), cmd.OutOrStdout())
	if !w.Attach(stream) {
		return exitError(ExitTotalFailure, "heatgrid: %s", w.Banner())
	}

	err = stream.Connect(bridge.SignalRequestSnapshot, func(string) {
		var buf bytes.Buffer
		if err := snap.Format(w, &buf); err != nil {
			stream.Error("snapshot: " + err.Error())
			return
		}
		text := buf.String()
		if snap.Name() == "png" {
			text = base64.StdEncoding.EncodeToString(buf.Bytes())
		}
		if err := stream.Emit(bridge.Event{Type: bridge.EventSnapshot, Text: text}); err != nil {
			slog.Warn("snapshot not delivered", "error", err)
		}
	})
	if err != nil {
		return exitError(ExitTotalFailure, "heatgrid: %v", err)
	}

	if err := stream.Run(cmd.Context()); err != nil {
		return exitError(ExitTotalFailure, "heatgrid: %v", err)
	}
	slog.Debug("host disconnected", "cells", len(w.Records()))
	return nil
}
