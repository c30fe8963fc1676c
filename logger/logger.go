// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package logger holds the zkToolkit-wide zerolog logger.
//
// The default logger writes to a console writer on stdout. Under go test it
// is a no-op unless the binary was built with -tags=debug, so proof
// construction diagnostics never pollute test output.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zkTerm/zkToolkit/debug"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()

	if !debug.Debug && strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}
}

// SetOutput changes the output of the global logger
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set allows a zkToolkit user to override the global logger
func Set(l zerolog.Logger) {
	logger = l
}

// Disable disables logging
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns the global logger
func Logger() zerolog.Logger {
	return logger
}

// For returns a sublogger tagged with the originating component
// (e.g. "merkle", "commitment").
func For(component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
