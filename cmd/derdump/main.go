// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command derdump prints the structure of DER encoded X.509 certificates.
//
// Usage:
//
//	derdump [flags] [FILE]
//
// Run derdump --help for a list of flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codello.dev/x509der/internal/cli"
	"codello.dev/x509der/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, version.Version)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
