// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli implements the derdump command. derdump decodes DER or PEM
// encoded X.509 certificates, or arbitrary DER values, and prints their
// structure.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"codello.dev/x509der"
	"codello.dev/x509der/der"
	"codello.dev/x509der/internal/config"
	"codello.dev/x509der/x509"
)

// NewRootCommand returns the derdump command.
func NewRootCommand(version string) *cobra.Command {
	var (
		configPath string
		flags      = config.Default()
	)
	cmd := &cobra.Command{
		Use:   "derdump [FILE]",
		Short: "Print the structure of DER encoded certificates",
		Long: `derdump decodes DER encoded X.509 certificates and prints their structure.

Input is read from FILE or, if FILE is omitted or "-", from stdin. PEM input
may contain multiple blocks, each of which is decoded separately. In "any" mode
the input is decoded as an arbitrary DER value without a schema.

Settings are read from the file given by --config or the ` + config.EnvVar + `
environment variable. Flags override the settings of the file.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configPath, flags)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return run(cmd.Context(), cfg, path, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "read settings from `file` (default $"+config.EnvVar+")")
	f.StringVarP(&flags.Format, "format", "f", flags.Format, "output `format`: "+strings.Join(config.Formats, ", "))
	f.StringVarP(&flags.Mode, "mode", "m", flags.Mode, "decoding `mode`: "+strings.Join(config.Modes, ", "))
	f.IntVar(&flags.Indent, "indent", flags.Indent, "indentation per nesting level")
	f.IntVar(&flags.MaxDepth, "max-depth", flags.MaxDepth, "maximum nesting of constructed values")
	f.BoolVar(&flags.AllowTrailing, "allow-trailing", flags.AllowTrailing, "ignore bytes after the decoded value")
	f.BoolVarP(&flags.Verbose, "verbose", "v", flags.Verbose, "enable debug logging")
	return cmd
}

// Execute runs the derdump command with the arguments of the process.
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

// loadConfig reads the configuration file and applies the flags that were set
// on the command line.
func loadConfig(cmd *cobra.Command, path string, flags config.Config) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("format") {
		cfg.Format = flags.Format
	}
	if f.Changed("mode") {
		cfg.Mode = flags.Mode
	}
	if f.Changed("indent") {
		cfg.Indent = flags.Indent
	}
	if f.Changed("max-depth") {
		cfg.MaxDepth = flags.MaxDepth
	}
	if f.Changed("allow-trailing") {
		cfg.AllowTrailing = flags.AllowTrailing
	}
	if f.Changed("verbose") {
		cfg.Verbose = flags.Verbose
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run decodes the input at path and writes the results to stdout.
func run(ctx context.Context, cfg config.Config, path string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	data, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	items, err := splitInput(data, cfg.Mode == config.ModeCertificate, logger)
	if err != nil {
		return err
	}
	results := make([]result, 0, len(items))
	for _, it := range items {
		if err = ctx.Err(); err != nil {
			return err
		}
		r, err := decode(it, cfg, logger)
		if err != nil {
			return fmt.Errorf("block %d: %w", it.Index, err)
		}
		results = append(results, r)
	}
	return write(stdout, cfg.Format, cfg.Indent, results)
}

// decode decodes a single input item according to cfg.
func decode(it item, cfg config.Config, logger *slog.Logger) (result, error) {
	r := result{item: it}
	opt := der.WithMaxDepth(cfg.MaxDepth)
	var (
		rest []byte
		err  error
	)
	switch {
	case cfg.Mode == config.ModeAny:
		r.obj, rest, err = der.Decode(it.Data, opt)
	case cfg.AllowTrailing:
		r.cert, rest, err = x509.Parse(it.Data, opt)
	default:
		r.cert, err = x509.ParseCertificate(it.Data, opt)
	}
	if err != nil {
		return r, err
	}
	if len(rest) > 0 {
		if !cfg.AllowTrailing {
			return r, &x509der.Error{
				Kind:   x509der.TrailingData,
				Offset: len(it.Data) - len(rest),
				Err:    fmt.Errorf("%d bytes after value", len(rest)),
			}
		}
		logger.Warn("ignoring trailing data", "index", it.Index, "bytes", len(rest))
	}
	logger.Debug("decoded value", "index", it.Index, "bytes", len(it.Data)-len(rest))
	return r, nil
}
