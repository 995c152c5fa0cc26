// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrNoInput is returned if the input holds no data to decode.
var ErrNoInput = errors.New("no input data")

// An item is one DER encoded value of the input.
type item struct {
	Label string // PEM block type, empty for raw DER input
	Index int
	Data  []byte
}

// readInput reads the file at path. If path is empty or "-", stdin is read.
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return data, nil
}

var pemStart = []byte("-----BEGIN ")

// splitInput returns the DER encoded values of data. PEM encoded input yields
// one item per block. All other input is treated as a single DER value. If
// certOnly is set, PEM blocks other than certificates are skipped.
func splitInput(data []byte, certOnly bool, logger *slog.Logger) ([]item, error) {
	if !bytes.Contains(data, pemStart) {
		if len(data) == 0 {
			return nil, ErrNoInput
		}
		return []item{{Data: data}}, nil
	}
	var items []item
	for i := 0; ; i++ {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if certOnly && block.Type != "CERTIFICATE" {
			logger.Warn("skipping PEM block", "index", i, "type", block.Type)
			continue
		}
		logger.Debug("found PEM block", "index", i, "type", block.Type, "bytes", len(block.Bytes))
		items = append(items, item{Label: block.Type, Index: i, Data: block.Bytes})
	}
	if len(items) == 0 {
		return nil, ErrNoInput
	}
	return items, nil
}
