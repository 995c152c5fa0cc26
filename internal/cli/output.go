// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"codello.dev/x509der"
	"codello.dev/x509der/der"
	"codello.dev/x509der/internal/config"
	"codello.dev/x509der/x509"
)

var printer = der.Printer{OIDName: x509.OIDName}

// A node is the serializable form of a [der.Object].
type node struct {
	Tag         string `json:"tag" yaml:"tag"`
	Offset      int    `json:"offset" yaml:"offset"`
	Length      int    `json:"length" yaml:"length"`
	Constructed bool   `json:"constructed,omitempty" yaml:"constructed,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	Children    []node `json:"children,omitempty" yaml:"children,omitempty"`
}

func newNode(o der.Object) node {
	n := node{
		Tag:         o.Tag.Name(),
		Offset:      o.Offset,
		Length:      o.Length,
		Constructed: o.Constructed,
	}
	if o.Children() == nil {
		n.Value = printer.Summary(o)
	}
	for _, child := range o.Children() {
		if child.Present() {
			n.Children = append(n.Children, newNode(child))
		}
	}
	return n
}

// A certSummary is the serializable form of an [x509.Certificate].
type certSummary struct {
	Version            int               `json:"version" yaml:"version"`
	SerialNumber       string            `json:"serialNumber" yaml:"serialNumber"`
	SignatureAlgorithm string            `json:"signatureAlgorithm" yaml:"signatureAlgorithm"`
	Issuer             string            `json:"issuer" yaml:"issuer"`
	NotBefore          string            `json:"notBefore" yaml:"notBefore"`
	NotAfter           string            `json:"notAfter" yaml:"notAfter"`
	Subject            string            `json:"subject" yaml:"subject"`
	PublicKeyAlgorithm string            `json:"publicKeyAlgorithm" yaml:"publicKeyAlgorithm"`
	PublicKeyBits      int               `json:"publicKeyBits" yaml:"publicKeyBits"`
	UniqueIDs          map[string]string `json:"uniqueIDs,omitempty" yaml:"uniqueIDs,omitempty"`
	Extensions         []extSummary      `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Tree               node              `json:"tree" yaml:"tree"`
}

type extSummary struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Critical bool   `json:"critical" yaml:"critical"`
	Value    string `json:"value" yaml:"value"`
}

// oidString returns the dotted notation of oid followed by its name, if known.
func oidString(oid der.OID) string {
	if name := x509.OIDName(x509der.ObjectIdentifier(oid)); name != "" {
		return oid.String() + " (" + name + ")"
	}
	return oid.String()
}

func newCertSummary(cert *x509.Certificate) certSummary {
	s := certSummary{
		Version:            cert.Version() + 1,
		SerialNumber:       cert.SerialNumber().String(),
		SignatureAlgorithm: oidString(cert.Signature().Algorithm),
		Issuer:             cert.Issuer().String(),
		NotBefore:          cert.Validity().NotBefore.String(),
		NotAfter:           cert.Validity().NotAfter.String(),
		Subject:            cert.Subject().String(),
		PublicKeyAlgorithm: oidString(cert.SubjectPublicKeyInfo().Algorithm.Algorithm),
		PublicKeyBits:      cert.SubjectPublicKeyInfo().PublicKey.BitLength,
		Tree:               newNode(cert.TBSCertificate),
	}
	for _, ext := range cert.Extensions() {
		s.Extensions = append(s.Extensions, extSummary{
			ID:       ext.ID.String(),
			Name:     x509.OIDName(x509der.ObjectIdentifier(ext.ID)),
			Critical: ext.Critical,
			Value:    hex.EncodeToString(ext.Value),
		})
	}
	if id, ok := cert.IssuerUniqueID(); ok {
		s.UniqueIDs = map[string]string{"issuer": id.String()}
	}
	if id, ok := cert.SubjectUniqueID(); ok {
		if s.UniqueIDs == nil {
			s.UniqueIDs = map[string]string{}
		}
		s.UniqueIDs["subject"] = id.String()
	}
	return s
}

// A result is a decoded input item.
type result struct {
	item
	cert *x509.Certificate // set in certificate mode
	obj  der.Object        // set in any mode
}

// write renders results to w in the given format.
func write(w io.Writer, format string, indent int, results []result) error {
	switch format {
	case config.FormatYAML:
		return writeYAML(w, results)
	case config.FormatJSON:
		return writeJSON(w, indent, results)
	case config.FormatTable:
		return writeTable(w, results)
	default:
		return writeText(w, indent, results)
	}
}

func writeText(w io.Writer, indent int, results []result) error {
	p := printer
	p.Step = indent
	for i, r := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if r.Label != "" {
			if _, err := fmt.Fprintf(w, "# %s %d\n", r.Label, r.Index); err != nil {
				return err
			}
		}
		var err error
		if r.cert != nil {
			err = r.cert.Render(w, 0, indent)
		} else {
			err = p.Render(w, r.obj)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// document returns the serializable form of r.
func (r result) document() any {
	if r.cert != nil {
		return newCertSummary(r.cert)
	}
	return newNode(r.obj)
}

func writeYAML(w io.Writer, results []result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, r := range results {
		if err := enc.Encode(r.document()); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
	}
	return enc.Close()
}

func writeJSON(w io.Writer, indent int, results []result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", strings.Repeat(" ", indent))
	for _, r := range results {
		if err := enc.Encode(r.document()); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	}
	return nil
}

func writeTable(w io.Writer, results []result) error {
	for _, r := range results {
		table := tablewriter.NewTable(w,
			tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
		)
		var rows [][]string
		if r.cert != nil {
			table.Header([]string{"Field", "Value"})
			rows = certRows(newCertSummary(r.cert))
		} else {
			table.Header([]string{"Offset", "Depth", "Tag", "Length", "Value"})
			r.obj.Walk(func(depth int, o der.Object) bool {
				if !o.Present() {
					return false
				}
				rows = append(rows, []string{
					strconv.Itoa(o.Offset),
					strconv.Itoa(depth),
					o.Tag.Name(),
					strconv.Itoa(o.Length),
					printer.Summary(o),
				})
				return true
			})
		}
		if err := table.Bulk(rows); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	return nil
}

func certRows(s certSummary) [][]string {
	rows := [][]string{
		{"Version", strconv.Itoa(s.Version)},
		{"Serial Number", s.SerialNumber},
		{"Signature Algorithm", s.SignatureAlgorithm},
		{"Issuer", s.Issuer},
		{"Not Before", s.NotBefore},
		{"Not After", s.NotAfter},
		{"Subject", s.Subject},
		{"Public Key Algorithm", s.PublicKeyAlgorithm},
		{"Public Key Bits", strconv.Itoa(s.PublicKeyBits)},
	}
	for _, ext := range s.Extensions {
		name := ext.ID
		if ext.Name != "" {
			name = ext.Name
		}
		if ext.Critical {
			name += " (critical)"
		}
		rows = append(rows, []string{"Extension", name})
	}
	return rows
}
