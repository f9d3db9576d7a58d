// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// printer renders tables on a terminal and JSON everywhere else, so the
// commands pipe cleanly into jq and scripts.
type printer struct {
	out  io.Writer
	errw io.Writer
	tty  bool
}

func newPrinter(cmd *cobra.Command) *printer {
	p := &printer{out: cmd.OutOrStdout(), errw: cmd.ErrOrStderr()}
	if f, ok := p.out.(*os.File); ok {
		p.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

// emit writes v as JSON when not on a terminal and reports whether it did.
func (p *printer) emit(v any) (bool, error) {
	if p.tty {
		return false, nil
	}
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

func (p *printer) table(header []string, rows [][]string) {
	t := tablewriter.NewWriter(p.out)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.AppendBulk(rows)
	t.Render()
}

func (p *printer) title(format string, args ...any) {
	if p.tty {
		color.New(color.FgCyan, color.Bold).Fprintf(p.out, format+"\n", args...)
	}
}

func (p *printer) success(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(p.errw, format+"\n", args...)
}

func (p *printer) warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(p.errw, format+"\n", args...)
}

func ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
