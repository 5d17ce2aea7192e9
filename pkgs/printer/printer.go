// Package printer writes the human facing status lines of the CLI. Logs go
// through zerolog; everything the operator is meant to read goes through a
// Printer.
package printer

import (
	"context"
	"fmt"
	"io"

	"github.com/hay-kot/mkenv/pkgs/styles"
)

type Printer struct {
	writer io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{writer: w}
}

// Ctx returns a copy of the printer that writes to the context writer, if
// one was set with WithWriter.
func (p *Printer) Ctx(ctx context.Context) *Printer {
	w, ok := GetWriter(ctx)
	if !ok {
		return p
	}

	cp := *p
	cp.writer = w
	return &cp
}

func (p *Printer) println(s string) {
	_, _ = fmt.Fprintln(p.writer, s)
}

func (p *Printer) Title(title string) {
	p.println(styles.Bold(title))
}

func (p *Printer) Success(msg string) {
	p.println(styles.Success(styles.Check) + " " + msg)
}

func (p *Printer) Warning(msg string) {
	p.println(styles.Warning(styles.Warn) + " " + msg)
}

func (p *Printer) Info(msg string) {
	p.println(styles.Subtle(msg))
}

// List prints a numbered list under title.
func (p *Printer) List(title string, items []string) {
	p.println(title)
	for i, item := range items {
		p.println(fmt.Sprintf("   %d. %s", i+1, item))
	}
}

type StatusListItem struct {
	Ok     bool
	Status string
	Detail string
}

func (p *Printer) StatusList(title string, items []StatusListItem) {
	p.println(styles.Bold(title))
	for _, item := range items {
		icon := styles.Success(styles.Check)
		if !item.Ok {
			icon = styles.Error(styles.Cross)
		}

		line := "  " + icon + " " + item.Status
		if item.Detail != "" {
			line += " " + styles.Subtle(item.Detail)
		}
		p.println(line)
	}
}

func (p *Printer) LineBreak() {
	p.println("")
}

func (p *Printer) FatalError(err error) {
	p.println(styles.ErrorBox("Error", err.Error()))
}
