package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/warp/payroll-engine/payroll"
)

var (
	accent = lipgloss.Color("#D97706")
	dim    = lipgloss.Color("#6B7280")
	good   = lipgloss.Color("#22C55E")
)

type renderer struct {
	w      io.Writer
	label  lipgloss.Style
	header lipgloss.Style
	muted  lipgloss.Style
	total  lipgloss.Style
}

// newRenderer styles for w; colour is dropped when w is not a terminal.
func newRenderer(w io.Writer) *renderer {
	r := lipgloss.NewRenderer(w)
	return &renderer{
		w:      w,
		label:  r.NewStyle().Bold(true),
		header: r.NewStyle().Bold(true).Foreground(accent),
		muted:  r.NewStyle().Foreground(dim),
		total:  r.NewStyle().Bold(true).Foreground(good),
	}
}

func (r *renderer) payslip(slip *payroll.Payslip) {
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "%s %s\n\n", r.label.Render("Employee location:"), slip.Location)
	fmt.Fprintf(r.w, "%s %s\n\n", r.label.Render("Gross Amount:"), slip.Gross.StringFixed())
	fmt.Fprintln(r.w, r.header.Render("Less deductions"))
	fmt.Fprintln(r.w)
	for _, d := range slip.Deductions {
		fmt.Fprintf(r.w, "%s %s\n", r.muted.Render(d.Name+":"), d.Amount.StringFixed())
	}
	fmt.Fprintf(r.w, "%s %s\n\n", r.label.Render("Net Amount:"), r.total.Render(slip.Net.StringFixed()))
}

func (r *renderer) location(loc payroll.Location, currency payroll.Currency) {
	fmt.Fprintf(r.w, "%s %s\n", r.label.Render(loc.Name), r.muted.Render("("+currency.DisplayName()+" "+currency.Name+")"))
}
