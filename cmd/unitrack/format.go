package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/unitrack/unitrack/money"
)

// markdown writes md to stdout, rendered for the terminal when styled.
func (a *app) markdown(md string) {
	if a.styled {
		if out, err := renderMarkdown(md, a.width); err == nil {
			md = out
		}
	}
	a.printf("%s", md)
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// table builds a markdown table. Pipes in cells are escaped.
func table(header []string, rows [][]string) string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(c, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, r := range rows {
		writeRow(r)
	}
	return b.String()
}

func amount(v float64, currency string) string {
	return money.FromFloat(v, currency).String()
}

func signedAmount(v float64, currency string) string {
	return money.FromFloat(v, currency).SignedString()
}

func percent(p float64) string {
	return money.Percent(p).String()
}

func change(p float64) string {
	return money.Percent(p).SignedString()
}

func quantity(q *float64) string {
	if q == nil {
		return "-"
	}
	return strconv.FormatFloat(*q, 'f', -1, 64)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
