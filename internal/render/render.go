// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes an analysis result for the terminal: a styled text
// report, YAML or JSON.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/case-analyzer/internal/compare"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Formats lists the accepted format names.
var Formats = []string{FormatText, FormatYAML, FormatJSON}

// Report headings.
const (
	headingTitle        = "تقرير تحليل القضية"
	headingSummary      = "ملخص القضية"
	headingIncoherences = "التناقضات المكتشفة"
	headingKeyPoints    = "النقاط الرئيسية"
	headingComparison   = "مقارنة البيانات"
	headingTimeline     = "التسلسل الزمني"
	headingNextSteps    = "الخطوات التالية المقترحة"
	noIncoherences      = "لم يتم العثور على تناقضات كبيرة."
	columnDocument      = "المستند"
	columnOnline        = "عبر الإنترنت"
)

// Write renders res to w in the given format.
func Write(w io.Writer, format string, res *types.AnalysisResult) error {
	if !res.Complete() {
		return fmt.Errorf("rendering report: incomplete result")
	}
	switch format {
	case FormatText, "":
		return writeText(w, res)
	case FormatYAML:
		return writeYAML(w, res)
	case FormatJSON:
		return writeJSON(w, res)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func writeYAML(w io.Writer, res *types.AnalysisResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

func writeJSON(w io.Writer, res *types.AnalysisResult) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// styles are bound to a renderer so colour is dropped when w is not a
// terminal.
type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	alert   lipgloss.Style
	ok      lipgloss.Style
	box     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#1D4ED8")),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563EB")).MarginTop(1),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		alert:   r.NewStyle().Foreground(lipgloss.Color("#DC2626")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#16A34A")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#93C5FD")).
			Padding(0, 1),
	}
}

func writeText(w io.Writer, res *types.AnalysisResult) error {
	st := newStyles(lipgloss.NewRenderer(w))
	rep := res.AnalysisReport

	var b strings.Builder
	line := func(s string) { b.WriteString(s); b.WriteByte('\n') }

	line(st.title.Render(headingTitle))

	line(st.heading.Render(headingSummary))
	line(st.box.Render(rep.Resume))

	line(st.heading.Render(headingIncoherences))
	if len(rep.Incoherences) == 0 {
		line(st.ok.Render("✓ " + noIncoherences))
	}
	for _, s := range rep.Incoherences {
		line(st.alert.Render("⚠ " + s))
	}

	line(st.heading.Render(headingKeyPoints))
	for _, s := range rep.PointsCles {
		line("• " + s)
	}

	line(st.heading.Render(headingComparison))
	for _, f := range compare.CompareCases(res.DocumentData, res.OnlineData) {
		mark := " "
		value := st.muted
		if f.Highlight {
			mark = "≠"
			value = st.alert
		}
		line(fmt.Sprintf("%s %s", mark, f.Label))
		line("    " + columnDocument + ": " + value.Render(f.Document))
		line("    " + columnOnline + ": " + value.Render(f.Online))
	}

	line(st.heading.Render(headingTimeline))
	for _, it := range compare.SortTimeline(rep.Timeline) {
		line(fmt.Sprintf("%s  %s %s", it.Label, it.Description, st.muted.Render("["+it.Source.String()+"]")))
	}

	line(st.heading.Render(headingNextSteps))
	for i, s := range rep.ProchainesEtapes {
		line(fmt.Sprintf("%d. %s", i+1, s))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
