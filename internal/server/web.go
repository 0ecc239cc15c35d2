// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"embed"
	"html/template"

	"github.com/pdiddy/case-analyzer/internal/caseform"
	"github.com/pdiddy/case-analyzer/internal/compare"
	"github.com/pdiddy/case-analyzer/internal/controller"
	"github.com/pdiddy/case-analyzer/internal/docread"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Tab names on the upload page.
const (
	tabUpload = "upload"
	tabManual = "manual"
)

type courtOption struct {
	Value    string
	Label    string
	Selected bool
}

// page is the data handed to index.html.
type page struct {
	View controller.View
	Tab  string

	// Upload state.
	Accept string
	Form   caseform.ManualForm
	Courts []courtOption

	// Report state.
	Fields   []compare.Field
	Timeline []compare.TimelineItem
}

func newPage(v controller.View, tab string, form caseform.ManualForm) page {
	p := page{View: v, Tab: tab}
	switch v.State {
	case controller.StateUpload:
		if p.Tab != tabManual {
			p.Tab = tabUpload
		}
		p.Accept = docread.AcceptAttr()
		p.Form = form
		selected, _ := types.ParseCourt(form.Court)
		for _, c := range types.Courts {
			p.Courts = append(p.Courts, courtOption{
				Value:    c.Slug(),
				Label:    c.String(),
				Selected: c == selected,
			})
		}
	case controller.StateReport:
		p.Fields = compare.CompareCases(v.DocumentData, v.OnlineData)
		p.Timeline = compare.SortTimeline(v.AnalysisReport.Timeline)
	}
	return p
}
