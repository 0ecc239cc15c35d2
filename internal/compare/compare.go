// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compare prepares an analysis for display: the side-by-side field
// comparison of the two case records and the ordered timeline.
package compare

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/pdiddy/case-analyzer/pkg/types"
)

// NotAvailable is shown for an empty value.
const NotAvailable = "غير متاح"

// Field is one row of the comparison table.
type Field struct {
	// Key is a stable ASCII identifier ("numeroDossier", "parties", ...).
	Key   string
	Label string

	Document string
	Online   string

	// Differs is set when the two values are not structurally equal.
	Differs bool

	// Highlight is Differs with both sides present; only these rows are
	// painted as discrepancies.
	Highlight bool
}

// equalOpts treats nil and empty lists as equal.
var equalOpts = []cmp.Option{cmpopts.EquateEmpty()}

type fieldSpec struct {
	key   string
	label string
	get   func(*types.CaseDetails) any
	show  func(any) string
}

var fieldSpecs = []fieldSpec{
	{"numeroDossier", "رقم القضية", func(d *types.CaseDetails) any { return d.NumeroDossier }, showString},
	{"tribunal", "المحكمة", func(d *types.CaseDetails) any { return d.Tribunal }, showString},
	{"typeAffaire", "نوع القضية", func(d *types.CaseDetails) any { return d.TypeAffaire }, showString},
	{"etatDossier", "حالة القضية", func(d *types.CaseDetails) any { return d.EtatDossier }, showString},
	{"parties", "الأطراف", func(d *types.CaseDetails) any { return d.Parties }, showParties},
	{"historique", "المراحل", func(d *types.CaseDetails) any { return d.Historique }, showHistory},
}

// CompareCases returns one Field per compared attribute, in display order.
// Optional list attributes are included only when either side has them.
// A nil record compares like an empty one.
func CompareCases(doc, online *types.CaseDetails) []Field {
	if doc == nil {
		doc = &types.CaseDetails{}
	}
	if online == nil {
		online = &types.CaseDetails{}
	}

	var fields []Field
	for _, spec := range fieldSpecs {
		dv, ov := spec.get(doc), spec.get(online)
		docText, onlineText := spec.show(dv), spec.show(ov)
		if (spec.key == "parties" || spec.key == "historique") && docText == "" && onlineText == "" {
			continue
		}

		differs := !cmp.Equal(dv, ov, equalOpts...)
		fields = append(fields, Field{
			Key:       spec.key,
			Label:     spec.label,
			Document:  orNA(docText),
			Online:    orNA(onlineText),
			Differs:   differs,
			Highlight: differs && docText != "" && onlineText != "",
		})
	}
	return fields
}

// Differing returns the keys of the fields that differ.
func Differing(fields []Field) []string {
	var keys []string
	for _, f := range fields {
		if f.Differs {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func showString(v any) string {
	return strings.TrimSpace(v.(string))
}

func showParties(v any) string {
	parties := v.([]types.Party)
	out := make([]string, 0, len(parties))
	for _, p := range parties {
		out = append(out, fmt.Sprintf("%s: %s", p.Role, p.Nom))
	}
	return strings.Join(out, "، ")
}

func showHistory(v any) string {
	entries := v.([]types.HistoryEntry)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s %s", e.Date, e.Evenement))
	}
	return strings.Join(out, "، ")
}
