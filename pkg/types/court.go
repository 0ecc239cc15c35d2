// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Court is one of the appellate courts offered by the manual entry form.
type Court int

const (
	CourtCasablanca Court = iota + 1
	CourtRabat
	CourtFes
	CourtMarrakech
)

// Courts lists every court in display order.
var Courts = []Court{CourtCasablanca, CourtRabat, CourtFes, CourtMarrakech}

var courtNames = map[Court]string{
	CourtCasablanca: "محكمة الاستئناف بالدار البيضاء",
	CourtRabat:      "محكمة الاستئناف بالرباط",
	CourtFes:        "محكمة الاستئناف بفاس",
	CourtMarrakech:  "محكمة الاستئناف بمراكش",
}

var courtSlugs = map[Court]string{
	CourtCasablanca: "casablanca",
	CourtRabat:      "rabat",
	CourtFes:        "fes",
	CourtMarrakech:  "marrakech",
}

// String returns the Arabic court name sent to the model and shown in the UI.
func (c Court) String() string {
	if n, ok := courtNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Court(%d)", int(c))
}

// Slug returns the short ASCII name accepted on the command line.
func (c Court) Slug() string {
	return courtSlugs[c]
}

// Valid reports whether c is a known court.
func (c Court) Valid() bool {
	_, ok := courtNames[c]
	return ok
}

// ParseCourt accepts the Arabic name or the ASCII slug (case-insensitive).
func ParseCourt(v string) (Court, error) {
	v = strings.TrimSpace(v)
	for _, c := range Courts {
		if v == courtNames[c] || strings.EqualFold(v, courtSlugs[c]) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown court %q", v)
}
