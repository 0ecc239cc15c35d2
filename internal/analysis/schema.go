// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	json "github.com/goccy/go-json"

	"github.com/pdiddy/case-analyzer/pkg/types"
)

// SchemaType is a JSON schema primitive type.
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema is the subset of JSON schema needed to describe the expected reply.
// Providers translate it into their own structured-output format.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// MarshalJSON lets a *Schema be passed where a json.Marshaler is expected.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	return json.Marshal((*plain)(s))
}

func str() *Schema { return &Schema{Type: TypeString} }

func strList() *Schema { return &Schema{Type: TypeArray, Items: str()} }

func caseDetailsSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"numeroDossier": str(),
			"tribunal":      str(),
			"typeAffaire":   str(),
			"etatDossier":   str(),
			"parties": {
				Type: TypeArray,
				Items: &Schema{
					Type:       TypeObject,
					Properties: map[string]*Schema{"role": str(), "nom": str()},
					Required:   []string{"role", "nom"},
				},
			},
			"historique": {
				Type: TypeArray,
				Items: &Schema{
					Type:       TypeObject,
					Properties: map[string]*Schema{"date": str(), "evenement": str()},
					Required:   []string{"date", "evenement"},
				},
			},
		},
		Required: []string{"numeroDossier", "tribunal", "typeAffaire", "etatDossier"},
	}
}

// ResultSchema describes the three-part reply every analysis expects.
func ResultSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"documentData": caseDetailsSchema(),
			"onlineData":   caseDetailsSchema(),
			"analysisReport": {
				Type: TypeObject,
				Properties: map[string]*Schema{
					"resume":           str(),
					"incoherences":     strList(),
					"pointsCles":       strList(),
					"prochainesEtapes": strList(),
					"timeline": {
						Type: TypeArray,
						Items: &Schema{
							Type: TypeObject,
							Properties: map[string]*Schema{
								"date":        {Type: TypeString, Description: "Date in ISO 8601 format (YYYY-MM-DD)"},
								"description": str(),
								"source":      {Type: TypeString, Enum: types.TimelineSourceTags},
							},
							Required: []string{"date", "description", "source"},
						},
					},
				},
				Required: []string{"resume", "incoherences", "pointsCles", "prochainesEtapes", "timeline"},
			},
		},
		Required: []string{"documentData", "onlineData", "analysisReport"},
	}
}
