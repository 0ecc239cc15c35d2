// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package caseform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/case-analyzer/pkg/types"
)

func TestValidate(t *testing.T) {
	casa := types.CourtCasablanca.String()
	tests := []struct {
		name        string
		form        ManualForm
		wantFields  []string
		wantMissing bool
	}{
		{"default form is valid", Default(), nil, false},
		{"slug court", ManualForm{Part1: "1", Part2: "2", Part3: "2024", Court: "rabat"}, nil, false},
		{"surrounding spaces trimmed", ManualForm{Part1: " 1 ", Part2: "2", Part3: "2024 ", Court: " fes"}, nil, false},
		{"first segment empty", ManualForm{Part2: "2", Part3: "3", Court: casa}, []string{"Part1"}, true},
		{"second segment empty", ManualForm{Part1: "1", Part3: "3", Court: casa}, []string{"Part2"}, true},
		{"third segment empty", ManualForm{Part1: "1", Part2: "2", Court: casa}, []string{"Part3"}, true},
		{"court empty", ManualForm{Part1: "1", Part2: "2", Part3: "3"}, []string{"Court"}, true},
		{"whitespace segment", ManualForm{Part1: "  ", Part2: "2", Part3: "3", Court: casa}, []string{"Part1"}, true},
		{"non numeric segment", ManualForm{Part1: "12a", Part2: "2", Part3: "3", Court: casa}, []string{"Part1"}, false},
		{"signed segment", ManualForm{Part1: "-1", Part2: "2", Part3: "3", Court: casa}, []string{"Part1"}, false},
		{"unknown court", ManualForm{Part1: "1", Part2: "2", Part3: "3", Court: "محكمة النقض"}, []string{"Court"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.wantFields, ve.Fields)
			assert.Equal(t, tt.wantMissing, ve.Missing)
			if tt.wantMissing {
				assert.Equal(t, MissingFieldsMessage, ve.Error())
			} else {
				assert.Equal(t, InvalidFieldsMessage, ve.Error())
			}
		})
	}
}

func TestInput(t *testing.T) {
	f := ManualForm{Part1: "741", Part2: "2102", Part3: "2025", Court: "casablanca", IncludePrimary: true}
	in, err := f.Input()
	require.NoError(t, err)
	assert.Equal(t, "741/2102/2025", in.NumeroDossier)
	assert.Equal(t, "محكمة الاستئناف بالدار البيضاء", in.Tribunal)
	assert.True(t, in.IncludePrimary)

	f = ManualForm{Part1: "741"}
	_, err = f.Input()
	assert.Error(t, err)
}

func TestParseCaseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want ManualForm
	}{
		{"741/2102/2025", ManualForm{Part1: "741", Part2: "2102", Part3: "2025", Court: "c"}},
		{"741/2102", ManualForm{Part1: "741", Part2: "2102", Part3: "", Court: "c"}},
		{"1/2/3/4", ManualForm{Part1: "1", Part2: "2", Part3: "3/4", Court: "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCaseNumber(tt.in, "c"))
		})
	}
}
