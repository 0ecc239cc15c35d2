// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package caseform validates the manual case entry form: a case number in
// three numeric segments and one of the known appellate courts.
package caseform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/case-analyzer/internal/analysis"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

// MissingFieldsMessage is shown when the form is incomplete.
const MissingFieldsMessage = "يرجى ملء جميع الحقول المطلوبة."

// InvalidFieldsMessage is shown when a field is filled but malformed.
const InvalidFieldsMessage = "يرجى التحقق من صحة رقم الملف والمحكمة."

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("court", validateCourt)
}

func validateCourt(fl validator.FieldLevel) bool {
	_, err := types.ParseCourt(fl.Field().String())
	return err == nil
}

// ManualForm is the manual entry form as submitted.
type ManualForm struct {
	Part1 string `form:"part1" validate:"required,number,max=10"`
	Part2 string `form:"part2" validate:"required,number,max=10"`
	Part3 string `form:"part3" validate:"required,number,max=10"`

	// Court is the Arabic court name or its slug.
	Court string `form:"court" validate:"required,court"`

	// IncludePrimary asks for the first-instance courts to be searched too.
	IncludePrimary bool `form:"include_primary"`
}

// ValidationError lists the form fields that failed validation.
type ValidationError struct {
	Fields  []string
	Missing bool
}

// Error returns the user-facing message.
func (e *ValidationError) Error() string {
	if e.Missing {
		return MissingFieldsMessage
	}
	return InvalidFieldsMessage
}

// Detail lists the offending fields, for logs.
func (e *ValidationError) Detail() string {
	return strings.Join(e.Fields, ",")
}

// Trim removes surrounding whitespace from every text field.
func (f *ManualForm) Trim() {
	f.Part1 = strings.TrimSpace(f.Part1)
	f.Part2 = strings.TrimSpace(f.Part2)
	f.Part3 = strings.TrimSpace(f.Part3)
	f.Court = strings.TrimSpace(f.Court)
}

// Validate checks the form. It returns a *ValidationError when a field is
// missing or malformed.
func (f *ManualForm) Validate() error {
	f.Trim()
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating form: %w", err)
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fe.Field())
		if fe.Tag() == "required" {
			ve.Missing = true
		}
	}
	return ve
}

// CaseNumber joins the three segments with "/".
func (f *ManualForm) CaseNumber() string {
	return f.Part1 + "/" + f.Part2 + "/" + f.Part3
}

// Input validates the form and converts it to an analysis request.
func (f *ManualForm) Input() (analysis.ManualInput, error) {
	if err := f.Validate(); err != nil {
		return analysis.ManualInput{}, err
	}
	court, _ := types.ParseCourt(f.Court)
	return analysis.ManualInput{
		NumeroDossier:  f.CaseNumber(),
		Tribunal:       court.String(),
		IncludePrimary: f.IncludePrimary,
	}, nil
}

// Default returns the form pre-filled the way the entry page shows it.
func Default() ManualForm {
	return ManualForm{
		Part1: "741",
		Part2: "2102",
		Part3: "2025",
		Court: types.CourtCasablanca.String(),
	}
}

// ParseCaseNumber splits "N1/N2/N3" into a form, for the command line.
func ParseCaseNumber(number string, court string) ManualForm {
	parts := strings.Split(number, "/")
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	if len(parts) > 3 {
		parts[2] = strings.Join(parts[2:], "/")
	}
	return ManualForm{Part1: parts[0], Part2: parts[1], Part3: parts[2], Court: court}
}
