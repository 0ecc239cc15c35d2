// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AnalysisReport is the narrative part of an analysis as produced by the model.
type AnalysisReport struct {
	// Resume is the short case summary.
	Resume string `json:"resume" yaml:"resume"`

	// Incoherences lists discrepancies between the two sources and inside the
	// document itself.
	Incoherences []string `json:"incoherences" yaml:"incoherences"`

	// PointsCles lists the key points to remember.
	PointsCles []string `json:"pointsCles" yaml:"points_cles"`

	// ProchainesEtapes lists recommended next steps.
	ProchainesEtapes []string `json:"prochainesEtapes" yaml:"prochaines_etapes"`

	Timeline []TimelineEvent `json:"timeline" yaml:"timeline"`
}

// AnalysisResult is the three-part reply of one analysis cycle.
type AnalysisResult struct {
	DocumentData   *CaseDetails    `json:"documentData" yaml:"document_data"`
	OnlineData     *CaseDetails    `json:"onlineData" yaml:"online_data"`
	AnalysisReport *AnalysisReport `json:"analysisReport" yaml:"analysis_report"`
}

// Complete reports whether all three parts are present. Only complete results
// are ever displayed.
func (r *AnalysisResult) Complete() bool {
	return r != nil && r.DocumentData != nil && r.OnlineData != nil && r.AnalysisReport != nil
}
