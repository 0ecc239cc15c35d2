// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Party is one named participant in a case (plaintiff, defendant, counsel).
type Party struct {
	Role string `json:"role" yaml:"role"`
	Nom  string `json:"nom" yaml:"nom"`
}

// HistoryEntry is one dated procedural event recorded for a case.
type HistoryEntry struct {
	Date      string `json:"date" yaml:"date"`
	Evenement string `json:"evenement" yaml:"evenement"`
}

// CaseDetails holds the identifying fields of a court case as read from one
// source. An analysis always carries two of them: the document side and the
// simulated online side.
type CaseDetails struct {
	// NumeroDossier is the full case number. Manual entries use "N1/N2/N3".
	NumeroDossier string `json:"numeroDossier" yaml:"numero_dossier"`

	// Tribunal is the court name.
	Tribunal string `json:"tribunal" yaml:"tribunal"`

	// TypeAffaire is the case type (civil, commercial, ...).
	TypeAffaire string `json:"typeAffaire,omitempty" yaml:"type_affaire,omitempty"`

	// EtatDossier is the procedural status of the case.
	EtatDossier string `json:"etatDossier,omitempty" yaml:"etat_dossier,omitempty"`

	Parties    []Party        `json:"parties,omitempty" yaml:"parties,omitempty"`
	Historique []HistoryEntry `json:"historique,omitempty" yaml:"historique,omitempty"`
}

// IsZero reports whether no field of d is set.
func (d *CaseDetails) IsZero() bool {
	return d == nil || (d.NumeroDossier == "" && d.Tribunal == "" &&
		d.TypeAffaire == "" && d.EtatDossier == "" &&
		len(d.Parties) == 0 && len(d.Historique) == 0)
}
