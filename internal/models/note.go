package models

import "fmt"

// NoteFormat selects the shape of a generated clinical note.
type NoteFormat string

const (
	FormatText              NoteFormat = "Text"
	FormatSOAP              NoteFormat = "SOAP"
	FormatPKIHL7CDA         NoteFormat = "PKI HL7 CDA"
	FormatTherapyAssessment NoteFormat = "Therapy Assessment"
)

// ParseNoteFormat resolves a requested format string. Anything not in the
// closed set falls back to plain text.
func ParseNoteFormat(s string) NoteFormat {
	switch NoteFormat(s) {
	case FormatSOAP:
		return FormatSOAP
	case FormatPKIHL7CDA:
		return FormatPKIHL7CDA
	case FormatTherapyAssessment:
		return FormatTherapyAssessment
	default:
		return FormatText
	}
}

// SOAPNote is the classic four-section note. Every field is optional;
// fields the model could not support are null, never empty strings.
type SOAPNote struct {
	Subjective *string `json:"subjective"`
	Objective  *string `json:"objective"`
	Assessment *string `json:"assessment"`
	Plan       *string `json:"plan"`
}

// PKIHL7CDANote mirrors the CDA-style visit documentation sections as
// free-form objects.
type PKIHL7CDANote struct {
	ContextOfVisit             map[string]any `json:"context_of_visit"`
	SubjectiveHistory          map[string]any `json:"subjective_history"`
	PhysicalExamination        map[string]any `json:"physical_examination"`
	DiagnosesAndProblems       map[string]any `json:"diagnoses_and_problems"`
	OrderedDiagnostics         map[string]any `json:"ordered_diagnostics"`
	TreatmentRecommendations   map[string]any `json:"treatment_and_recommendations"`
	FollowUpAndObservationPlan map[string]any `json:"follow_up_and_observation_plan"`
	VisitSummary               map[string]any `json:"visit_summary"`
}

// TherapyAssessmentNote rates a therapy session on four 1-5 scales with
// free-text strengths and improvement areas.
type TherapyAssessmentNote struct {
	Alliance      *int    `json:"alliance"`
	Communication *int    `json:"communication"`
	Ethics        *int    `json:"ethics"`
	Effectiveness *int    `json:"effectiveness"`
	Strengths     *string `json:"strengths"`
	Improvements  *string `json:"improvements"`
}

// Validate checks that every provided rating is within the 1-5 scale.
func (n *TherapyAssessmentNote) Validate() error {
	ratings := map[string]*int{
		"alliance":      n.Alliance,
		"communication": n.Communication,
		"ethics":        n.Ethics,
		"effectiveness": n.Effectiveness,
	}
	for name, v := range ratings {
		if v != nil && (*v < 1 || *v > 5) {
			return fmt.Errorf("field %q must be between 1 and 5, got %d", name, *v)
		}
	}
	return nil
}
