package models

import "testing"

func TestParseNoteFormat(t *testing.T) {
	tests := []struct {
		in   string
		want NoteFormat
	}{
		{"Text", FormatText},
		{"SOAP", FormatSOAP},
		{"PKI HL7 CDA", FormatPKIHL7CDA},
		{"Therapy Assessment", FormatTherapyAssessment},
		{"", FormatText},
		{"soap", FormatText},
		{"Markdown", FormatText},
		{"SOAP ", FormatText},
	}

	for _, tt := range tests {
		if got := ParseNoteFormat(tt.in); got != tt.want {
			t.Errorf("ParseNoteFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTherapyAssessmentNote_Validate(t *testing.T) {
	ok := 3
	note := &TherapyAssessmentNote{Alliance: &ok, Ethics: &ok}
	if err := note.Validate(); err != nil {
		t.Errorf("expected valid note, got %v", err)
	}

	if err := (&TherapyAssessmentNote{}).Validate(); err != nil {
		t.Errorf("expected nil ratings to be valid, got %v", err)
	}

	low, high := 0, 6
	if err := (&TherapyAssessmentNote{Communication: &low}).Validate(); err == nil {
		t.Error("expected error for rating below 1")
	}
	if err := (&TherapyAssessmentNote{Effectiveness: &high}).Validate(); err == nil {
		t.Error("expected error for rating above 5")
	}
}
