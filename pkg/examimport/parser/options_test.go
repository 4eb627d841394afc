package parser

import (
	"reflect"
	"testing"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
)

func TestParseOptionsExplicitLabels(t *testing.T) {
	got := ParseOptions("a:First:true|B:Second:false|c:Third:TRUE")
	expected := []models.Option{
		{Label: "A", Content: "First", IsCorrect: true, SortOrder: 0},
		{Label: "B", Content: "Second", IsCorrect: false, SortOrder: 1},
		{Label: "C", Content: "Third", IsCorrect: true, SortOrder: 2},
	}
	if !reflect.DeepEqual(got.Options, expected) {
		t.Errorf("ParseOptions = %+v, expected %+v", got.Options, expected)
	}
	if len(got.Skipped) != 0 {
		t.Errorf("expected no skipped descriptors, got %+v", got.Skipped)
	}
}

func TestParseOptionsAutoLabelCountsEveryDescriptor(t *testing.T) {
	// position 1 is malformed, position 2 has empty content
	got := ParseOptions("x:true|bad|  :false|y:false")
	expected := []models.Option{
		{Label: "A", Content: "x", IsCorrect: true, SortOrder: 0},
		{Label: "D", Content: "y", IsCorrect: false, SortOrder: 3},
	}
	if !reflect.DeepEqual(got.Options, expected) {
		t.Errorf("ParseOptions = %+v, expected %+v", got.Options, expected)
	}

	skipped := []SkippedOption{
		{Position: 1, Descriptor: "bad", Reason: SkipSegmentCount},
		{Position: 2, Descriptor: ":false", Reason: SkipEmptyContent},
	}
	if !reflect.DeepEqual(got.Skipped, skipped) {
		t.Errorf("Skipped = %+v, expected %+v", got.Skipped, skipped)
	}
}

func TestParseOptionsMixedSegmentCounts(t *testing.T) {
	got := ParseOptions("A:x:true|y:false")
	if len(got.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(got.Options))
	}
	if got.Options[0].Label != "A" || got.Options[0].Content != "x" {
		t.Errorf("first option = %+v", got.Options[0])
	}
	if got.Options[1].Label != "B" || got.Options[1].Content != "y" {
		t.Errorf("second option = %+v, expected label B content y", got.Options[1])
	}
}

func TestParseOptionsBlankDescriptorsKeepPositions(t *testing.T) {
	got := ParseOptions("|x:true||y:false|")
	if len(got.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(got.Options))
	}
	if got.Options[0].Label != "B" || got.Options[0].SortOrder != 1 {
		t.Errorf("first option = %+v, expected label B sort 1", got.Options[0])
	}
	if got.Options[1].Label != "D" || got.Options[1].SortOrder != 3 {
		t.Errorf("second option = %+v, expected label D sort 3", got.Options[1])
	}
	if len(got.Skipped) != 0 {
		t.Errorf("blank descriptors must not be reported, got %+v", got.Skipped)
	}
}

func TestParseOptionsEmptyContentDropped(t *testing.T) {
	got := ParseOptions("A: :true|B:ok:false")
	if len(got.Options) != 1 || got.Options[0].Label != "B" {
		t.Errorf("ParseOptions = %+v, expected only option B", got.Options)
	}
}

func TestParseOptionsEmptyCell(t *testing.T) {
	for _, cell := range []string{"", "   ", "|||"} {
		got := ParseOptions(cell)
		if len(got.Options) != 0 || len(got.Skipped) != 0 {
			t.Errorf("ParseOptions(%q) = %+v, expected empty", cell, got)
		}
	}
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{" 1 ", true},
		{"Yes", true},
		{"correct", true},
		{"正确", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"", false},
		{"错误", false},
	}

	for _, tt := range tests {
		if result := isCorrect(tt.input); result != tt.expected {
			t.Errorf("isCorrect(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestAutoLabel(t *testing.T) {
	tests := []struct {
		pos      int
		expected string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
	}

	for _, tt := range tests {
		if result := autoLabel(tt.pos); result != tt.expected {
			t.Errorf("autoLabel(%d) = %q, expected %q", tt.pos, result, tt.expected)
		}
	}
}

func TestParseOptionsDeterministic(t *testing.T) {
	cell := "A:x:true|y:false|z:1|broken:a:b:c"
	first := ParseOptions(cell)
	for i := 0; i < 5; i++ {
		if again := ParseOptions(cell); !reflect.DeepEqual(first, again) {
			t.Fatalf("ParseOptions not deterministic: %+v vs %+v", first, again)
		}
	}
}
