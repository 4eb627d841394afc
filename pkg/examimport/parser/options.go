package parser

import (
	"strings"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/xuri/excelize/v2"
)

const (
	descriptorSep = "|"
	segmentSep    = ":"
)

// SkipReason explains why an option descriptor was not accepted.
type SkipReason string

const (
	SkipSegmentCount SkipReason = "segment count"
	SkipEmptyContent SkipReason = "empty content"
)

// SkippedOption is a descriptor the parser dropped.
type SkippedOption struct {
	// Position is the descriptor's zero-based position in the cell.
	Position   int
	Descriptor string
	Reason     SkipReason
}

// OptionList is the outcome of parsing one options cell.
type OptionList struct {
	Options []models.Option
	Skipped []SkippedOption
}

// truthy holds the accepted spellings of a correct marker, lower-cased.
var truthy = map[string]bool{
	"true":    true,
	"1":       true,
	"yes":     true,
	"correct": true,
	"正确":      true,
}

// ParseOptions decodes an options cell such as
// "A:first:true|B:second:false" or "first:true|second:false".
//
// Descriptors are separated by "|". Three segments are label:content:correct,
// two are content:correct with the label taken from the descriptor's
// position. Blank descriptors are ignored; malformed ones are reported in
// Skipped. Positions are never renumbered, so SortOrder and auto labels
// count every descriptor in the cell.
func ParseOptions(cell string) OptionList {
	var out OptionList
	if strings.TrimSpace(cell) == "" {
		return out
	}

	for pos, part := range strings.Split(cell, descriptorSep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var label, content, correct string
		segments := strings.Split(part, segmentSep)
		switch len(segments) {
		case 3:
			label = strings.ToUpper(strings.TrimSpace(segments[0]))
			content, correct = segments[1], segments[2]
		case 2:
			content, correct = segments[0], segments[1]
		default:
			out.Skipped = append(out.Skipped, SkippedOption{Position: pos, Descriptor: part, Reason: SkipSegmentCount})
			continue
		}

		content = strings.TrimSpace(content)
		if content == "" {
			out.Skipped = append(out.Skipped, SkippedOption{Position: pos, Descriptor: part, Reason: SkipEmptyContent})
			continue
		}
		if label == "" {
			label = autoLabel(pos)
		}

		out.Options = append(out.Options, models.Option{
			Label:     label,
			Content:   content,
			IsCorrect: isCorrect(correct),
			SortOrder: pos,
		})
	}
	return out
}

func isCorrect(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}

// autoLabel returns A for 0, B for 1, ... and continues AA, AB past Z.
func autoLabel(pos int) string {
	name, err := excelize.ColumnNumberToName(pos + 1)
	if err != nil {
		return ""
	}
	return name
}
