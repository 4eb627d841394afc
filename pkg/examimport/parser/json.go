package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/ministudy/examimport-go/pkg/examimport/schema"
)

// ReadExamsJSON reads a JSON array of exam records. The document is
// checked against the exam record schema before it is decoded.
func ReadExamsJSON(r io.Reader) ([]models.Exam, error) {
	doc, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateDocument(doc); err != nil {
		return nil, err
	}

	var exams []models.Exam
	if err := json.Unmarshal(doc, &exams); err != nil {
		return nil, fmt.Errorf("decode exams: %w", err)
	}
	for i := range exams {
		if exams[i].Questions == nil {
			exams[i].Questions = []models.Question{}
		}
	}
	return exams, nil
}
