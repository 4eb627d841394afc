// Package schema validates exam records against the sink's record shape.
package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/xeipuuv/gojsonschema"
)

const definitions = `{
  "option": {
    "type": "object",
    "required": ["label", "content", "is_correct"],
    "properties": {
      "label": {"type": "string", "minLength": 1},
      "content": {"type": "string", "minLength": 1},
      "is_correct": {"type": "boolean"},
      "sort_order": {"type": "integer", "minimum": 0}
    }
  },
  "question": {
    "type": "object",
    "required": ["type", "stem", "score", "options"],
    "properties": {
      "type": {"enum": ["single", "multiple"]},
      "stem": {"type": "string", "minLength": 1},
      "score": {"type": "integer", "minimum": 1},
      "analysis": {"type": "string"},
      "options": {
        "type": "array",
        "minItems": 2,
        "items": {"$ref": "#/definitions/option"},
        "contains": {"type": "object", "required": ["is_correct"], "properties": {"is_correct": {"const": true}}}
      }
    }
  },
  "exam": {
    "type": "object",
    "required": ["title", "pass_score", "questions"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "status": {"enum": ["draft", "published", "archived"]},
      "target_role": {"enum": ["employee", "manager", "all"]},
      "time_limit_minutes": {"type": "integer", "minimum": 0},
      "pass_score": {"type": "integer", "minimum": 0},
      "questions": {"type": "array", "items": {"$ref": "#/definitions/question"}}
    }
  }
}`

func document(root string) string {
	return fmt.Sprintf(`{"$schema": "http://json-schema.org/draft-07/schema#", "definitions": %s, %s}`, definitions, root)
}

var (
	once       sync.Once
	examSchema *gojsonschema.Schema
	listSchema *gojsonschema.Schema
	compileErr error
)

func compile() {
	examSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(
		document(`"allOf": [{"$ref": "#/definitions/exam"}]`)))
	if compileErr != nil {
		return
	}
	listSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(
		document(`"type": "array", "items": {"$ref": "#/definitions/exam"}`)))
}

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "schema violation: " + strings.Join(e.Violations, "; ")
}

// ValidateExam checks a single exam record.
func ValidateExam(e models.Exam) error {
	return validate(func() *gojsonschema.Schema { return examSchema }, gojsonschema.NewGoLoader(e))
}

// ValidateDocument checks raw JSON holding an array of exam records.
func ValidateDocument(doc []byte) error {
	return validate(func() *gojsonschema.Schema { return listSchema }, gojsonschema.NewBytesLoader(doc))
}

func validate(pick func() *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	once.Do(compile)
	if compileErr != nil {
		return fmt.Errorf("compile exam schema: %w", compileErr)
	}

	result, err := pick().Validate(doc)
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, re := range result.Errors() {
		verr.Violations = append(verr.Violations, re.String())
	}
	return verr
}
