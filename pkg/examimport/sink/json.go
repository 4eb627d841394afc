package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
)

// JSONSink collects exams and writes them as one JSON array on Close.
// It is the dry-run destination: nothing leaves the machine.
type JSONSink struct {
	w      io.Writer
	pretty bool
	exams  []models.Exam
}

// NewJSONSink returns a sink that writes to w.
func NewJSONSink(w io.Writer, pretty bool) *JSONSink {
	return &JSONSink{w: w, pretty: pretty, exams: []models.Exam{}}
}

// Submit records the exam.
func (s *JSONSink) Submit(_ context.Context, exam models.Exam) (models.Receipt, error) {
	s.exams = append(s.exams, exam)
	count := len(exam.Questions)
	total := exam.TotalScore()
	return models.Receipt{
		ID:            fmt.Sprintf("dry-run-%d", len(s.exams)),
		QuestionCount: &count,
		TotalScore:    &total,
	}, nil
}

// Close writes every recorded exam.
func (s *JSONSink) Close() error {
	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(s.exams, "", "  ")
	} else {
		data, err = json.Marshal(s.exams)
	}
	if err != nil {
		return err
	}
	_, err = s.w.Write(append(data, '\n'))
	return err
}
