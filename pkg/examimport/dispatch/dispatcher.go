// Package dispatch submits reconstructed exams to a sink and tallies the
// outcome of the run.
package dispatch

import (
	"context"

	"github.com/google/uuid"
	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/sirupsen/logrus"
)

// Sink persists one exam and reports what it assigned.
type Sink interface {
	Submit(ctx context.Context, exam models.Exam) (models.Receipt, error)
}

// Dispatcher submits exams one at a time.
type Dispatcher struct {
	sink Sink
	log  logrus.FieldLogger
}

// New returns a Dispatcher writing to sink.
func New(sink Sink, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{sink: sink, log: log}
}

// Run submits every exam that has questions, in order, exactly once.
// Exams without questions are skipped. A failed submission is recorded and
// does not stop the remaining exams.
func (d *Dispatcher) Run(ctx context.Context, exams []models.Exam) models.Summary {
	sum := models.Summary{
		RunID:   RunID(ctx),
		Groups:  len(exams),
		Results: make([]models.Result, 0, len(exams)),
	}
	ctx = WithRunID(ctx, sum.RunID)
	log := d.log.WithField("run", sum.RunID)

	for i, exam := range exams {
		n := len(exam.Questions)
		sum.TotalQuestions += n
		res := models.Result{Title: exam.Title, Questions: n}
		elog := log.WithFields(logrus.Fields{"title": exam.Title, "questions": n})

		if n == 0 {
			res.Outcome = models.OutcomeSkipped
			sum.Skipped++
			sum.Results = append(sum.Results, res)
			elog.Warn("exam has no questions, skipped")
			continue
		}

		elog.WithField("group", i+1).Infof("submitting %d/%d", i+1, len(exams))
		receipt, err := d.sink.Submit(ctx, exam.Clone())
		if err != nil {
			res.Outcome = models.OutcomeFailed
			res.Error = err.Error()
			sum.Failed++
			sum.Results = append(sum.Results, res)
			elog.WithError(err).Error("submission failed")
			continue
		}

		res.Outcome = models.OutcomeSubmitted
		res.Receipt = &receipt
		sum.Submitted++
		sum.Results = append(sum.Results, res)
		confirmed := elog.WithField("id", receipt.ID)
		if receipt.QuestionCount != nil {
			confirmed = confirmed.WithField("sink_questions", *receipt.QuestionCount)
		}
		if receipt.TotalScore != nil {
			confirmed = confirmed.WithField("sink_total_score", *receipt.TotalScore)
		}
		confirmed.Info("exam created")
	}

	log.WithFields(logrus.Fields{
		"groups":          sum.Groups,
		"submitted":       sum.Submitted,
		"skipped":         sum.Skipped,
		"failed":          sum.Failed,
		"total_questions": sum.TotalQuestions,
	}).Info("import finished")
	return sum
}

type runIDKey struct{}

// WithRunID tags ctx with a run identifier used for logs and sink requests.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run identifier carried by ctx, or a fresh one.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
