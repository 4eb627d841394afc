package sink

import (
	"context"
	"fmt"

	"github.com/ministudy/examimport-go/pkg/examimport/dispatch"
	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/ministudy/examimport-go/pkg/examimport/schema"
)

// Validating checks each exam against the record schema before handing it
// to the wrapped sink. An invalid exam fails without reaching next.
type Validating struct {
	next dispatch.Sink
}

// Validate wraps next.
func Validate(next dispatch.Sink) *Validating {
	return &Validating{next: next}
}

// Submit validates and forwards the exam.
func (v *Validating) Submit(ctx context.Context, exam models.Exam) (models.Receipt, error) {
	if err := schema.ValidateExam(exam); err != nil {
		return models.Receipt{}, fmt.Errorf("invalid exam %q: %w", exam.Title, err)
	}
	return v.next.Submit(ctx, exam)
}
