package parser

import (
	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/sirupsen/logrus"
)

// Grouper folds a stream of rows into exams. Rows carrying an exam_title
// open or re-activate a group; every valid question is attached to the
// active group. Groups keep the metadata of the first row that named them.
type Grouper struct {
	log    logrus.FieldLogger
	index  FieldIndex
	active string
	groups map[string]*models.Exam
	order  []string
}

// NewGrouper returns a grouper for rows laid out by headers.
func NewGrouper(headers []string, log logrus.FieldLogger) *Grouper {
	return &Grouper{
		log:    log,
		index:  NewFieldIndex(headers),
		groups: make(map[string]*models.Exam),
	}
}

// Active returns the title questions are currently attached to.
func (g *Grouper) Active() string {
	return g.active
}

// Add processes one row.
func (g *Grouper) Add(row models.Row) {
	f := g.index.Fields(row)
	log := g.log.WithField("line", row.Line)

	if header, coerced, ok := ParseExamHeader(f); ok {
		for _, c := range coerced {
			entry := log.WithFields(logrus.Fields{"title": header.Title, "field": c.Field, "value": c.Value})
			if c.Fallback != "" {
				entry.WithField("default", c.Fallback).Warn("invalid exam field, using default")
			} else {
				entry.Warn("invalid exam field, omitted")
			}
		}
		g.active = header.Title
		if existing, seen := g.groups[header.Title]; !seen {
			e := header
			g.groups[header.Title] = &e
			g.order = append(g.order, header.Title)
		} else if !sameHeader(*existing, header) {
			log.WithField("title", header.Title).Debug("exam metadata differs from first occurrence, keeping first")
		}
	}

	res, rej := BuildQuestion(f)
	if rej != nil {
		g.reportSkipped(log, rej.Skipped)
		if !rej.Silent() {
			log.WithFields(logrus.Fields{"reason": rej.Reason, "detail": rej.Detail}).Warn("question dropped")
		}
		return
	}
	g.reportSkipped(log, res.Skipped)
	if res.ScoreDefaulted != "" {
		log.WithFields(logrus.Fields{"field": FieldQuestionScore, "value": res.ScoreDefaulted, "default": models.DefaultQuestionScore}).
			Warn("invalid question score, using default")
	}

	if g.active == "" {
		log.WithField("stem", preview(res.Question.Stem)).Warn("question has no exam title, dropped")
		return
	}
	e := g.groups[g.active]
	e.Questions = append(e.Questions, res.Question)
}

func (g *Grouper) reportSkipped(log logrus.FieldLogger, skipped []SkippedOption) {
	for _, s := range skipped {
		entry := log.WithFields(logrus.Fields{"position": s.Position, "descriptor": s.Descriptor})
		if s.Reason == SkipEmptyContent {
			entry.Debug("option with empty content skipped")
			continue
		}
		entry.Warn("malformed option skipped")
	}
}

// Exams returns deep copies of the accumulated groups in first-seen order.
func (g *Grouper) Exams() []models.Exam {
	out := make([]models.Exam, 0, len(g.order))
	for _, title := range g.order {
		out = append(out, g.groups[title].Clone())
	}
	return out
}

// GroupTable runs every row of t through a fresh Grouper.
func GroupTable(t *models.Table, log logrus.FieldLogger) []models.Exam {
	g := NewGrouper(t.Headers, log)
	for _, row := range t.Rows {
		g.Add(row)
	}
	return g.Exams()
}
