package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/ministudy/examimport-go/pkg/examimport/models"
	_ "modernc.org/sqlite" // driver: sqlite
)

// Driver selects the database behind an SQLSink.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// OpenDB opens a database and ensures the exam tables exist.
func OpenDB(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName, schema string
	switch driver {
	case DriverSQLite:
		drvName, schema = "sqlite", schemaSQLite
		if dsn == "" {
			dsn = "file:examimport.db?_pragma=busy_timeout(5000)"
		}
		dsn = withForeignKeys(dsn)
	case DriverPostgres:
		drvName, schema = "pgx", schemaPostgres
		if dsn == "" {
			dsn = "postgres://localhost:5432/examimport?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// withForeignKeys makes the sqlite driver enable foreign keys on every
// connection it opens. A DSN that already sets the pragma is kept as is.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// SQLSink writes exams straight into the exam tables. Each exam is one
// transaction; titles are unique, so importing a title twice fails.
type SQLSink struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLSink returns a sink over an opened database.
func NewSQLSink(db *sql.DB) *SQLSink {
	return &SQLSink{db: db, now: time.Now}
}

// Submit inserts the exam with its questions and options.
func (s *SQLSink) Submit(ctx context.Context, exam models.Exam) (models.Receipt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Receipt{}, err
	}
	defer tx.Rollback()

	total := exam.TotalScore()
	var examID int64
	err = tx.QueryRowContext(ctx, `INSERT INTO exams
		(title, description, status, target_role, time_limit_minutes, pass_score, total_score, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
		exam.Title, exam.Description, string(exam.Status), string(exam.TargetRole),
		exam.TimeLimitMinutes, exam.PassScore, total, s.now().Unix()).Scan(&examID)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("insert exam %q: %w", exam.Title, err)
	}

	for pos, q := range exam.Questions {
		var questionID int64
		err := tx.QueryRowContext(ctx, `INSERT INTO exam_questions
			(exam_id, position, type, stem, score, analysis)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			examID, pos, string(q.Type), q.Stem, q.Score, q.Analysis).Scan(&questionID)
		if err != nil {
			return models.Receipt{}, fmt.Errorf("insert question %d: %w", pos+1, err)
		}
		for _, o := range q.Options {
			if _, err := tx.ExecContext(ctx, `INSERT INTO exam_options
				(question_id, label, content, is_correct, sort_order)
				VALUES ($1,$2,$3,$4,$5)`,
				questionID, o.Label, o.Content, o.IsCorrect, o.SortOrder); err != nil {
				return models.Receipt{}, fmt.Errorf("insert option %s of question %d: %w", o.Label, pos+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Receipt{}, err
	}
	count := len(exam.Questions)
	return models.Receipt{
		ID:            strconv.FormatInt(examID, 10),
		QuestionCount: &count,
		TotalScore:    &total,
	}, nil
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS exams (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  target_role TEXT NOT NULL DEFAULT '',
  time_limit_minutes INTEGER NOT NULL DEFAULT 0,
  pass_score INTEGER NOT NULL,
  total_score INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS exam_questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  exam_id INTEGER NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  type TEXT NOT NULL,
  stem TEXT NOT NULL,
  score INTEGER NOT NULL,
  analysis TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS exam_options (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  question_id INTEGER NOT NULL REFERENCES exam_questions(id) ON DELETE CASCADE,
  label TEXT NOT NULL,
  content TEXT NOT NULL,
  is_correct BOOLEAN NOT NULL,
  sort_order INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS exams (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  target_role TEXT NOT NULL DEFAULT '',
  time_limit_minutes INTEGER NOT NULL DEFAULT 0,
  pass_score INTEGER NOT NULL,
  total_score INTEGER NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS exam_questions (
  id BIGSERIAL PRIMARY KEY,
  exam_id BIGINT NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  type TEXT NOT NULL,
  stem TEXT NOT NULL,
  score INTEGER NOT NULL,
  analysis TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS exam_options (
  id BIGSERIAL PRIMARY KEY,
  question_id BIGINT NOT NULL REFERENCES exam_questions(id) ON DELETE CASCADE,
  label TEXT NOT NULL,
  content TEXT NOT NULL,
  is_correct BOOLEAN NOT NULL,
  sort_order INTEGER NOT NULL
);
`
