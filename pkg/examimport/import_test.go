package examimport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/ministudy/examimport-go/pkg/examimport/parser"
	"github.com/ministudy/examimport-go/pkg/examimport/sink"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "exam_title,exam_description,exam_status,target_role,time_limit_minutes,pass_score,question_type,question_stem,question_score,question_analysis,options\n" +
	"产品知识考试,测试对产品知识的掌握程度,published,employee,30,60,single,产品的核心功能是什么？,10,核心功能包括用户管理和数据分析,A:用户管理和数据分析:true|B:仅用户管理:false|C:仅数据分析:false\n" +
	",,,,,,multiple,哪些属于数据分析？,5,,报表:true|看板:true|登录:false\n" +
	"空考试,,draft,all,,,,,,,\n" +
	",,,,,,single,缺少正确答案,1,,a:false|b:false\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestImportCSV(t *testing.T) {
	path := writeFile(t, "exams.csv", sampleCSV)
	log, _ := test.NewNullLogger()
	var out bytes.Buffer
	js := sink.NewJSONSink(&out, false)

	sum, err := Import(context.Background(), path, DefaultOptions(), js, log)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if err := js.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if sum.Groups != 2 || sum.Submitted != 1 || sum.Skipped != 1 || sum.Failed != 0 {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, expected 2", sum.TotalQuestions)
	}

	var exams []models.Exam
	if err := json.Unmarshal(out.Bytes(), &exams); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(exams) != 1 {
		t.Fatalf("expected 1 exported exam, got %d", len(exams))
	}
	e := exams[0]
	if e.Title != "产品知识考试" || e.Status != models.StatusPublished || e.TargetRole != models.RoleEmployee || e.TimeLimitMinutes != 30 {
		t.Errorf("unexpected exam header %+v", e)
	}
	if len(e.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(e.Questions))
	}
	second := e.Questions[1]
	if second.Type != models.QuestionMultiple || second.Options[2].Label != "C" || second.Options[2].IsCorrect {
		t.Errorf("unexpected second question %+v", second)
	}
}

func TestImportXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	cells := map[string]string{
		"A1": "Exam Title", "B1": "Question Type", "C1": "Question Stem", "D1": "Options",
		"A2": "E1", "B2": "single", "C2": "Q1", "D2": "x:true|y:false",
		"B3": "single", "C3": "Q2", "D3": "x:false|y:true",
	}
	for cell, v := range cells {
		f.SetCellValue("Sheet1", cell, v)
	}
	path := filepath.Join(t.TempDir(), "exams.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	log, _ := test.NewNullLogger()
	exams, err := Load(path, DefaultOptions(), log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(exams) != 1 || len(exams[0].Questions) != 2 {
		t.Fatalf("unexpected exams %+v", exams)
	}
	if exams[0].PassScore != models.DefaultPassScore {
		t.Errorf("PassScore = %d, expected default", exams[0].PassScore)
	}
}

func TestImportJSON(t *testing.T) {
	path := writeFile(t, "exams.json", `[{"title":"E1","pass_score":60,"questions":[]},{"title":"E2","pass_score":60,"questions":[
		{"type":"single","stem":"Q","score":1,"options":[{"label":"A","content":"x","is_correct":true},{"label":"B","content":"y","is_correct":false}]}]}]`)
	log, _ := test.NewNullLogger()

	sum, err := Import(context.Background(), path, DefaultOptions(), sink.NewJSONSink(&bytes.Buffer{}, false), log)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if sum.Groups != 2 || sum.Skipped != 1 || sum.Submitted != 1 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestImportFatalErrors(t *testing.T) {
	log, _ := test.NewNullLogger()
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.csv"), DefaultOptions(), log)
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("missing file: error = %v, expected ErrFileNotFound", err)
	}

	_, err = Load(writeFile(t, "exams.pdf", "x"), DefaultOptions(), log)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("pdf: error = %v, expected ErrInvalidFormat", err)
	}

	_, err = Load(writeFile(t, "empty.csv", ""), DefaultOptions(), log)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || !errors.Is(err, parser.ErrNoHeader) {
		t.Errorf("empty csv: error = %v, expected LoadError wrapping ErrNoHeader", err)
	}

	_, err = Load(writeFile(t, "unknown.csv", "name,notes\nE1,x\n"), DefaultOptions(), log)
	if !errors.As(err, &loadErr) || !errors.Is(err, parser.ErrNoHeader) {
		t.Errorf("unknown columns: error = %v, expected LoadError wrapping ErrNoHeader", err)
	}

	_, err = Load(writeFile(t, "bad.json", `{"title": 1}`), DefaultOptions(), log)
	if !errors.As(err, &loadErr) {
		t.Errorf("bad json: error = %v, expected LoadError", err)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format   Format
		path     string
		expected Format
		wantErr  bool
	}{
		{FormatAuto, "a.CSV", FormatCSV, false},
		{"", "a.tsv", FormatCSV, false},
		{FormatAuto, "a.xlsx", FormatXLSX, false},
		{FormatAuto, "a.json", FormatJSON, false},
		{FormatCSV, "a.data", FormatCSV, false},
		{FormatAuto, "a.doc", "", true},
		{Format("yaml"), "a.yaml", "", true},
	}

	for _, tt := range tests {
		result, err := Options{Format: tt.format}.ResolveFormat(tt.path)
		if (err != nil) != tt.wantErr || result != tt.expected {
			t.Errorf("ResolveFormat(%q, %q) = %q, %v; expected %q, err=%v", tt.format, tt.path, result, err, tt.expected, tt.wantErr)
		}
	}
}

func TestDelimiter(t *testing.T) {
	if d := (Options{}).delimiter("a.tsv"); d != '\t' {
		t.Errorf("tsv delimiter = %q", d)
	}
	if d := (Options{}).delimiter("a.csv"); d != ',' {
		t.Errorf("csv delimiter = %q", d)
	}
	if d := (Options{Delimiter: ';'}).delimiter("a.tsv"); d != ';' {
		t.Errorf("explicit delimiter = %q", d)
	}
}
