package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/datetable/internal/table"
)

type person struct {
	Name string
	Age  int
}

func testModel(t *testing.T) *table.Model[person] {
	t.Helper()
	tbl, err := table.New([]table.Column[person]{
		{ID: "name", Header: "Nombre", Accessor: func(p person) any { return p.Name }},
		{ID: "age", Header: "edad", Accessor: func(p person) any { return p.Age }},
	}, []person{
		{"Tanner", 33}, {"José", 19}, {"Ana, María", 41}, {"Kevin", 27},
		{"Lucía", 52}, {"Marco", 36}, {"Sofía", 24},
	}, table.Options{})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	st, err := tbl.Reduce(tbl.InitialState(), table.Action{Type: table.ActionToggleSorting, Column: "age"})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	return tbl.Model(st)
}

func TestFromModel_AllSortedRows(t *testing.T) {
	m := testModel(t)
	sheet := FromModel("Datetable", m)

	if got := strings.Join(sheet.Headers, ","); got != "Nombre,edad" {
		t.Errorf("Headers = %q", got)
	}
	// The page holds 6 rows; the export holds all 7.
	if len(sheet.Rows) != 7 {
		t.Fatalf("got %d rows, want 7", len(sheet.Rows))
	}
	if sheet.Rows[0][0] != "José" || sheet.Rows[6][0] != "Lucía" {
		t.Errorf("rows not in age order: first %v, last %v", sheet.Rows[0], sheet.Rows[6])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, FromModel("Datetable", testModel(t))); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Nombre,edad" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "José,19" {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.Contains(buf.String(), `"Ana, María",41`) {
		t.Error("value containing a comma was not quoted")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriterError(t *testing.T) {
	err := WriteCSV(failingWriter{}, Sheet{Headers: []string{"a"}, Rows: [][]string{{"1"}}})
	if !errors.Is(err, ErrExportFailed) {
		t.Errorf("WriteCSV() error = %v, want ErrExportFailed", err)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	opts := PDFOptions{Generated: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), Footer: "Página %d"}
	if err := WritePDF(&buf, FromModel("Datetable", testModel(t)), opts); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestWritePDF_ManyPages(t *testing.T) {
	sheet := Sheet{Title: "Datetable", Headers: []string{"Nombre", "edad"}}
	for i := 0; i < 200; i++ {
		sheet.Rows = append(sheet.Rows, []string{"Tanner", "33"})
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, sheet, PDFOptions{}); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty PDF output")
	}
}
