package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	numFmtPercent  = 10
	numFmtThousand = 3
	numFmtDecimal  = 4
)

func colName(n int) string {
	// 1-indexed: 1 -> A, 26 -> Z, 27 -> AA
	if n <= 0 {
		return ""
	}
	out := ""
	for n > 0 {
		n--
		out = string(rune('A'+(n%26))) + out
		n /= 26
	}
	return out
}

func cell(col, row int) string {
	return fmt.Sprintf("%s%d", colName(col), row)
}

// sheetWriter writes one table into a workbook sheet, row by row.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheet(f *excelize.File, name string) (*sheetWriter, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: name, row: 1}, nil
}

func (w *sheetWriter) writeRow(values ...any) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		if err := w.f.SetCellValue(w.sheet, cell(i+1, w.row), v); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

// header writes a bold, centered row.
func (w *sheetWriter) header(titles ...string) error {
	values := make([]any, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	row := w.row
	if err := w.writeRow(values...); err != nil {
		return err
	}
	styleID, err := w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, cell(1, row), cell(max(len(titles), 1), row), styleID)
}

// title writes a bold label merged across span columns.
func (w *sheetWriter) title(text string, span int) error {
	row := w.row
	if err := w.writeRow(text); err != nil {
		return err
	}
	if span > 1 {
		if err := w.f.MergeCell(w.sheet, cell(1, row), cell(span, row)); err != nil {
			return err
		}
	}
	styleID, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, cell(1, row), cell(1, row), styleID)
}

func (w *sheetWriter) skip() { w.row++ }

// format applies a number format to rows [from, w.row) of column col.
func (w *sheetWriter) format(col, from, numFmt int) error {
	if from >= w.row {
		return nil
	}
	styleID, err := w.f.NewStyle(&excelize.Style{NumFmt: numFmt})
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, cell(col, from), cell(col, w.row-1), styleID)
}

func (w *sheetWriter) widths(widths ...float64) error {
	for i, width := range widths {
		c := colName(i + 1)
		if err := w.f.SetColWidth(w.sheet, c, c, width); err != nil {
			return err
		}
	}
	return nil
}

// dropDefaultSheet removes excelize's initial "Sheet1" once real sheets exist.
func dropDefaultSheet(f *excelize.File) error {
	if len(f.GetSheetList()) <= 1 {
		return nil
	}
	if idx, _ := f.GetSheetIndex("Sheet1"); idx < 0 {
		return nil
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	return nil
}

func fileToken(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
	if s == "" {
		return "unnamed"
	}
	return s
}

// save writes the workbook to output/<tool>/<yyyymmdd>_<tool>_<name>.xlsx under appRoot.
func save(f *excelize.File, appRoot, tool, name string) (string, error) {
	if err := dropDefaultSheet(f); err != nil {
		return "", err
	}
	dir := filepath.Join(appRoot, "output", tool)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	// yearmonthday
	timestamp := time.Now().Format("20060102")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.xlsx", timestamp, tool, fileToken(name)))
	if err := f.SaveAs(filename); err != nil {
		return "", err
	}
	return filename, nil
}
