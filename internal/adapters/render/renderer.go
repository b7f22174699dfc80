package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	emptySheet   = "Empty"
	numberFormat = "#,##0_);[Red](#,##0);"
	maxSheetName = 31
)

// ExcelRenderer writes built reports as xlsx workbooks.
type ExcelRenderer struct {
	now func() time.Time
}

// RendererOption configures an ExcelRenderer.
type RendererOption func(*ExcelRenderer)

// WithRenderClock overrides the clock used for the "Date Printed" header cells.
func WithRenderClock(now func() time.Time) RendererOption {
	return func(r *ExcelRenderer) {
		r.now = now
	}
}

// NewExcelRenderer creates a renderer.
func NewExcelRenderer(options ...RendererOption) *ExcelRenderer {
	r := &ExcelRenderer{now: time.Now}
	for _, opt := range options {
		opt(r)
	}
	return r
}

var _ portssvc.ReportRenderer = (*ExcelRenderer)(nil)

// RenderEmpty writes a workbook with a single "Empty" sheet.
func (r *ExcelRenderer) RenderEmpty(ctx context.Context, path string, title string) error {
	wb, err := newWorkbook()
	if err != nil {
		return err
	}
	defer wb.close()

	s := wb.sheet(emptySheet)
	s.set(1, 1, title)
	s.style(1, 1, 1, 1, wb.styles.bold)
	s.set(1, 3, "Aucune transaction pour la période demandée")
	return wb.save(ctx, path)
}

type styles struct {
	title          int
	subtitle       int
	header         int
	bold           int
	number         int
	subtotalLabel  int
	subtotalNumber int
	boxed          int
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		s   styles
		err error
	)
	numFmt := numberFormat
	subtotalFill := excelize.Fill{Type: "pattern", Color: []string{"#F0F8FF"}, Pattern: 1}
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}, Alignment: centered}},
		{&s.subtitle, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 9}, Alignment: centered, Border: border}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 9, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#00B6E9"}, Pattern: 1},
			Alignment: centered,
			Border:    border,
		}},
		{&s.bold, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}}},
		{&s.number, &excelize.Style{CustomNumFmt: &numFmt}},
		{&s.subtotalLabel, &excelize.Style{Font: &excelize.Font{Bold: true}, Fill: subtotalFill}},
		{&s.subtotalNumber, &excelize.Style{Font: &excelize.Font{Bold: true}, Fill: subtotalFill, CustomNumFmt: &numFmt}},
		{&s.boxed, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Alignment: centered, Border: border}},
	}
	for _, d := range defs {
		if *d.dst, err = f.NewStyle(d.style); err != nil {
			return styles{}, fmt.Errorf("failed to create cell style: %w", err)
		}
	}
	return s, nil
}

// workbook wraps an excelize file with the shared styles and unique sheet names.
type workbook struct {
	f      *excelize.File
	styles styles
	used   map[string]bool
	sheets []*sheetWriter
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &workbook{f: f, styles: st, used: map[string]bool{}}, nil
}

func (w *workbook) close() {
	_ = w.f.Close()
}

// sheet adds a sheet named after name, made unique and valid for Excel.
func (w *workbook) sheet(name string) *sheetWriter {
	unique := w.uniqueName(name)
	s := &sheetWriter{f: w.f, name: unique}
	if _, err := w.f.NewSheet(unique); err != nil {
		s.err = fmt.Errorf("failed to add sheet %q: %w", unique, err)
	}
	w.sheets = append(w.sheets, s)
	return s
}

func (w *workbook) uniqueName(name string) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = "Feuille"
	}
	clean = truncateRunes(clean, maxSheetName)
	candidate := clean
	for i := 2; w.used[strings.ToLower(candidate)] || strings.EqualFold(candidate, defaultSheet); i++ {
		suffix := fmt.Sprintf("~%d", i)
		candidate = truncateRunes(clean, maxSheetName-len(suffix)) + suffix
	}
	w.used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// save drops the default sheet and writes the file, creating its folder.
func (w *workbook) save(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, s := range w.sheets {
		if s.err != nil {
			return s.err
		}
	}
	if len(w.sheets) > 0 {
		if err := w.f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
		if idx, err := w.f.GetSheetIndex(w.sheets[0].name); err == nil && idx >= 0 {
			w.f.SetActiveSheet(idx)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// sheetWriter writes cells by 1-based (column, row) and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	name string
	err  error
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (s *sheetWriter) set(col, row int, value any) {
	if s.err != nil {
		return
	}
	if err := s.f.SetCellValue(s.name, cellName(col, row), value); err != nil {
		s.err = fmt.Errorf("failed to write %s!%s: %w", s.name, cellName(col, row), err)
	}
}

// amount writes the magnitude of d as a number, leaving the cell blank when zero.
func (s *sheetWriter) amount(col, row int, d decimal.Decimal) {
	if d.IsZero() {
		return
	}
	s.set(col, row, d.Abs().InexactFloat64())
}

func (s *sheetWriter) merge(col1, row1, col2, row2 int, value any) {
	s.set(col1, row1, value)
	if s.err != nil || (col1 == col2 && row1 == row2) {
		return
	}
	if err := s.f.MergeCell(s.name, cellName(col1, row1), cellName(col2, row2)); err != nil {
		s.err = fmt.Errorf("failed to merge %s!%s: %w", s.name, cellName(col1, row1), err)
	}
}

func (s *sheetWriter) style(col1, row1, col2, row2, styleID int) {
	if s.err != nil {
		return
	}
	if err := s.f.SetCellStyle(s.name, cellName(col1, row1), cellName(col2, row2), styleID); err != nil {
		s.err = fmt.Errorf("failed to style %s!%s: %w", s.name, cellName(col1, row1), err)
	}
}

func (s *sheetWriter) width(col1, col2 int, width float64) {
	if s.err != nil {
		return
	}
	from, _ := excelize.ColumnNumberToName(col1)
	to, _ := excelize.ColumnNumberToName(col2)
	if err := s.f.SetColWidth(s.name, from, to, width); err != nil {
		s.err = fmt.Errorf("failed to size columns of %s: %w", s.name, err)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.ReportDateLayout)
}
