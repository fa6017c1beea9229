package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"raporty/worklog"
)

// Headers is the fixed column order of every month sheet.
var Headers = []string{"ID", "Date", "Name", "Place", "Start", "End", "Tasks", "Notes"}

// fieldColumns maps the editable entry fields to 1-based sheet columns.
var fieldColumns = map[string]int{
	"place": 4,
	"start": 5,
	"end":   6,
	"tasks": 7,
	"notes": 8,
}

var (
	ErrFileUnreadable = errors.New("store file unreadable")
	ErrSheetNotFound  = errors.New("month sheet not found")
	ErrRowNotFound    = errors.New("row not found")
	ErrPersist        = errors.New("persist store failed")
)

// FieldColumn resolves an editable field name to its sheet column.
func FieldColumn(field string) (int, bool) {
	column, ok := fieldColumns[field]
	return column, ok
}

// Workbook adapts the backing spreadsheet file to the month-sheet model.
// It holds the whole store in memory between OpenOrCreate and Save; callers
// serialize access through the store lock.
type Workbook struct {
	path string
	file *excelize.File
}

// OpenOrCreate opens the backing file if present, otherwise starts an empty
// in-memory store that only reaches disk on Save.
func OpenOrCreate(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Workbook{path: path, file: excelize.NewFile()}, nil
		}
		return nil, fmt.Errorf("%w: stat %s: %v", ErrFileUnreadable, path, err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrFileUnreadable, path, err)
	}
	return &Workbook{path: path, file: file}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// HasSheet reports whether the month sheet exists.
func (w *Workbook) HasSheet(monthKey string) bool {
	index, err := w.file.GetSheetIndex(monthKey)
	return err == nil && index >= 0
}

// EnsureMonthSheet returns after the sheet for monthKey exists with its
// header row and sits first in the sheet list. The empty default sheet
// left over from store creation is pruned once a real sheet exists.
func (w *Workbook) EnsureMonthSheet(monthKey string) error {
	if w.HasSheet(monthKey) {
		return w.moveSheetFirst(monthKey)
	}

	if _, err := w.file.NewSheet(monthKey); err != nil {
		return fmt.Errorf("create sheet %s: %w", monthKey, err)
	}
	for column, header := range Headers {
		cell, _ := excelize.CoordinatesToCellName(column+1, 1)
		if err := w.file.SetCellValue(monthKey, cell, header); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
	}
	if err := w.pruneDefaultSheet(); err != nil {
		return err
	}
	return w.moveSheetFirst(monthKey)
}

func (w *Workbook) moveSheetFirst(monthKey string) error {
	sheets := w.file.GetSheetList()
	if len(sheets) == 0 || sheets[0] == monthKey {
		return nil
	}
	if err := w.file.MoveSheet(monthKey, sheets[0]); err != nil {
		return fmt.Errorf("move sheet %s first: %w", monthKey, err)
	}
	return nil
}

func (w *Workbook) pruneDefaultSheet() error {
	const defaultSheet = "Sheet1"
	if !w.HasSheet(defaultSheet) || len(w.file.GetSheetList()) < 2 {
		return nil
	}
	rows, err := w.file.GetRows(defaultSheet)
	if err != nil || len(rows) > 0 {
		return nil
	}
	if err := w.file.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("prune default sheet: %w", err)
	}
	return nil
}

// Rows returns all rows of the month sheet, header included.
func (w *Workbook) Rows(monthKey string) ([][]string, error) {
	if !w.HasSheet(monthKey) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, monthKey)
	}
	rows, err := w.file.GetRows(monthKey)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", monthKey, err)
	}
	return rows, nil
}

// SheetList returns the sheet names in workbook order.
func (w *Workbook) SheetList() []string {
	return w.file.GetSheetList()
}

// FindRowByID returns the 1-based row number of the entry, located by id
// rather than position since positions shift across reads.
func (w *Workbook) FindRowByID(monthKey, id string) (int, error) {
	rows, err := w.Rows(monthKey)
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	for i, row := range rows[1:] {
		if len(row) > 0 && row[0] == id {
			return i + 2, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrRowNotFound, id)
}

// AppendEntry writes the entry as a new last row of the month sheet.
func (w *Workbook) AppendEntry(monthKey string, entry worklog.Entry) error {
	rows, err := w.Rows(monthKey)
	if err != nil {
		return err
	}

	row := len(rows) + 1
	values := []string{
		entry.ID,
		entry.Date,
		entry.OwnerName,
		entry.Place,
		entry.Start,
		entry.End,
		entry.Tasks,
		entry.Notes,
	}
	for column, value := range values {
		cell, _ := excelize.CoordinatesToCellName(column+1, row)
		if err := w.file.SetCellValue(monthKey, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

// SetField overwrites exactly one cell of the given row.
func (w *Workbook) SetField(monthKey string, row int, field, value string) error {
	column, ok := FieldColumn(field)
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	cell, _ := excelize.CoordinatesToCellName(column, row)
	if err := w.file.SetCellValue(monthKey, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}

// Save persists the store with a write-to-temp-then-rename discipline so a
// crash mid-write cannot corrupt the previously durable file.
func (w *Workbook) Save() error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrPersist, err)
	}
	tmpPath := tmp.Name()

	if err := w.file.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write %s: %v", ErrPersist, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close %s: %v", ErrPersist, tmpPath, err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replace %s: %v", ErrPersist, w.path, err)
	}
	return nil
}

// EntryFromRow rebuilds an entry from a sheet row, tolerating rows that
// excelize returns short of trailing empty cells.
func EntryFromRow(row []string) worklog.Entry {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return worklog.Entry{
		ID:        cell(0),
		Date:      cell(1),
		OwnerName: cell(2),
		Place:     cell(3),
		Start:     cell(4),
		End:       cell(5),
		Tasks:     cell(6),
		Notes:     cell(7),
	}
}
