package handlers

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"finsentinel-server/src/models"
)

func TestBuildWorkbook(t *testing.T) {
	txns := []models.Transaction{{
		Description: "Lunch",
		Amount:      12.5,
		Category:    "Food",
		Type:        models.TransactionTypeExpense,
		Date:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}}

	f, err := buildWorkbook(txns)
	if err != nil {
		t.Fatalf("buildWorkbook() error = %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != exportSheet {
		t.Errorf("sheets = %v, want [%s]", sheets, exportSheet)
	}

	want := map[string]string{
		"A1": "Date", "E1": "Amount",
		"A2": "2024-03-02", "B2": "expense", "C2": "Food", "D2": "Lunch", "E2": "12.5",
	}
	for cell, v := range want {
		got, err := f.GetCellValue(exportSheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", cell, err)
		}
		if got != v {
			t.Errorf("%s = %q, want %q", cell, got, v)
		}
	}
}

func TestWriteRowReportsErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(exportSheet); err != nil {
		t.Fatal(err)
	}

	if err := writeRow(f, 0, []any{"x"}); err == nil {
		t.Error("expected error for row 0")
	}
	if err := writeRow(f, 1, []any{"ok"}); err != nil {
		t.Errorf("writeRow() error = %v", err)
	}
}
