package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"finsentinel-server/src/logger"
	"finsentinel-server/src/models"
	"finsentinel-server/src/util"
)

const (
	exportSheet       = "Transactions"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportDateLayout  = "2006-01-02"
	exportFilePattern = "transactions_%s.xlsx"
)

var (
	exportHeaders   = []string{"Date", "Type", "Category", "Description", "Amount"}
	exportColWidths = []float64{12, 10, 15, 30, 12}
)

// ExportExpenses streams the user's transactions as an XLSX workbook.
func ExportExpenses(store ExpenseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		txns, err := store.GetExpenses(r.Context(), userID, 0)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch expenses for export")
			util.WriteError(w, http.StatusInternalServerError, "Error fetching expenses")
			return
		}

		f, err := buildWorkbook(txns)
		if err != nil {
			log.Error().Err(err).Msg("failed to build workbook")
			util.WriteError(w, http.StatusInternalServerError, "Export failed")
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", fmt.Sprintf(exportFilePattern, time.Now().Format("20060102"))))

		if err := f.Write(w); err != nil {
			// headers are already sent
			log.Error().Err(err).Msg("failed to write workbook")
		}
	}
}

func buildWorkbook(txns []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := writeRow(f, 1, header); err != nil {
		f.Close()
		return nil, err
	}

	for idx, t := range txns {
		row := []any{t.Date.Format(exportDateLayout), t.Type, t.Category, t.Description, t.Amount}
		if err := writeRow(f, idx+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, width := range exportColWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err == nil {
			err = f.SetColWidth(exportSheet, col, col, width)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("set width of column %d: %w", i+1, err)
		}
	}

	return f, nil
}

// writeRow fills one sheet row starting at column A.
func writeRow(f *excelize.File, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", row, err)
		}
		if err := f.SetCellValue(exportSheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}
