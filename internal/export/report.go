// Package export renders the expense collection and its summary as shareable
// reports (XLSX for spreadsheets, CSV for everything else).
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/carolinadevia11/coparently/internal/expense"
	"github.com/carolinadevia11/coparently/internal/money"
)

// Report bundles everything a shareable expense report needs. PayerLabel and
// ViewerShare are optional; absent, the raw email and an even split are used.
type Report struct {
	Viewer      string
	Expenses    []expense.Expense
	Summary     expense.Summary
	PayerLabel  func(email string) string
	ViewerShare func(e expense.Expense) float64
}

func (r Report) payerLabel(email string) string {
	if r.PayerLabel != nil {
		return r.PayerLabel(email)
	}
	return email
}

func (r Report) viewerShare(e expense.Expense) float64 {
	if r.ViewerShare != nil {
		return r.ViewerShare(e)
	}
	return expense.Share(e.Amount, 50)
}

var detailHeaders = []string{
	"Date", "Description", "Category", "Paid By", "Amount", "Your Share", "Status", "Dispute Reason",
}

func (r Report) detailRow(e expense.Expense) []any {
	return []any{
		e.Date.Format("2006-01-02"),
		e.Description,
		string(e.Category),
		r.payerLabel(e.PaidBy),
		money.FormatUSD(e.Amount),
		money.FormatUSD(r.viewerShare(e)),
		string(e.Status),
		e.DisputeReason,
	}
}

func (r Report) summaryRows() [][2]any {
	return [][2]any{
		{"Total", money.FormatUSD(r.Summary.TotalAmount)},
		{"You Owe", money.FormatUSD(r.Summary.UserOwes)},
		{"Owed To You", money.FormatUSD(r.Summary.UserOwed)},
		{"Pending", r.Summary.PendingCount},
		{"Approved", r.Summary.ApprovedCount},
		{"Disputed", r.Summary.DisputedCount},
		{"Paid", r.Summary.PaidCount},
	}
}

// WriteXLSX writes the report as an XLSX workbook.
func (r Report) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	const sheet = "Expenses"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	set := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range detailHeaders {
		set(i+1, 1, h)
	}
	row := 2
	for _, e := range r.Expenses {
		for col, v := range r.detailRow(e) {
			set(col+1, row, v)
		}
		row++
	}

	row++
	set(1, row, "SUMMARY")
	row++
	for _, sr := range r.summaryRows() {
		set(1, row, sr[0])
		set(2, row, sr[1])
		row++
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteCSV writes the report as a sectioned CSV file.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := [][]string{
		{"Shared Expense Report"},
		{"Viewer", r.Viewer},
		{"Generated", time.Now().Format("2006-01-02 15:04:05")},
		{},
		{"SUMMARY"},
	}
	for _, row := range header {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, sr := range r.summaryRows() {
		if err := cw.Write([]string{fmt.Sprint(sr[0]), fmt.Sprint(sr[1])}); err != nil {
			return err
		}
	}
	if err := cw.Write(nil); err != nil {
		return err
	}

	if len(r.Expenses) > 0 {
		if err := cw.Write([]string{"DETAILED EXPENSES"}); err != nil {
			return err
		}
		if err := cw.Write(detailHeaders); err != nil {
			return err
		}
		for _, e := range r.Expenses {
			row := make([]string, 0, len(detailHeaders))
			for _, v := range r.detailRow(e) {
				row = append(row, fmt.Sprint(v))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
