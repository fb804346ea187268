package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

var statementHeaders = []string{"Date", "Minutes", "Rate", "Amount", "Paid", "Notes"}

// Statement выписка по ученику: занятия и итог к оплате
type Statement struct {
	Student  model.Student
	Lessons  []model.Lesson
	IssuedOn calendar.Date
	Currency string
}

// Total сумма неоплаченных занятий выписки
func (s Statement) Total() float64 {
	total := 0.0
	for i := range s.Lessons {
		if !s.Lessons[i].IsPaid {
			total += s.Lessons[i].Amount()
		}
	}
	return total
}

func (s Statement) rows() [][]string {
	rows := make([][]string, 0, len(s.Lessons))
	for i := range s.Lessons {
		l := &s.Lessons[i]
		paid := "no"
		if l.IsPaid {
			paid = "yes"
		}
		rows = append(rows, []string{
			l.Date.String(),
			strconv.Itoa(l.DurationMinutes),
			formatMoney(l.HourlyRate),
			formatMoney(l.Amount()),
			paid,
			l.Notes,
		})
	}
	return rows
}

// StatementCSV выписка в CSV: строка заголовков и по строке на занятие
func StatementCSV(s Statement) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(statementHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range s.rows() {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// StatementPDF выписка на одной или нескольких страницах A4
func StatementPDF(s Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetTitle("Statement: "+s.Student.Name, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr("Statement: "+s.Student.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if !s.IssuedOn.IsZero() {
		pdf.CellFormat(0, 6, "Issued on "+s.IssuedOn.String(), "", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	widths := []float64{25, 18, 22, 25, 14, 86}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range statementHeaders {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range s.rows() {
		for i, value := range row {
			if i == len(row)-1 {
				value = truncate(value, 60)
			}
			pdf.CellFormat(widths[i], 7, tr(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Outstanding: %s%s", s.Currency, formatMoney(s.Total()))), "", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
