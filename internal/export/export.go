// Package export renders the dataset as CSV and XLSX for analysts who
// live in spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/refurbtrack/price-tracker/internal/types"
)

var header = []string{
	"Competitor", "Brand", "Model", "Type", "Title", "Price",
	"Processor", "RAM", "Storage", "Grade", "Form Factor",
	"Screen Resolution", "Screen Size", "URL", "Scrape Date",
}

// Row is one flattened product line. Absent fields surface as "N/A"
// here, at the display edge, and nowhere earlier.
type Row []string

// Rows flattens the dataset into export rows, ordered by competitor
// name for stable output.
func Rows(data types.Dataset) []Row {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows []Row
	for _, name := range names {
		snap := data[name]
		date := ""
		if !snap.ScrapeDate.IsZero() {
			date = snap.ScrapeDate.Format("2006-01-02 15:04:05")
		}
		for _, p := range snap.Products {
			rows = append(rows, Row{
				name,
				orNA(p.Brand),
				orNA(p.Model),
				orNA(string(p.ProductType)),
				orNA(p.Title),
				priceOrNA(p.Price),
				orNA(p.Config.Processor),
				orNA(p.Config.RAM),
				orNA(p.Config.Storage),
				orNA(p.Config.CosmeticGrade),
				orNA(p.Config.FormFactor),
				orNA(p.Config.ScreenResolution),
				orNA(p.Config.ScreenSize),
				orNA(p.URL),
				date,
			})
		}
	}
	return rows
}

// WriteCSV streams the dataset as CSV.
func WriteCSV(w io.Writer, data types.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range Rows(data) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the dataset as a single-sheet workbook at path.
func WriteXLSX(path string, data types.Dataset) error {
	f, err := buildWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// WriteXLSXTo streams the workbook to w, e.g. an HTTP response.
func WriteXLSXTo(w io.Writer, data types.Dataset) error {
	f, err := buildWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("streaming workbook: %w", err)
	}
	return nil
}

func buildWorkbook(data types.Dataset) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Competitor Prices"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for i, row := range Rows(data) {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func priceOrNA(p *float64) string {
	if p == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}
