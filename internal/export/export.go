// Package export writes the pivoted time series to files a spreadsheet
// can open: CSV for the SoV table, XLSX with one sheet per metric.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"sovtrack-engine/internal/history"
)

// WriteCSV writes the SoV pivot: one row per domain, one column per
// date, domains in the time series' display order.
func WriteCSV(ts history.TimeSeries, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"domain"}, ts.Dates...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, s := range ts.Series {
		record := make([]string, 0, len(ts.Dates)+1)
		record = append(record, s.Domain)
		for _, p := range s.Points {
			record = append(record, strconv.FormatFloat(p.SOV, 'f', 2, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes one sheet per metric, each holding the same
// domain-by-date pivot.
func WriteXLSX(ts history.TimeSeries, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name  string
		value func(history.Point) any
	}{
		{"SoV", func(p history.Point) any { return p.SOV }},
		{"Appearances", func(p history.Point) any { return p.Appearances }},
		{"AvgVerticalRank", func(p history.Point) any { return p.AvgVerticalRank }},
		{"AvgHorizontalRank", func(p history.Point) any { return p.AvgHorizontalRank }},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return err
			}
		}

		if err := setCell(f, sheet.name, 1, 1, "domain"); err != nil {
			return err
		}
		for col, date := range ts.Dates {
			if err := setCell(f, sheet.name, col+2, 1, date); err != nil {
				return err
			}
		}
		for row, s := range ts.Series {
			if err := setCell(f, sheet.name, 1, row+2, s.Domain); err != nil {
				return err
			}
			for col, p := range s.Points {
				if err := setCell(f, sheet.name, col+2, row+2, sheet.value(p)); err != nil {
					return err
				}
			}
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}
