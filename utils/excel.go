package utils

import (
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// read rows from chan and write to excel with a header row of columns.
// the channel must be closed by the sender.
func Rows2excel(ch <-chan []any, columns []string, sheetname, filename string) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	// reuse the default sheet
	if err := f.SetSheetName("Sheet1", sheetname); err != nil {
		log.Errorf("Rename sheet to '%s' failed: %v", sheetname, err)
		return 0, err
	}

	sw, err := f.NewStreamWriter(sheetname)
	if err != nil {
		log.Errorf("Create stream writer for '%s' failed: %v", sheetname, err)
		return 0, err
	}

	style, err := headerStyle(f)
	if err != nil {
		log.Warnf("create header style failed: %v", err)
	}
	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = excelize.Cell{StyleID: style, Value: column}
	}
	if err = sw.SetRow("A1", header); err != nil {
		return 0, err
	}

	rows := 0
	for row := range ch {
		cell, err := excelize.CoordinatesToCellName(1, rows+2)
		if err != nil {
			return rows, err
		}
		if err = sw.SetRow(cell, row); err != nil {
			log.Warnf("SetRow %s failed: %v", cell, err)
			continue
		}
		rows++
	}

	if err = sw.Flush(); err != nil {
		return rows, err
	}
	if err = f.SaveAs(filename); err != nil {
		log.Errorf("save excel '%s' error: %v", filename, err)
		return rows, err
	}

	return rows, nil
}

// bold header on light yellow, double bottom border
func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 5},
			{Type: "right", Color: "000000", Style: 6},
		},
		Font: &excelize.Font{
			Bold:  true,
			Size:  12,
			Color: "#000000",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FFFF99"},
			Pattern: 1,
		},
	})
}
