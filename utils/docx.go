package utils

import (
	"fmt"
	"time"

	"github.com/gomutex/godocx"
	log "github.com/sirupsen/logrus"
)

// read rows from chan and write a docx with one table.
// the whole document is kept in memory until saved.
func Rows2docx(ch <-chan []any, columns []string, title, filename string) (int, error) {
	document, err := godocx.NewDocument()
	if err != nil {
		log.Errorf("new docx error: %v", err)
		return 0, err
	}

	document.AddHeading(title, 0)
	document.AddParagraph("Generated at: " + time.Now().Format("2006-01-02 15:04:05"))

	table := document.AddTable()
	table.Style("LightList-Accent4")
	hdrRow := table.AddRow()
	for _, column := range columns {
		hdrRow.AddCell().AddParagraph(column)
	}

	rows := 0
	for values := range ch {
		row := table.AddRow()
		for _, v := range values {
			row.AddCell().AddParagraph(fmt.Sprintf("%v", v))
		}
		rows++
	}

	document.AddParagraph(fmt.Sprintf("Total %d rows", rows)).Style("Intense Quote")

	if err = document.SaveTo(filename); err != nil {
		log.Errorf("save docx '%s' error: %v", filename, err)
		return rows, err
	}

	return rows, nil
}
