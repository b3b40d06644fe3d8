// Package export renders tabular rows as downloadable files.
package export

import (
	"fmt"
	"io"
)

// Sheet is a header plus ordered rows of cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Writer renders a Sheet in one file format.
type Writer interface {
	Write(w io.Writer, sheet Sheet) error
	ContentType() string
	Extension() string
}

// Format names accepted by ForFormat.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

// ForFormat returns the writer for a format name.
func ForFormat(format string) (Writer, error) {
	switch format {
	case FormatCSV:
		return CSV{}, nil
	case FormatExcel:
		return Excel{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Filename joins base and the writer's extension.
func Filename(base string, w Writer) string {
	return base + "." + w.Extension()
}
