package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSV writes RFC 4180 comma-separated values.
type CSV struct{}

func (CSV) ContentType() string { return "text/csv; charset=utf-8" }

func (CSV) Extension() string { return "csv" }

func (CSV) Write(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(sheet.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
