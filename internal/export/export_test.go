package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testSheet() Sheet {
	return Sheet{
		Name:   "Tasks",
		Header: []string{"ID", "Title", "Category"},
		Rows: [][]string{
			{"1", "Buy milk, eggs", "Uncategorized"},
			{"2", `Say "hi"`, "Work"},
		},
	}
}

func TestForFormat(t *testing.T) {
	w, err := ForFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "weekly_report_2024-03-10.csv", Filename("weekly_report_2024-03-10", w))

	w, err = ForFormat("excel")
	require.NoError(t, err)
	assert.Equal(t, "all_tasks_2024-03-10.xlsx", Filename("all_tasks_2024-03-10", w))

	_, err = ForFormat("pdf")
	assert.Error(t, err)
}

func TestCSVWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV{}.Write(&buf, testSheet()))
	assert.Equal(t, "ID,Title,Category\n1,\"Buy milk, eggs\",Uncategorized\n2,\"Say \"\"hi\"\"\",Work\n", buf.String())
	assert.Contains(t, CSV{}.ContentType(), "text/csv")
}

func TestExcelWrite(t *testing.T) {
	var buf bytes.Buffer
	sheet := testSheet()
	sheet.Name = "A very long sheet name that exceeds the limit"
	require.NoError(t, Excel{}.Write(&buf, sheet))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	assert.Len(t, sheets[0], maxSheetName)

	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	assert.Equal(t, [][]string{sheet.Header, sheet.Rows[0], sheet.Rows[1]}, rows)
}
