package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	rows := ToCSVRows(sampleReport())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "2024-04", rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2024-04"}, f.GetSheetList())

	got, err := f.GetRows("2024-04")
	require.NoError(t, err)
	require.Len(t, got, 31)
	assert.Equal(t, Header, got[0])
	assert.Equal(t, []string{"2024/04/01", "09:00", "18:00", "01:00", "08:00"}, got[1])
}
