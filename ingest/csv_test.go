package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emostyz/marketing-sub014/errors"
)

func TestReadParsesHeaderAndRows(t *testing.T) {
	input := "region, revenue ,units\nEMEA,1200,34\nAPAC,900,21\n"

	rows, err := NewReader(0).Read(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "EMEA", rows[0]["region"])
	assert.Equal(t, "1200", rows[0]["revenue"])
	assert.Equal(t, "21", rows[1]["units"])
	assert.Equal(t, []string{"region", "revenue", "units"}, rows.Columns())
}

func TestReadSkipsBlankLines(t *testing.T) {
	input := "a,b\n1,2\n,\n3,4\n"

	rows, err := NewReader(0).Read(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "3", rows[1]["a"])
}

func TestReadPadsAndTruncatesRaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\n4,5,6,7\n"

	rows, err := NewReader(0).Read(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": ""}, rows[0])
	assert.Equal(t, map[string]string{"a": "4", "b": "5", "c": "6"}, rows[1])
}

func TestReadRejectsEmptyInput(t *testing.T) {
	_, err := NewReader(0).Read(strings.NewReader(""))

	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestReadRejectsHeaderOnlyInput(t *testing.T) {
	_, err := NewReader(0).Read(strings.NewReader("a,b\n"))

	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestReadRejectsDuplicateHeaderColumns(t *testing.T) {
	_, err := NewReader(0).Read(strings.NewReader("a,a\n1,2\n"))

	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Contains(t, err.Error(), `"a"`)
}

func TestReadRejectsEmptyHeaderColumn(t *testing.T) {
	_, err := NewReader(0).Read(strings.NewReader("a,,c\n1,2,3\n"))

	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestReadEnforcesRowCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 11; i++ {
		b.WriteString("x\n")
	}

	_, err := NewReader(10).Read(strings.NewReader(b.String()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum of 10 data rows")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("region,revenue\nEMEA,1200\n"), 0o644))

	rows, err := NewReader(0).ReadFile(path)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "EMEA", rows[0]["region"])
}

func TestReadFileMissing(t *testing.T) {
	_, err := NewReader(0).ReadFile(filepath.Join(t.TempDir(), "nope.csv"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open CSV file")
}
