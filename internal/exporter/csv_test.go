package exporter

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    string
	}{
		{
			name:    "headers and records",
			options: WriteOptions{Headers: []string{"a", "b"}, Records: [][]string{{"1", "2"}}},
			want:    "a,b\n1,2\n",
		},
		{
			name:    "quoting",
			options: WriteOptions{Records: [][]string{{"x,y", `say "hi"`}}},
			want:    "\"x,y\",\"say \"\"hi\"\"\"\n",
		},
		{
			name:    "bom",
			options: WriteOptions{Headers: []string{"a"}, BOMPrefix: true},
			want:    "\xEF\xBB\xBFa\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter(&buf).WriteCSV(tt.options))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestCSVWriter_PropagatesWriteErrors(t *testing.T) {
	err := NewCSVWriter(failingWriter{}).WriteCSV(WriteOptions{Headers: []string{"a"}, BOMPrefix: true})
	assert.ErrorContains(t, err, "disk full")

	err = NewCSVWriter(failingWriter{}).WriteCSV(WriteOptions{Headers: []string{"a"}})
	assert.ErrorContains(t, err, "disk full")
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "2", formatFloat(2))
	assert.Equal(t, "3.5355339059327378", formatFloat(math.Sqrt(12.5)))
	assert.Equal(t, "", formatFloat(math.NaN()))
	assert.Equal(t, "1e+21", formatFloat(1e21))
}
