package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []Segment
	}{
		{"Name", []Segment{{"Name", NoIndex}}},
		{"Customer.Name", []Segment{{"Customer", NoIndex}, {"Name", NoIndex}}},
		{"Lines[2].Sku", []Segment{{"Lines", 2}, {"Sku", NoIndex}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Segments)
			assert.Equal(t, tt.in, p.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "A..B", "A[", "A[x]", "A[-1]", "9lives", "[0]"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestJoinAt(t *testing.T) {
	p := MustParse("Items").At(1).Join("Name")

	assert.Equal(t, "Items[1].Name", p.String())
	assert.Equal(t, "Items", MustParse("Items").String())
}

func TestIsExportedIdent(t *testing.T) {
	assert.True(t, IsExportedIdent("Total"))
	assert.False(t, IsExportedIdent("total"))
	assert.False(t, IsExportedIdent("_Total"))
}
