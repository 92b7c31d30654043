package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkerArgs(t *testing.T) {
	tests := []struct {
		name string
		args string
		want map[string]string
	}{
		{
			name: "empty",
			args: "",
			want: map[string]string{},
		},
		{
			name: "whitespace only",
			args: "   ",
			want: map[string]string{},
		},
		{
			name: "csharp attribute style",
			args: `Table = "users", Schema = "public"`,
			want: map[string]string{"Table": "users", "Schema": "public"},
		},
		{
			name: "decorator style",
			args: `table="users"`,
			want: map[string]string{"Table": "users"},
		},
		{
			name: "object literal style",
			args: `{ table: "users", audit: true }`,
			want: map[string]string{"Table": "users", "Audit": "true"},
		},
		{
			name: "bare flag",
			args: `audited`,
			want: map[string]string{"Audited": "true"},
		},
		{
			name: "numeric value",
			args: `version=2`,
			want: map[string]string{"Version": "2"},
		},
		{
			name: "single quotes",
			args: `table='users'`,
			want: map[string]string{"Table": "users"},
		},
		{
			name: "duplicate keys keep the last value",
			args: `table="a", Table="b"`,
			want: map[string]string{"Table": "b"},
		},
		{
			name: "escaped quote in value",
			args: `label="say \"hi\""`,
			want: map[string]string{"Label": `say "hi"`},
		},
		{
			name: "mixed flags and pairs",
			args: `table="users" audited version=3`,
			want: map[string]string{"Table": "users", "Audited": "true", "Version": "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMarkerArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMarkerArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "dangling assignment", args: `table=`},
		{name: "unlexable input", args: `table=$$$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMarkerArgs(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "Table", canonicalKey("table"))
	assert.Equal(t, "Table", canonicalKey("Table"))
	assert.Equal(t, "TableName", canonicalKey("tableName"))
}
