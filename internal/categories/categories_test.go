package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "b", input: "b", want: "inscripciones"},
		{name: "c", input: "c", want: "resultados"},
		{name: "d", input: "d", want: "postulaciones"},
		{name: "mat", input: "mat", want: "matriculas"},
		{name: "matr", input: "matr", want: "matriculas"},
		{name: "matricula", input: "matricula", want: "matriculas"},
		{name: "upper case", input: "B", want: "inscripciones"},
		{name: "accented", input: "Matrícula", want: "matriculas"},
		{name: "unknown", input: "z", wantErr: true},
		{name: "with extension", input: "b.csv", wantErr: true},
	}

	table := Default()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := table.Lookup(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				assert.Contains(t, err.Error(), tt.input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCopiesEntries(t *testing.T) {
	t.Parallel()

	entries := map[string]string{"x": "extra"}
	table, err := New(entries)
	require.NoError(t, err)

	entries["x"] = "changed"
	entries["y"] = "other"

	got, err := table.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, "extra", got)
	assert.Equal(t, 1, table.Len())
}

func TestNewRejectsInvalidTables(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.ErrorIs(t, err, ErrEmptyTable)

	_, err = New(map[string]string{" ": "x"})
	require.Error(t, err)

	_, err = New(map[string]string{"x": ""})
	require.Error(t, err)
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"inscripciones", "matriculas", "postulaciones", "resultados"},
		Default().Names())
}
