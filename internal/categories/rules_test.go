package categories

import (
	"testing"

	"github.com/datos-demre/demre/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRules() Rules {
	return RulesFromConfig(config.DefaultConfig().Entries)
}

func TestCSVToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "archivo prefix", input: "archivoB_something.csv", want: "b"},
		{name: "mixed case", input: "ArchivoC_Adm2019.csv", want: "c"},
		{name: "nested path", input: "PROCESO-2019/ArchivoD_2019.csv", want: "d"},
		{name: "matricula", input: "ArchivoMatricula_2019_publica.csv", want: "matricula"},
		{name: "no underscore keeps extension", input: "ArchivoB.csv", want: "b.csv"},
	}

	rules := defaultRules()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := rules.CSVToken(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDictToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "archivo_dict_matr.xlsx", want: "matr"},
		{name: "archivo in token", input: "Libro_Codigos_ArchivoB.xlsx", want: "b"},
		{name: "extra segments", input: "Libro_Codigos_C_2019.xlsx", want: "c"},
		{name: "accented", input: "libro_códigos_Matrícula.xlsx", want: "matricula"},
		{name: "too few segments", input: "Libro_B.xlsx", wantErr: true},
	}

	rules := defaultRules()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := rules.DictToken(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedEntryName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputNames(t *testing.T) {
	t.Parallel()

	rules := defaultRules()
	assert.Equal(t, "inscripciones.csv", rules.CSVName("inscripciones"))
	assert.Equal(t, "dict_matriculas.xlsx", rules.DictName("matriculas"))
}

func TestStripDisabled(t *testing.T) {
	t.Parallel()

	rules := Rules{DictSegment: 2}
	got, err := rules.CSVToken("archivoB_x.csv")
	require.NoError(t, err)
	assert.Equal(t, "archivob", got)
}
