package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Notícias da Prefeitura", "noticias-da-prefeitura"},
		{"Secretaria de Educação", "secretaria-de-educacao"},
		{"  Festa  Junina 2026!  ", "festa-junina-2026"},
		{"IPTU — 2ª via", "iptu-2-via"},
		{"já-com-hifens", "ja-com-hifens"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Make(tc.input); got != tc.want {
			t.Fatalf("Make(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
