package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Params
		want Params
	}{
		{"defaults", Params{}, Params{Skip: 0, Take: DefaultTake}},
		{"negative skip", Params{Skip: -10, Take: 10}, Params{Skip: 0, Take: 10}},
		{"take over max", Params{Skip: 50, Take: 5000}, Params{Skip: 50, Take: MaxTake}},
		{"in range", Params{Skip: 25, Take: 25}, Params{Skip: 25, Take: 25}},
		{"zero take", Params{Skip: 5, Take: 0}, Params{Skip: 5, Take: DefaultTake}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}
