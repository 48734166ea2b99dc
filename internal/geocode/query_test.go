package geocode

import "testing"

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Kelurahaan   Citeureup\n", "Kelurahan Citeureup"},
		{"Kecaamatan Baleendah", "Kecamatan Baleendah"},
		{"Kab.Bandung", "Kabupaten Bandung"},
		{"Kab. Bandung", "Kabupaten Bandung"},
		{"Kot. Cimahi", "Kota Cimahi"},
		{"Rt. 04 Rw. 06", "RT. 04 RW. 06"},
		{"", ""},
	}
	for _, c := range cases {
		got := NormalizeQuery(c.in)
		if got != c.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", c.in, got, c.want)
		}
		if again := NormalizeQuery(got); again != got {
			t.Errorf("not idempotent: %q -> %q", got, again)
		}
	}
}
