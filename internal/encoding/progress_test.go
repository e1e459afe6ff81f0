package encoding

import (
	"testing"
	"time"
)

func TestFormatETA(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, ""},
		{-5 * time.Second, ""},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Minute + 3*time.Second, "2h5m3s"},
		{3 * time.Hour, "3h0m"},
	}
	for _, tc := range cases {
		if got := FormatETA(tc.d); got != tc.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
