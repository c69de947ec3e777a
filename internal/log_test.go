package internal

import "testing"

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		value string
		want  LogLevel
	}{
		{"ERROR", LogLevelError},
		{"DEBUG", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"", LogLevelInfo},
		{"garbage", LogLevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLogLevel(tc.value); got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", tc.value, got, tc.want)
		}
	}
}
