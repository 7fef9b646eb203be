package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"June 14, 2024", "2024-06-14"},
		{"2024-06-14", "2024-06-14"},
		{"Jun 14, 2024", "2024-06-14"},
		{"14 June 2024", "2024-06-14"},
		{" 2024/06/14 ", "2024-06-14"},
	}
	for _, tt := range tests {
		got, err := normalizeDate(tt.in)
		require.NoError(t, err, "normalizeDate(%q)", tt.in)
		require.Equal(t, tt.want, got)
	}

	_, err := normalizeDate("not a date")
	require.Error(t, err)
	_, err = normalizeDate("")
	require.Error(t, err)
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9:00 AM", "09:00"},
		{"9:00 pm", "21:00"},
		{"14:30:00", "14:30"},
		{"14:30", "14:30"},
		{" 7:05PM ", "19:05"},
		// unrecognized input passes through trimmed
		{"  around noon ", "around noon"},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, normalizeTime(tt.in), "normalizeTime(%q)", tt.in)
	}
}
