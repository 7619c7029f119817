package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{name: "zero", bytes: 0, want: "0 B"},
		{name: "bytes", bytes: 1023, want: "1023 B"},
		{name: "one kilobyte", bytes: 1024, want: "1 KB"},
		{name: "fractional kilobyte", bytes: 1536, want: "1.5 KB"},
		{name: "upload ceiling", bytes: 20 * 1024 * 1024, want: "20 MB"},
		{name: "five megabytes", bytes: 5 * 1024 * 1024, want: "5 MB"},
		{name: "gigabytes", bytes: 3 * 1024 * 1024 * 1024, want: "3 GB"},
		{name: "caps at terabytes", bytes: 2048 * 1024 * 1024 * 1024 * 1024, want: "2048 TB"},
		{name: "rounds up", bytes: 1048575, want: "1024 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.bytes))
		})
	}
}

func TestFormatSize_Idempotent(t *testing.T) {
	for _, n := range []int64{0, 1, 1024, 1536, 987654321} {
		assert.Equal(t, FormatSize(n), FormatSize(n))
	}
}

func TestGenerateUUID(t *testing.T) {
	a := GenerateUUID()
	b := GenerateUUID()

	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
