package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		name     string
		size     string
		expected int64
		wantErr  bool
	}{
		{
			name:     "plain bytes",
			size:     "1024",
			expected: 1024,
		},
		{
			name:     "kilobytes",
			size:     "1KB",
			expected: 1000,
		},
		{
			name:     "megabytes",
			size:     "500Mb",
			expected: 500 * 1000 * 1000,
		},
		{
			name:     "gigabytes",
			size:     "2Gb",
			expected: 2 * 1000 * 1000 * 1000,
		},
		{
			name:    "not a size",
			size:    "lots",
			wantErr: true,
		},
		{
			name:    "empty string",
			size:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHumanSize(tt.size)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
