package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSaleCode(t *testing.T) {
	code, err := GenerateSaleCode()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "QS-"))
	assert.Len(t, code, 9)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart *time.Time
		wantEnd   *time.Time
		wantErr   bool
	}{
		{
			name: "Sem datas",
		},
		{
			name:      "Intervalo inclui o dia final",
			start:     "2024-03-01",
			end:       "2024-03-05",
			wantStart: datePtr(2024, 3, 1),
			wantEnd:   datePtr(2024, 3, 6),
		},
		{
			name:    "Data inválida",
			start:   "01/03/2024",
			wantErr: true,
		},
		{
			name:    "Início depois do fim",
			start:   "2024-03-10",
			end:     "2024-03-01",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseDateRange(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}
