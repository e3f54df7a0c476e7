package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"короткий формат", "10:30", false},
		{"полный формат", "10:30:45", false},
		{"полночь", "00:00", false},
		{"мусор", "abc", true},
		{"часы вне диапазона", "25:00", true},
		{"пустая строка", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_Canonical(t *testing.T) {
	canonical, err := TimeString("10:30").Canonical()
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30:00"), canonical)

	canonical, err = TimeString("10:30:45").Canonical()
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30:45"), canonical)
}

func TestTimeString_AddMinutes(t *testing.T) {
	shifted, err := TimeString("10:30").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), shifted)

	// Формат значения сохраняется
	shifted, err = TimeString("10:30:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:00:00"), shifted)
}

func TestTimeString_Comparison(t *testing.T) {
	assert.True(t, TimeString("10:00").IsBefore("11:00"))
	assert.False(t, TimeString("11:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))

	assert.True(t, TimeString("11:00").IsAfter("10:00"))
	assert.False(t, TimeString("10:00").IsAfter("10:00"))

	// Разные форматы одного времени сравниваются корректно
	assert.False(t, TimeString("10:00").IsBefore("10:00:00"))
	assert.False(t, TimeString("10:00").IsAfter("10:00:00"))
}

func TestTimeString_Minutes(t *testing.T) {
	minutes, err := TimeString("10:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)

	minutes, err = TimeString("00:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)
}

func TestTimeString_Value(t *testing.T) {
	value, err := TimeString("10:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:30:00", value)

	value, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestTimeString_Scan(t *testing.T) {
	t.Run("time.Time", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan(time.Date(0, 1, 1, 10, 30, 45, 0, time.UTC)))
		assert.Equal(t, TimeString("10:30:45"), ts)
	})

	t.Run("bytes", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan([]byte("10:30:00")))
		assert.Equal(t, TimeString("10:30:00"), ts)
	})

	t.Run("nil", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan(nil))
		assert.True(t, ts.IsZero())
	})

	t.Run("неподдерживаемый тип", func(t *testing.T) {
		var ts TimeString
		assert.ErrorIs(t, ts.Scan(42), ErrInvalidTimeString)
	})
}
