package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/types"
)

func TestGenerateTimeSlots(t *testing.T) {
	tomorrow := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("полная сетка на завтра", func(t *testing.T) {
		slots, err := generateTimeSlots("10:00", "14:00", 60, tomorrow, now, 0)
		require.NoError(t, err)

		assert.Equal(t, []types.TimeString{"10:00", "11:00", "12:00", "13:00"}, slots)
	})

	t.Run("неполный хвостовой слот не генерируется", func(t *testing.T) {
		slots, err := generateTimeSlots("10:00", "13:30", 60, tomorrow, now, 0)
		require.NoError(t, err)

		// Слот 13:00-14:00 вышел бы за закрытие
		assert.Equal(t, []types.TimeString{"10:00", "11:00", "12:00"}, slots)
	})

	t.Run("90-минутные слоты", func(t *testing.T) {
		slots, err := generateTimeSlots("10:00", "14:30", 90, tomorrow, now, 0)
		require.NoError(t, err)

		assert.Equal(t, []types.TimeString{"10:00", "11:30", "13:00"}, slots)
	})

	t.Run("закрытие перед полуночью - генерация завершается", func(t *testing.T) {
		// Конец слота 23:00-00:00 перевалил бы за полночь; сравнение
		// в минутах отбрасывает его и не зацикливается
		slots, err := generateTimeSlots("10:00", "23:59", 60, tomorrow, now, 0)
		require.NoError(t, err)

		require.Len(t, slots, 13)
		assert.Equal(t, types.TimeString("10:00"), slots[0])
		assert.Equal(t, types.TimeString("22:00"), slots[len(slots)-1])
	})

	t.Run("дата в прошлом - пусто", func(t *testing.T) {
		yesterday := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)

		slots, err := generateTimeSlots("10:00", "23:00", 60, yesterday, now, 0)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("сегодня фильтруются слоты до now+leadTime", func(t *testing.T) {
		today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
		nowMidday := time.Date(2025, 10, 15, 11, 45, 0, 0, time.UTC)

		slots, err := generateTimeSlots("10:00", "16:00", 60, today, nowMidday, 30)
		require.NoError(t, err)

		// 11:45 + 30 мин = 12:15, первый допустимый слот 13:00.
		// Слот ровно на границе min-времени остается доступным
		assert.Equal(t, []types.TimeString{"13:00", "14:00", "15:00"}, slots)
	})

	t.Run("слот ровно на границе leadTime остается", func(t *testing.T) {
		today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
		nowSharp := time.Date(2025, 10, 15, 12, 30, 0, 0, time.UTC)

		slots, err := generateTimeSlots("10:00", "16:00", 60, today, nowSharp, 30)
		require.NoError(t, err)

		assert.Equal(t, []types.TimeString{"13:00", "14:00", "15:00"}, slots)
	})

	t.Run("рабочий день закончился - сегодня пусто", func(t *testing.T) {
		today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
		evening := time.Date(2025, 10, 15, 22, 45, 0, 0, time.UTC)

		slots, err := generateTimeSlots("10:00", "23:00", 60, today, evening, 30)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("буфер не обнуляется переходом через полночь", func(t *testing.T) {
		// 23:45 + 30 мин уже за полночью: все сегодняшние слоты отфильтрованы,
		// а не "все разрешены" из-за завернувшегося минимального времени
		today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
		lateEvening := time.Date(2025, 10, 15, 23, 45, 0, 0, time.UTC)

		slots, err := generateTimeSlots("10:00", "23:59", 60, today, lateEvening, 30)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}

func TestMarkSlotAvailability(t *testing.T) {
	slots := []types.TimeString{"10:00", "11:00", "12:00", "13:00"}

	t.Run("без бронирований и сессий все доступно", func(t *testing.T) {
		marked := markSlotAvailability(slots, 60, nil, nil)

		require.Len(t, marked, 4)
		for _, slot := range marked {
			assert.True(t, slot.IsAvailable)
			assert.Equal(t, 60, slot.DurationMinutes)
		}
		assert.Equal(t, types.TimeString("10:00"), marked[0].StartTime)
		assert.Equal(t, types.TimeString("11:00"), marked[0].EndTime)
	})

	t.Run("бронирование блокирует пересекающиеся слоты", func(t *testing.T) {
		bookings := []*domain.Booking{
			{StartTime: "11:30", EndTime: "12:30", Status: domain.StatusConfirmed},
		}

		marked := markSlotAvailability(slots, 60, bookings, nil)

		assert.True(t, marked[0].IsAvailable)  // 10:00-11:00
		assert.False(t, marked[1].IsAvailable) // 11:00-12:00
		assert.False(t, marked[2].IsAvailable) // 12:00-13:00
		assert.True(t, marked[3].IsAvailable)  // 13:00-14:00
	})

	t.Run("граничащее бронирование не блокирует", func(t *testing.T) {
		bookings := []*domain.Booking{
			{StartTime: "11:00", EndTime: "12:00", Status: domain.StatusConfirmed},
		}

		marked := markSlotAvailability(slots, 60, bookings, nil)

		// 10:00-11:00 и 12:00-13:00 лишь касаются бронирования концами
		assert.True(t, marked[0].IsAvailable)
		assert.False(t, marked[1].IsAvailable)
		assert.True(t, marked[2].IsAvailable)
		assert.True(t, marked[3].IsAvailable)
	})

	t.Run("отмененное бронирование не учитывается", func(t *testing.T) {
		bookings := []*domain.Booking{
			{StartTime: "11:00", EndTime: "12:00", Status: domain.StatusCancelled},
		}

		marked := markSlotAvailability(slots, 60, bookings, nil)

		for _, slot := range marked {
			assert.True(t, slot.IsAvailable)
		}
	})

	t.Run("открытая сессия блокирует слоты после её начала", func(t *testing.T) {
		session := &domain.Session{
			StartTime: time.Date(2025, 10, 15, 11, 30, 0, 0, time.UTC),
		}

		marked := markSlotAvailability(slots, 60, nil, session)

		// У открытой сессии нет конца: занято всё, что кончается позже 11:30
		assert.True(t, marked[0].IsAvailable)  // 10:00-11:00
		assert.False(t, marked[1].IsAvailable) // 11:00-12:00
		assert.False(t, marked[2].IsAvailable)
		assert.False(t, marked[3].IsAvailable)
	})
}

func TestHasOverlappingBooking(t *testing.T) {
	tests := []struct {
		name      string
		slotStart types.TimeString
		bkStart   types.TimeString
		bkEnd     types.TimeString
		want      bool
	}{
		{"частичное пересечение справа", "11:00", "11:30", "12:30", true},
		{"частичное пересечение слева", "11:00", "10:30", "11:30", true},
		{"бронирование внутри слота", "11:00", "11:15", "11:45", true},
		{"слот внутри бронирования", "11:00", "10:00", "13:00", true},
		{"граничат концом", "11:00", "10:00", "11:00", false},
		{"граничат началом", "11:00", "12:00", "13:00", false},
		{"далеко", "11:00", "15:00", "16:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := []*domain.Booking{
				{StartTime: tt.bkStart, EndTime: tt.bkEnd, Status: domain.StatusConfirmed},
			}
			assert.Equal(t, tt.want, hasOverlappingBooking(tt.slotStart, 60, bookings))
		})
	}
}
