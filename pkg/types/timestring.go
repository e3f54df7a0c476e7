package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")
)

const (
	timeLayoutShort = "15:04"    // HH:MM
	timeLayoutFull  = "15:04:05" // HH:MM:SS
)

// TimeString время суток в формате "HH:MM" или "HH:MM:SS"
// Используется для времени слотов и бронирований, где важно только время дня,
// без привязки к дате и часовому поясу
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает дату)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayoutShort))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат времени ("HH:MM" или "HH:MM:SS")
func (t TimeString) Validate() error {
	if _, err := t.toTime(); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Canonical приводит время к каноничному формату "HH:MM:SS"
// Нужно для корректного сравнения времён, пришедших в разных форматах
func (t TimeString) Canonical() (TimeString, error) {
	parsed, err := t.toTime()
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return TimeString(parsed.Format(timeLayoutFull)), nil
}

// AddMinutes возвращает время, сдвинутое на указанное количество минут вперед
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	parsed, err := t.toTime()
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	shifted := parsed.Add(time.Duration(minutes) * time.Minute)
	return TimeString(shifted.Format(t.layout())), nil
}

// IsBefore возвращает true, если время строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.toTime()
	b, errB := other.toTime()
	if errA != nil || errB != nil {
		return false
	}
	return a.Before(b)
}

// IsAfter возвращает true, если время строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.toTime()
	b, errB := other.toTime()
	if errA != nil || errB != nil {
		return false
	}
	return a.After(b)
}

// Minutes возвращает время как количество минут с начала суток
func (t TimeString) Minutes() (int, error) {
	parsed, err := t.toTime()
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	canonical, err := t.Canonical()
	if err != nil {
		return nil, err
	}
	return string(canonical), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Postgres отдает колонки типа TIME как time.Time или []byte в зависимости от драйвера
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = TimeString(v.Format(timeLayoutFull))
		return nil
	case []byte:
		*t = TimeString(v)
		return t.Validate()
	case string:
		*t = TimeString(v)
		return t.Validate()
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeString, src)
	}
}

// layout возвращает layout, соответствующий текущему формату значения
func (t TimeString) layout() string {
	if len(t) == len(timeLayoutFull) {
		return timeLayoutFull
	}
	return timeLayoutShort
}

func (t TimeString) toTime() (time.Time, error) {
	return time.Parse(t.layout(), string(t))
}
