package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/dbmetrics"
	"github.com/m04kA/GLC-StationService/pkg/psqlbuilder"
	"github.com/m04kA/GLC-StationService/pkg/types"
)

// Коды ошибок Postgres, означающие конфликт бронирования на уровне БД
const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Exclusion constraint на таблице bookings отклоняет пересекающиеся активные окна
// на одной станции; такое нарушение возвращается как ErrSlotTaken, чтобы вызывающая
// сторона показала пользователю сообщение "слот уже занят"
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"station_id",
			"customer_id",
			"booking_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"status",
			"notes",
		).
		Values(
			booking.StationID,
			booking.CustomerID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.DurationMinutes,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isConflictViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByStationsWithFilter получает бронирования по списку станций с фильтрацией
// Используется fallback-путем проверки доступности (ручная фильтрация пересечений
// на клиенте) и финальной проверкой перед записью бронирования
//
// Если вызов идет внутри транзакции и фильтр задает конкретную дату, строки
// блокируются через FOR UPDATE - это нужно usecase создания бронирования
func (r *Repository) GetByStationsWithFilter(ctx context.Context, filter domain.StationBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if len(filter.StationIDs) == 0 {
		return []*domain.Booking{}, nil
	}

	selectBuilder := selectBookings().
		Where(squirrel.Eq{"station_id": filter.StationIDs})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": *filter.Date})
	}

	if !filter.IncludeInactive {
		activeStatusStrings := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			activeStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date ASC, start_time ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStationsWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStationsWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CheckStationsAvailability серверная проверка доступности станций одним запросом
// Для каждой станции возвращает, пересекается ли запрошенное окно хотя бы с одним
// активным бронированием или открытой сессией
//
// Правило пересечения полуоткрытых интервалов: [s1,e1) и [s2,e2) пересекаются
// тогда и только тогда, когда s1 < e2 AND s2 < e1
//
// Открытая сессия не имеет времени конца, поэтому она блокирует любое сегодняшнее
// окно, заканчивающееся позже времени её старта
func (r *Repository) CheckStationsAvailability(
	ctx context.Context,
	date time.Time,
	startTime types.TimeString,
	endTime types.TimeString,
	stationIDs []int64,
) ([]domain.StationAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if len(stationIDs) == 0 {
		return []domain.StationAvailability{}, nil
	}

	const query = `
		SELECT u.station_id,
		       NOT EXISTS (
		           SELECT 1
		           FROM bookings b
		           WHERE b.station_id = u.station_id
		             AND b.booking_date = $2
		             AND b.status IN ('confirmed', 'in_progress')
		             AND b.start_time < $4
		             AND b.end_time > $3
		       )
		       AND NOT EXISTS (
		           SELECT 1
		           FROM sessions s
		           WHERE s.station_id = u.station_id
		             AND s.end_time IS NULL
		             AND $2 = CURRENT_DATE
		             AND s.start_time::time < $4
		       ) AS is_available
		FROM unnest($1::bigint[]) AS u(station_id)
	`

	startCanonical, err := startTime.Canonical()
	if err != nil {
		return nil, fmt.Errorf("%w: CheckStationsAvailability - canonicalize start time: %v", ErrBuildQuery, err)
	}
	endCanonical, err := endTime.Canonical()
	if err != nil {
		return nil, fmt.Errorf("%w: CheckStationsAvailability - canonicalize end time: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query,
		pq.Array(stationIDs),
		date,
		string(startCanonical),
		string(endCanonical),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: CheckStationsAvailability - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.StationAvailability, 0, len(stationIDs))
	for rows.Next() {
		var item domain.StationAvailability
		if err := rows.Scan(&item.StationID, &item.IsAvailable); err != nil {
			return nil, fmt.Errorf("%w: CheckStationsAvailability - scan row: %v", ErrScanRow, err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CheckStationsAvailability - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// selectBookings базовый SELECT со всеми колонками бронирования
func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"station_id",
		"customer_id",
		"booking_date",
		"start_time",
		"end_time",
		"duration_minutes",
		"status",
		"notes",
		"created_at",
		"updated_at",
	).From("bookings")
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.StationID,
			&booking.CustomerID,
			&booking.BookingDate,
			&booking.StartTime,
			&booking.EndTime,
			&booking.DurationMinutes,
			&booking.Status,
			&booking.Notes,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// isConflictViolation проверяет, что ошибка вызвана constraint'ом пересечения
func isConflictViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == pqUniqueViolation || code == pqExclusionViolation
	}
	return false
}
