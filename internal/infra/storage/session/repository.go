package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/dbmetrics"
	"github.com/m04kA/GLC-StationService/pkg/psqlbuilder"
)

const pqUniqueViolation = "23505"

// Repository репозиторий для работы с игровыми сессиями
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую открытую сессию
// Частичный уникальный индекс (station_id WHERE end_time IS NULL) гарантирует
// не больше одной открытой сессии на станцию; нарушение возвращается как
// ErrStationBusy - так разрешается гонка двух клиентов за одну станцию
func (r *Repository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sessions").
		Columns("station_id", "customer_id", "start_time").
		Values(session.StationID, session.CustomerID, session.StartTime).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&session.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, ErrStationBusy
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return session, nil
}

// GetOpenByStationID получает открытую сессию станции
func (r *Repository) GetOpenByStationID(ctx context.Context, stationID int64) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectSessions().
		Where(squirrel.Eq{"station_id": stationID}).
		Where("end_time IS NULL").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenByStationID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenByStationID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions, err := r.scanSessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrSessionNotFound
	}

	return sessions[0], nil
}

// GetOpenSessions получает все открытые сессии
// Используется биллинг-монитором для периодического пересчета стоимости
func (r *Repository) GetOpenSessions(ctx context.Context) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectSessions().
		Where("end_time IS NULL").
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenSessions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenSessions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSessions(rows)
}

// Close закрывает сессию: единственная мутация строки за весь её жизненный цикл
func (r *Repository) Close(ctx context.Context, id int64, close domain.SessionClose) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sessions").
		Set("end_time", close.EndTime).
		Set("duration_minutes", close.DurationMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("end_time IS NULL").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Close - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Close - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Close - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// selectSessions базовый SELECT со всеми колонками сессии
func selectSessions() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"station_id",
		"customer_id",
		"start_time",
		"end_time",
		"duration_minutes",
		"created_at",
		"updated_at",
	).From("sessions")
}

// scanSessions сканирует результаты запроса в слайс сессий
func (r *Repository) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	sessions := make([]*domain.Session, 0)

	for rows.Next() {
		var session domain.Session
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&session.ID,
			&session.StationID,
			&session.CustomerID,
			&session.StartTime,
			&session.EndTime,
			&session.DurationMinutes,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanSessions - scan row: %v", ErrScanRow, err)
		}

		session.CreatedAt = createdAt.Time
		session.UpdatedAt = updatedAt.Time

		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSessions - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}
