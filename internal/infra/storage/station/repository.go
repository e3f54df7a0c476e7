package station

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

const pqForeignKeyViolation = "23503"

// Repository репозиторий для работы со станциями
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория станций
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую станцию
func (r *Repository) Create(ctx context.Context, station *domain.Station) (*domain.Station, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("stations").
		Columns("name", "type", "hourly_rate", "occupied", "current_session_id").
		Values(station.Name, station.Type, station.HourlyRate, station.Occupied, station.CurrentSessionID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&station.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	station.CreatedAt = createdAt.Time
	station.UpdatedAt = updatedAt.Time

	return station, nil
}

// GetAll получает все станции, отсортированные по ID
func (r *Repository) GetAll(ctx context.Context) ([]*domain.Station, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectStations().
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanStations(rows)
}

// GetByID получает станцию по ID
// Внутри транзакции строка блокируется через FOR UPDATE - станционные переходы
// (start/end сессии) не должны гоняться между двумя клиентами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Station, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectStations().
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stations, err := r.scanStations(rows)
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		return nil, ErrStationNotFound
	}

	return stations[0], nil
}

// GetNamesByIDs получает имена станций по списку ID
// Нужно проверке доступности, чтобы назвать занятые станции в сообщении пользователю
func (r *Repository) GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	query, args, err := psqlbuilder.Select("id", "name").
		From("stations").
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetNamesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetNamesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("%w: GetNamesByIDs - scan row: %v", ErrScanRow, err)
		}
		names[id] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetNamesByIDs - rows error: %v", ErrScanRow, err)
	}

	return names, nil
}

// Update применяет каталожные правки станции (имя, тариф)
func (r *Repository) Update(ctx context.Context, id int64, update domain.StationUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("stations").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if update.Name != nil {
		updateBuilder = updateBuilder.Set("name", *update.Name)
	}
	if update.HourlyRate != nil {
		updateBuilder = updateBuilder.Set("hourly_rate", *update.HourlyRate)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStationNotFound
	}

	return nil
}

// SetOccupancy переключает станцию между Free и Occupied
// Инвариант: occupied = true тогда и только тогда, когда currentSessionID != nil
func (r *Repository) SetOccupancy(ctx context.Context, id int64, occupied bool, currentSessionID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("stations").
		Set("occupied", occupied).
		Set("current_session_id", currentSessionID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetOccupancy - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetOccupancy - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetOccupancy - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStationNotFound
	}

	return nil
}

// Delete удаляет станцию (физическое удаление каталожной записи)
// Станция, на которую ссылаются сессии или бронирования, не удаляется:
// нарушение foreign key возвращается как ErrStationHasHistory
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("stations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation {
			return ErrStationHasHistory
		}
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStationNotFound
	}

	return nil
}

// selectStations базовый SELECT со всеми колонками станции
func selectStations() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"name",
		"type",
		"hourly_rate",
		"occupied",
		"current_session_id",
		"created_at",
		"updated_at",
	).From("stations")
}

// scanStations сканирует результаты запроса в слайс станций
func (r *Repository) scanStations(rows *sql.Rows) ([]*domain.Station, error) {
	stations := make([]*domain.Station, 0)

	for rows.Next() {
		var station domain.Station
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&station.ID,
			&station.Name,
			&station.Type,
			&station.HourlyRate,
			&station.Occupied,
			&station.CurrentSessionID,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanStations - scan row: %v", ErrScanRow, err)
		}

		station.CreatedAt = createdAt.Time
		station.UpdatedAt = updatedAt.Time

		stations = append(stations, &station)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanStations - rows error: %v", ErrScanRow, err)
	}

	return stations, nil
}
