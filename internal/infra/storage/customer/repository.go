package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/dbmetrics"
	"github.com/m04kA/GLC-StationService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с клиентами (membership-подмножество)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"membership_active",
		"membership_hours_left",
		"total_play_time_minutes",
		"created_at",
		"updated_at",
	).
		From("customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var customer domain.Customer
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&customer.ID,
		&customer.Name,
		&customer.MembershipActive,
		&customer.MembershipHoursLeft,
		&customer.TotalPlayTimeMinutes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan customer: %v", ErrScanRow, err)
	}

	customer.CreatedAt = createdAt.Time
	customer.UpdatedAt = updatedAt.Time

	return &customer, nil
}

// UpdateCounters обновляет счетчики клиента при закрытии сессии
// membership_hours_left уменьшается только здесь и только один раз на сессию
func (r *Repository) UpdateCounters(ctx context.Context, id int64, update domain.CustomerUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("customers").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if update.TotalPlayTimeMinutes != nil {
		updateBuilder = updateBuilder.Set("total_play_time_minutes", *update.TotalPlayTimeMinutes)
	}
	if update.MembershipHoursLeft != nil {
		updateBuilder = updateBuilder.Set("membership_hours_left", *update.MembershipHoursLeft)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateCounters - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateCounters - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateCounters - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}
