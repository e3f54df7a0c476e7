package loungecfg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/dbmetrics"
	"github.com/m04kA/GLC-StationService/pkg/psqlbuilder"
)

// Repository репозиторий конфигурации лаунжа (часы работы, длительность слота)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetConfig получает действующую конфигурацию лаунжа
// Конфигурация одна на весь лаунж; берется последняя по ID
func (r *Repository) GetConfig(ctx context.Context) (*domain.LoungeConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"open_time",
		"close_time",
		"slot_duration_minutes",
		"created_at",
		"updated_at",
	).
		From("lounge_config").
		OrderBy("id DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - build select query: %v", ErrBuildQuery, err)
	}

	var config domain.LoungeConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&config.OpenTime,
		&config.CloseTime,
		&config.SlotDurationMinutes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - scan config: %v", ErrScanRow, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}
