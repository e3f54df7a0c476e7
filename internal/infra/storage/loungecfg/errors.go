package loungecfg

import "errors"

var (
	// ErrConfigNotFound возвращается, когда конфигурация лаунжа не найдена
	ErrConfigNotFound = errors.New("loungecfg.repository: config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("loungecfg.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("loungecfg.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("loungecfg.repository: failed to scan row")
)
