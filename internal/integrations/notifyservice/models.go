package notifyservice

// Notification модель уведомления для NotifyService
type Notification struct {
	Level   string `json:"level"`   // Уровень: info, warning, error
	Message string `json:"message"` // Текст уведомления
}
