package models

import (
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
)

// Request модели

// StartSessionRequest запрос на старт сессии
type StartSessionRequest struct {
	StationID  int64 `json:"stationId"`
	CustomerID int64 `json:"customerId"`
}

// CreateStationRequest запрос на добавление станции в каталог
type CreateStationRequest struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	HourlyRate float64 `json:"hourlyRate"`
}

// ToDomainStation конвертирует request в domain модель новой станции
func (r *CreateStationRequest) ToDomainStation() *domain.Station {
	return &domain.Station{
		Name:       r.Name,
		Type:       domain.StationType(r.Type),
		HourlyRate: r.HourlyRate,
	}
}

// UpdateStationRequest каталожная правка станции
type UpdateStationRequest struct {
	Name       *string  `json:"name,omitempty"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
}

// ToDomainUpdate конвертирует request в domain обновление
func (r *UpdateStationRequest) ToDomainUpdate() domain.StationUpdate {
	return domain.StationUpdate{
		Name:       r.Name,
		HourlyRate: r.HourlyRate,
	}
}

// Response модели

// StationResponse ответ с данными станции
type StationResponse struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	HourlyRate       float64 `json:"hourlyRate"`
	Occupied         bool    `json:"occupied"`
	CurrentSessionID *int64  `json:"currentSessionId,omitempty"`
}

// StationListResponse ответ со списком станций
type StationListResponse struct {
	Stations []StationResponse `json:"stations"`
}

// SessionResponse ответ с данными сессии
type SessionResponse struct {
	ID              int64   `json:"id"`
	StationID       int64   `json:"stationId"`
	CustomerID      int64   `json:"customerId"`
	StartTime       string  `json:"startTime"` // ISO 8601
	EndTime         *string `json:"endTime,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
}

// ChargeResponse строка счета за закрытую сессию
type ChargeResponse struct {
	SessionID           int64   `json:"sessionId"`
	StationID           int64   `json:"stationId"`
	StationName         string  `json:"stationName"`
	DurationMinutes     int     `json:"durationMinutes"`
	Cost                float64 `json:"cost"`
	FreeSession         bool    `json:"freeSession"`
	MemberDiscount      bool    `json:"memberDiscount"`
	MembershipHoursUsed float64 `json:"membershipHoursUsed"`
}

// CustomerResponse membership-поля клиента после закрытия сессии
type CustomerResponse struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	MembershipActive     bool    `json:"membershipActive"`
	MembershipHoursLeft  float64 `json:"membershipHoursLeft"`
	TotalPlayTimeMinutes int     `json:"totalPlayTimeMinutes"`
}

// EndSessionResponse результат завершения сессии: строка счета плюс
// (возможно обновленный) клиент для выставления чека
type EndSessionResponse struct {
	Charge   ChargeResponse    `json:"charge"`
	Customer *CustomerResponse `json:"customer,omitempty"`
}

// Методы конвертации

// FromDomainStation конвертирует domain модель в DTO
func FromDomainStation(s *domain.Station) *StationResponse {
	if s == nil {
		return nil
	}
	return &StationResponse{
		ID:               s.ID,
		Name:             s.Name,
		Type:             string(s.Type),
		HourlyRate:       s.HourlyRate,
		Occupied:         s.Occupied,
		CurrentSessionID: s.CurrentSessionID,
	}
}

// FromDomainStationList конвертирует список domain моделей в DTO
func FromDomainStationList(stations []*domain.Station) *StationListResponse {
	resp := &StationListResponse{
		Stations: make([]StationResponse, 0, len(stations)),
	}
	for _, station := range stations {
		if stationResp := FromDomainStation(station); stationResp != nil {
			resp.Stations = append(resp.Stations, *stationResp)
		}
	}
	return resp
}

// FromDomainSession конвертирует domain модель в DTO
func FromDomainSession(s *domain.Session) *SessionResponse {
	if s == nil {
		return nil
	}

	resp := &SessionResponse{
		ID:              s.ID,
		StationID:       s.StationID,
		CustomerID:      s.CustomerID,
		StartTime:       s.StartTime.Format(time.RFC3339),
		DurationMinutes: s.DurationMinutes,
	}

	if s.EndTime != nil {
		endStr := s.EndTime.Format(time.RFC3339)
		resp.EndTime = &endStr
	}

	return resp
}

// FromDomainCharge конвертирует строку счета в DTO
func FromDomainCharge(c domain.SessionCharge) ChargeResponse {
	return ChargeResponse{
		SessionID:           c.SessionID,
		StationID:           c.StationID,
		StationName:         c.StationName,
		DurationMinutes:     c.DurationMinutes,
		Cost:                c.Cost,
		FreeSession:         c.FreeSession,
		MemberDiscount:      c.MemberDiscount,
		MembershipHoursUsed: c.MembershipHoursUsed,
	}
}

// FromDomainCustomer конвертирует domain модель в DTO
func FromDomainCustomer(c *domain.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		MembershipActive:     c.MembershipActive,
		MembershipHoursLeft:  c.MembershipHoursLeft,
		TotalPlayTimeMinutes: c.TotalPlayTimeMinutes,
	}
}
