package start_session

// StartSessionRequest HTTP request model
type StartSessionRequest struct {
	CustomerID int64 `json:"customerId"`
}
