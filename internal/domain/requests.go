package domain

import "time"

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusScheduled RequestStatus = "scheduled"
)

// PartyName is the embedded display name of one side of a connect request.
type PartyName struct {
	FullName string `json:"full_name"`
}

type ConnectRequest struct {
	ID         string        `json:"id"`
	FromUserID string        `json:"from_user_id"`
	ToUserID   string        `json:"to_user_id"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	From       *PartyName    `json:"from,omitempty"`
	To         *PartyName    `json:"to,omitempty"`
}

type NdaRequest struct {
	ID         string        `json:"id"`
	IdeaID     string        `json:"idea_id"`
	InvestorID string        `json:"investor_id"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}
