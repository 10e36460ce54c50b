package domain

import "time"

// NotificationType tags the message carried by a backend notification. The
// set mirrors the server's and is open-ended on the client: types unknown to
// this version are kept verbatim and dispatched as unknown messages instead
// of failing the poller.
type NotificationType string

const (
	NotificationSessionAuthorized NotificationType = "SESSION_AUTHORIZED"
	NotificationNewOperation      NotificationType = "NEW_OPERATION"
	NotificationOperationUpdate   NotificationType = "OPERATION_UPDATE"

	// Reserved for future compatibility, no client behavior attached yet.
	NotificationExpiredSession   NotificationType = "EXPIRED_SESSION"
	NotificationVerifiedEmail    NotificationType = "VERIFIED_EMAIL"
	NotificationWithdrawalResult NotificationType = "WITHDRAWAL_RESULT"
)

// Notification is a message pushed by the backend, fetched by polling in
// id order.
type Notification struct {
	Id                int64
	PreviousId        int64
	SenderSessionUuid string
	Type              NotificationType

	// OperationUpdate is set for OPERATION_UPDATE messages.
	OperationUpdate *OperationUpdate
}

// IsKnown returns whether the message type has client behavior attached.
func (n Notification) IsKnown() bool {
	switch n.Type {
	case NotificationSessionAuthorized,
		NotificationNewOperation,
		NotificationOperationUpdate,
		NotificationExpiredSession,
		NotificationVerifiedEmail,
		NotificationWithdrawalResult:
		return true
	default:
		return false
	}
}

// OperationUpdate carries the confirmation status of an operation and, for
// operations funded through a submarine swap, the observed settlement.
type OperationUpdate struct {
	OperationId   int64
	Confirmations int
	Hash          string

	SwapUuid      string
	PreimageInHex string
	PayedAt       *time.Time
}

// HasSwapSettlement returns whether the update carries a swap settlement to
// register.
func (u OperationUpdate) HasSwapSettlement() bool {
	return len(u.SwapUuid) > 0 && len(u.PreimageInHex) > 0 && u.PayedAt != nil
}
