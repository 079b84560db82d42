package ports

import (
	"context"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// NotificationKind selects the mail template used for a notification.
type NotificationKind string

const (
	NotifyOTP           NotificationKind = "otp"
	NotifyResetPassword NotificationKind = "reset_password"
	NotifyVerifyEmail   NotificationKind = "verify_email"
	NotifyBattleLog     NotificationKind = "battle_log"
)

// Notification is a single out-of-band message to a user.
type Notification struct {
	Kind NotificationKind
	To   string
	// OTP is set for NotifyOTP.
	OTP string
	// Token is set for NotifyResetPassword and NotifyVerifyEmail.
	Token string
	// Log is set for NotifyBattleLog.
	Log *domain.BattleLog
}

// NotificationQueue accepts notifications for background delivery. Enqueue
// must not block on delivery.
type NotificationQueue interface {
	Enqueue(n Notification) error
}

// Notifier delivers a notification synchronously.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
