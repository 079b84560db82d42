package ports

import (
	"context"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// BattleLogRepository persists battle logs.
type BattleLogRepository interface {
	Insert(ctx context.Context, log *domain.BattleLog) error
}

// BattleLogInput is the DTO passed from the transport layer to BattleService.
type BattleLogInput struct {
	WinnerID    int
	LoserID     int
	TotalRounds int
}

// BattleService records battle logs and mails battle reports.
type BattleService interface {
	Record(ctx context.Context, userID string, in BattleLogInput) (*domain.BattleLog, error)
	MailReport(ctx context.Context, email string, in BattleLogInput) (*domain.BattleLog, error)
}
