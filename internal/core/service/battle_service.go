package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

type battleService struct {
	repo     ports.BattleLogRepository
	notifier ports.Notifier
	now      func() time.Time
	log      zerolog.Logger
}

// NewBattleService returns a BattleService. Reports are mailed synchronously
// through notifier so the caller learns about delivery failures.
func NewBattleService(repo ports.BattleLogRepository, notifier ports.Notifier, log zerolog.Logger) ports.BattleService {
	return &battleService{repo: repo, notifier: notifier, now: time.Now, log: log}
}

// Record stores a battle log for userID.
func (s *battleService) Record(ctx context.Context, userID string, in ports.BattleLogInput) (*domain.BattleLog, error) {
	if err := validateBattle(in); err != nil {
		return nil, err
	}
	entry := &domain.BattleLog{
		UserID:      userID,
		WinnerID:    in.WinnerID,
		LoserID:     in.LoserID,
		TotalRounds: in.TotalRounds,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("record battle: %w", err)
	}
	s.log.Info().Str("user_id", userID).Str("battle_id", entry.ID).Msg("battle recorded")
	return entry, nil
}

// MailReport sends a battle summary to email.
func (s *battleService) MailReport(ctx context.Context, email string, in ports.BattleLogInput) (*domain.BattleLog, error) {
	if err := validateBattle(in); err != nil {
		return nil, err
	}
	entry := &domain.BattleLog{
		WinnerID:    in.WinnerID,
		LoserID:     in.LoserID,
		TotalRounds: in.TotalRounds,
		CreatedAt:   s.now().UTC(),
	}
	n := ports.Notification{Kind: ports.NotifyBattleLog, To: email, Log: entry}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.log.Error().Err(err).Msg("battle report not delivered")
		return nil, fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}
	return entry, nil
}

func validateBattle(in ports.BattleLogInput) error {
	switch {
	case in.WinnerID <= 0:
		return fmt.Errorf("%w: winner_id must be positive", domain.ErrInvalidInput)
	case in.LoserID <= 0:
		return fmt.Errorf("%w: loser_id must be positive", domain.ErrInvalidInput)
	case in.TotalRounds <= 0:
		return fmt.Errorf("%w: total_rounds must be positive", domain.ErrInvalidInput)
	}
	return nil
}
