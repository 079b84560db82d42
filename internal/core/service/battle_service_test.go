package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

func TestBattleService_Record(t *testing.T) {
	repo := &stubBattleRepo{}
	svc := NewBattleService(repo, &stubNotifier{}, zerolog.Nop())

	entry, err := svc.Record(context.Background(), "u1", ports.BattleLogInput{WinnerID: 25, LoserID: 1, TotalRounds: 3})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.ID != "battle-1" || entry.UserID != "u1" || entry.CreatedAt.IsZero() {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.inserted))
	}
}

func TestBattleService_Validation(t *testing.T) {
	svc := NewBattleService(&stubBattleRepo{}, &stubNotifier{}, zerolog.Nop())
	inputs := []ports.BattleLogInput{
		{WinnerID: 0, LoserID: 1, TotalRounds: 1},
		{WinnerID: 1, LoserID: -1, TotalRounds: 1},
		{WinnerID: 1, LoserID: 1, TotalRounds: 0},
	}
	for _, in := range inputs {
		if _, err := svc.Record(context.Background(), "u1", in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("Record(%+v): expected ErrInvalidInput, got %v", in, err)
		}
		if _, err := svc.MailReport(context.Background(), "a@example.com", in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("MailReport(%+v): expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestBattleService_MailReport(t *testing.T) {
	notifier := &stubNotifier{}
	svc := NewBattleService(&stubBattleRepo{}, notifier, zerolog.Nop())

	if _, err := svc.MailReport(context.Background(), "ash@example.com", ports.BattleLogInput{WinnerID: 4, LoserID: 7, TotalRounds: 5}); err != nil {
		t.Fatalf("MailReport: %v", err)
	}
	if len(notifier.got) != 1 {
		t.Fatalf("expected one mail, got %d", len(notifier.got))
	}
	n := notifier.got[0]
	if n.Kind != ports.NotifyBattleLog || n.To != "ash@example.com" || n.Log.WinnerID != 4 {
		t.Fatalf("unexpected notification: %+v", n)
	}

	notifier.err = errors.New("smtp down")
	if _, err := svc.MailReport(context.Background(), "ash@example.com", ports.BattleLogInput{WinnerID: 4, LoserID: 7, TotalRounds: 5}); !errors.Is(err, domain.ErrMailDelivery) {
		t.Fatalf("expected ErrMailDelivery, got %v", err)
	}
}
