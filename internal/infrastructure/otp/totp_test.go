package otp

import (
	"regexp"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerate_SixDigits(t *testing.T) {
	g, err := NewTOTPGenerator("seed")
	if err != nil {
		t.Fatalf("NewTOTPGenerator: %v", err)
	}
	code, err := g.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !sixDigits.MatchString(code) {
		t.Fatalf("expected 6 digit code, got %q", code)
	}
}

func TestGenerate_StableWithinStep(t *testing.T) {
	base := time.Unix(1_700_000_010, 0)
	now := base
	g, _ := NewTOTPGenerator("seed", WithClock(func() time.Time { return now }))

	first, _ := g.Generate("alice")
	now = base.Add(5 * time.Second)
	second, _ := g.Generate("alice")
	if first != second {
		t.Fatalf("codes differ inside one step: %s vs %s", first, second)
	}

	now = base.Add(time.Hour)
	later, _ := g.Generate("alice")
	if later == first {
		t.Fatalf("expected code to change after an hour of steps")
	}
}

func TestGenerate_MatchesTOTP(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	g, _ := NewTOTPGenerator("seed", WithClock(fixedClock(at)))

	code, err := g.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	ok, err := totp.ValidateCustom(code, g.subjectKey("alice"), at, g.opts)
	if err != nil || !ok {
		t.Fatalf("code %s does not validate against its key: %v", code, err)
	}
}

func TestGenerate_SeedAndSubjectMatter(t *testing.T) {
	at := fixedClock(time.Unix(1_700_000_000, 0))
	a, _ := NewTOTPGenerator("seed-a", WithClock(at))
	b, _ := NewTOTPGenerator("seed-b", WithClock(at))

	if a.subjectKey("alice") == b.subjectKey("alice") {
		t.Fatalf("different seeds must give different keys")
	}
	if a.subjectKey("alice") == a.subjectKey("bob") {
		t.Fatalf("different subjects must give different keys")
	}
}

func TestGenerate_EmptySubject(t *testing.T) {
	g, _ := NewTOTPGenerator("")
	if _, err := g.Generate(""); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
