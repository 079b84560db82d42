package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/infrastructure/config"
)

func TestRun_FailsFastOnBadMongoURI(t *testing.T) {
	cfg := &config.Config{
		Port:  "0",
		Mongo: config.MongoConfig{URI: "not-a-mongo-uri", Database: "battle_api"},
	}

	if err := run(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected run to fail on an invalid mongo uri")
	}
}
