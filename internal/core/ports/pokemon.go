package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// PokemonClient fetches data from PokeAPI.
type PokemonClient interface {
	// Get returns domain.ErrPokemonNotFound for unknown names and
	// domain.ErrInvalidPokemon for any other non-200 upstream answer.
	Get(ctx context.Context, name string) (*domain.Pokemon, error)
	List(ctx context.Context, limit int) (json.RawMessage, error)
}

// ResponseCache stores JSON-encoded responses with an expiry.
type ResponseCache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// FTPCredentials are supplied per request by the caller.
type FTPCredentials struct {
	Username string
	Password string
}

// FileUploader stores a generated file on a remote server.
type FileUploader interface {
	Upload(ctx context.Context, creds FTPCredentials, dir, name string, content []byte) error
}

// PokemonService relays PokeAPI and exports pokemon cards.
type PokemonService interface {
	Get(ctx context.Context, name string) (*domain.Pokemon, error)
	List(ctx context.Context, limit int) (json.RawMessage, error)
	Export(ctx context.Context, creds FTPCredentials, p *domain.Pokemon) error
}
