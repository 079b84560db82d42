package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/api/metrics"
	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

const defaultCacheTTL = 6000 * time.Second

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

type pokemonService struct {
	client   ports.PokemonClient
	cache    ports.ResponseCache
	uploader ports.FileUploader
	cacheTTL time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewPokemonService returns a PokemonService that caches PokeAPI answers for
// cacheTTL. A nil cache disables caching.
func NewPokemonService(
	client ports.PokemonClient,
	cache ports.ResponseCache,
	uploader ports.FileUploader,
	cacheTTL time.Duration,
	log zerolog.Logger,
) ports.PokemonService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &pokemonService{
		client:   client,
		cache:    cache,
		uploader: uploader,
		cacheTTL: cacheTTL,
		now:      time.Now,
		log:      log,
	}
}

func (s *pokemonService) Get(ctx context.Context, name string) (*domain.Pokemon, error) {
	key := "pokemon:" + strings.ToLower(name)

	var cached domain.Pokemon
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := s.client.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, p)
	return p, nil
}

func (s *pokemonService) List(ctx context.Context, limit int) (json.RawMessage, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}
	key := "pokemons:" + strconv.Itoa(limit)

	var cached json.RawMessage
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	raw, err := s.client.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, raw)
	return raw, nil
}

// Export uploads a markdown card for p to <YYYYMMDD>/<name>.md.
func (s *pokemonService) Export(ctx context.Context, creds ports.FTPCredentials, p *domain.Pokemon) error {
	dir := s.now().Format("20060102")
	name := PokemonFileName(p.Name)
	if err := s.uploader.Upload(ctx, creds, dir, name, []byte(PokemonMarkdown(p))); err != nil {
		s.log.Error().Err(err).Str("pokemon", p.Name).Msg("export failed")
		return err
	}
	return nil
}

// lookup reads through the cache. Cache errors are logged and treated as
// misses so an unavailable redis never breaks the relay.
func (s *pokemonService) lookup(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if found {
		metrics.PokeAPICacheTotal.WithLabelValues("hit").Inc()
		return true
	}
	metrics.PokeAPICacheTotal.WithLabelValues("miss").Inc()
	return false
}

func (s *pokemonService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// PokemonMarkdown renders the exported card.
func PokemonMarkdown(p *domain.Pokemon) string {
	abilities := make([]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		abilities = append(abilities, a.Ability.Name)
	}
	return fmt.Sprintf("# %s\n\n- Height: %d\n- Weight: %d\n- Abilities: %s",
		p.Name, p.Height, p.Weight, strings.Join(abilities, ", "))
}

// PokemonFileName replaces every run of non-word characters with "_".
func PokemonFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_") + ".md"
}
