// Package pokeapi is a thin HTTP client for https://pokeapi.co.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

const maxBodySize = 4 << 20

// Config configures the client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.PokemonClient.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client with its own timeout-bound http.Client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Get fetches a single pokemon by name or id.
func (c *Client) Get(ctx context.Context, name string) (*domain.Pokemon, error) {
	body, status, err := c.fetch(ctx, "/pokemon/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, domain.ErrPokemonNotFound
	case status != http.StatusOK:
		return nil, fmt.Errorf("%w: upstream status %d", domain.ErrInvalidPokemon, status)
	}

	var p domain.Pokemon
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: decode pokemon: %v", domain.ErrUpstream, err)
	}
	return &p, nil
}

// List returns the raw upstream listing for the first limit pokemons.
func (c *Client) List(ctx context.Context, limit int) (json.RawMessage, error) {
	body, status, err := c.fetch(ctx, "/pokemon?limit="+strconv.Itoa(limit))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream status %d", domain.ErrUpstream, status)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: upstream returned invalid json", domain.ErrUpstream)
	}
	return json.RawMessage(body), nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err)
	}
	return body, resp.StatusCode, nil
}
