package ftp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"path"
	"strconv"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

// Config locates the FTP server. Credentials come with every upload.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// conn is the subset of *ftp.ServerConn the uploader needs.
type conn interface {
	Login(user, password string) error
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

type dialFunc func(ctx context.Context, addr string, timeout time.Duration) (conn, error)

func dialServer(ctx context.Context, addr string, timeout time.Duration) (conn, error) {
	return ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(timeout))
}

// Uploader opens a short-lived FTP connection per upload.
type Uploader struct {
	addr    string
	timeout time.Duration
	dial    dialFunc
	log     zerolog.Logger
}

// NewUploader returns an Uploader for the server described by cfg.
func NewUploader(cfg Config, log zerolog.Logger) *Uploader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Uploader{
		addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		timeout: cfg.Timeout,
		dial:    dialServer,
		log:     log,
	}
}

// Upload stores content as dir/name, creating dir when missing.
func (u *Uploader) Upload(ctx context.Context, creds ports.FTPCredentials, dir, name string, content []byte) error {
	c, err := u.dial(ctx, u.addr, u.timeout)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", domain.ErrUpload, u.addr, err)
	}
	defer func() {
		if err := c.Quit(); err != nil {
			u.log.Debug().Err(err).Msg("ftp quit")
		}
	}()

	if err := c.Login(creds.Username, creds.Password); err != nil {
		return fmt.Errorf("%w: login: %v", domain.ErrUpload, err)
	}

	// MakeDir fails when the directory already exists; Stor reports the
	// real problem if it is missing for another reason.
	if err := c.MakeDir(dir); err != nil {
		u.log.Debug().Err(err).Str("dir", dir).Msg("ftp mkdir")
	}

	target := path.Join(dir, name)
	if err := c.Stor(target, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("%w: store %s: %v", domain.ErrUpload, target, err)
	}

	u.log.Info().Str("path", target).Int("bytes", len(content)).Msg("file uploaded")
	return nil
}
