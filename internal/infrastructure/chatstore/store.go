// Package chatstore keeps storefront chat history in an embedded Badger database.
package chatstore

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/mead/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Open opens the Badger database described by cfg. An empty directory or
// InMemory opens a volatile store.
func Open(cfg config.MessageStoreConfig, logger *zap.Logger) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory || cfg.Dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithLogger(badgerLogger{logger.Named("badger").Sugar()}).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open message store: %w", err)
	}
	return db, nil
}

// badgerLogger adapts zap to badger.Logger
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...any)   { l.s.Errorf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...any) { l.s.Warnf(format, args...) }
func (l badgerLogger) Infof(format string, args ...any)    { l.s.Infof(format, args...) }
func (l badgerLogger) Debugf(format string, args ...any)   { l.s.Debugf(format, args...) }
