// Package store provides the key-value backends the board is persisted in.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Store reads and writes string values by key. Get reports found=false for a
// missing key rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

var ErrUnknownBackend = errors.New("unknown storage backend")

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendAzTables = "aztables"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend string

	// Dir is the directory used by the file backend.
	Dir string
	// Path is the database file used by the sqlite backend.
	Path string

	RedisURL    string
	RedisPrefix string

	AzureConnectionString string
	AzureTable            string
	AzurePartition        string
}

// Open returns the configured backend. The returned closer releases any
// connections the backend holds.
func Open(ctx context.Context, opts Options) (Store, io.Closer, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendMemory:
		return NewMemory(), nopCloser{}, nil
	case BackendFile, "":
		s, err := NewFile(opts.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case BackendSQLite:
		s, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendRedis:
		s, err := OpenRedis(opts.RedisURL, opts.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendAzTables:
		s, err := OpenTable(ctx, opts.AzureConnectionString, opts.AzureTable, opts.AzurePartition)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
