package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendRedis, BackendMemory}
}

const (
	storeDirName   = "store"
	sqliteFileName = "taskboard.db"
	redisPingWait  = 3 * time.Second
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Dir         string // board directory; file and sqlite backends live under it
	Quota       int64  // bytes; file and memory backends only
	RedisURL    string
	RedisPrefix string
}

// Open returns the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	logger := log.WithField("backend", opts.Backend)
	switch opts.Backend {
	case BackendFile, "":
		logger.WithField("dir", opts.Dir).Debug("opening file store")
		return NewFileStore(filepath.Join(opts.Dir, storeDirName), opts.Quota)
	case BackendSQLite:
		path := filepath.Join(opts.Dir, sqliteFileName)
		logger.WithField("path", path).Debug("opening sqlite store")
		return NewSQLiteStore(path)
	case BackendRedis:
		ropts, err := ParseRedisOptions(opts.RedisURL)
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(ropts)
		pingCtx, cancel := context.WithTimeout(ctx, redisPingWait)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", ropts.Addr, err)
		}
		logger.WithField("addr", ropts.Addr).Debug("opened redis store")
		return NewRedisStore(client, opts.RedisPrefix), nil
	case BackendMemory:
		return NewMemoryStore(opts.Quota), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// StoreDir returns the directory the file backend writes into for a board
// directory.
func StoreDir(boardDir string) string {
	return filepath.Join(boardDir, storeDirName)
}
