// Package bootstrap wires configuration, signing keys, database, and Redis
// into a ready runtime for the commands under cmd/.
package bootstrap

import (
	"crypto/rsa"
	"fmt"
	"log"
	"os"

	"orbit/internal/cache"
	"orbit/internal/config"
	"orbit/internal/database"
	"orbit/internal/token"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the initialized shared dependencies.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Codec *token.Codec
}

// InitRuntime connects to the database and Redis and builds the token
// codec from the configured signing key.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May leave a nil client if Redis is unreachable; rate limits then
	// fail open.
	cache.InitRedis(cfg.RedisURL)

	codec, err := BuildCodec(cfg)
	if err != nil {
		return nil, err
	}

	return &Runtime{DB: db, Redis: cache.GetClient(), Codec: codec}, nil
}

// BuildCodec loads the configured signing key, or generates an ephemeral
// one outside production. config.Validate already rejects a production
// profile without a key file.
func BuildCodec(cfg *config.Config) (*token.Codec, error) {
	ttl, err := cfg.ParsedTokenTTL()
	if err != nil {
		return nil, err
	}

	var key *rsa.PrivateKey
	if cfg.TokenKeyFile != "" {
		pemBytes, err := os.ReadFile(cfg.TokenKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read TOKEN_KEY_FILE: %w", err)
		}
		key, err = token.LoadPrivateKey(pemBytes)
		if err != nil {
			return nil, err
		}
	} else {
		key, err = token.GenerateDevKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral signing key: %w", err)
		}
		log.Println("WARNING: using an ephemeral signing key; tokens will not survive a restart")
	}

	return token.NewCodec(key, ttl), nil
}
