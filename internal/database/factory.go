package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/database/postgres"
	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
)

// Adapter is a connectable database the seeder can run against.
type Adapter interface {
	seeder.Database
	Connect(ctx context.Context, url string) error
	Close() error
	Count(ctx context.Context, schema, table string) (int64, error)
}

var _ Adapter = (*postgres.Adapter)(nil)

func NewAdapter(provider string) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "postgresql", "postgres":
		return postgres.New(), nil
	default:
		return nil, fmt.Errorf("unsupported database provider %q (only postgresql is supported)", provider)
	}
}
