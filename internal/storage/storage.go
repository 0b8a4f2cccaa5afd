// Package storage persists generated assets and hands back the public URL
// recorded on the asset row.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is implemented by all asset storage backends.
type Store interface {
	Write(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// GeneratedObjectKey builds the businessId-scoped object key for a generated
// image. The random suffix keeps concurrent jobs from colliding.
func GeneratedObjectKey(businessID string, now time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s/generated/%d_%s.png", businessID, now.UnixMilli(), suffix)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
