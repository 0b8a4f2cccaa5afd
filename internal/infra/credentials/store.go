package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/sqlinline"
)

// Provider names for stored integration tokens. Environment variables win;
// the store is the fallback source.
const (
	ProviderGemini    = "gemini"
	ProviderHighLevel = "highlevel"
)

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

func (s *Store) SetGeminiAPIKey(ctx context.Context, key string) error {
	return s.SetToken(ctx, ProviderGemini, key, nil)
}

func (s *Store) HighLevelAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderHighLevel)
}

func (s *Store) SetHighLevelAPIKey(ctx context.Context, key string) error {
	return s.SetToken(ctx, ProviderHighLevel, key, nil)
}

// Token returns the stored token for a provider. A provider without a row
// yields an empty string, not an error.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var (
		token      string
		properties []byte
	)
	if err := row.Scan(&token, &properties); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetToken(ctx context.Context, provider, token string, props map[string]any) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%s token is required", provider)
	}
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
