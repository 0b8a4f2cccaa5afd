package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra/jwks"
)

type TokenClaims struct {
	Sub      string `json:"sub"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Exp      int64  `json:"exp"`
	Issuer   string `json:"iss,omitempty"`
	Audience string `json:"aud,omitempty"`
}

// TokenVerifier turns a bearer token into claims. Implementations exist for
// local HS256 secrets and remote JWKS key sets.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}

type userKey string

const (
	userIDKey userKey = "user_id"
)

func SignJWT(secret string, claims TokenClaims) (string, error) {
	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, _ := json.Marshal(header)
	payloadJSON, _ := json.Marshal(claims)
	headerEnc := base64.RawURLEncoding.EncodeToString(headerJSON)
	payloadEnc := base64.RawURLEncoding.EncodeToString(payloadJSON)
	data := headerEnc + "." + payloadEnc
	sig := hmacSign(secret, data)
	return data + "." + sig, nil
}

func hmacSign(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func VerifyJWT(secret, token string) (*TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid token")
	}
	expected := hmacSign(secret, parts[0]+"."+parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, errors.New("invalid signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, err
	}
	var claims TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	if claims.Exp != 0 && time.Now().Unix() > claims.Exp {
		return nil, errors.New("token expired")
	}
	return &claims, nil
}

// HSVerifier validates tokens signed with a shared HS256 secret.
type HSVerifier struct {
	Secret string
}

func (v HSVerifier) Verify(_ context.Context, token string) (*TokenClaims, error) {
	return VerifyJWT(v.Secret, token)
}

// JWKSVerifier validates RS256 tokens issued by an external auth provider.
type JWKSVerifier struct {
	Source *jwks.Verifier
}

func (v JWKSVerifier) Verify(ctx context.Context, token string) (*TokenClaims, error) {
	payload, err := v.Source.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	claims := &TokenClaims{}
	claims.Sub, _ = payload["sub"].(string)
	claims.Email, _ = payload["email"].(string)
	claims.Role, _ = payload["role"].(string)
	claims.Issuer, _ = payload["iss"].(string)
	if aud, ok := payload["aud"].(string); ok {
		claims.Audience = aud
	}
	if exp, ok := payload["exp"].(float64); ok {
		claims.Exp = int64(exp)
	}
	if claims.Sub == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// ChainVerifier tries each verifier in order and returns the first success.
func ChainVerifier(verifiers ...TokenVerifier) TokenVerifier {
	return chainVerifier(verifiers)
}

type chainVerifier []TokenVerifier

func (c chainVerifier) Verify(ctx context.Context, token string) (*TokenClaims, error) {
	var lastErr error
	for _, v := range c {
		claims, err := v.Verify(ctx, token)
		if err == nil {
			return claims, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no verifier configured")
	}
	return nil, lastErr
}

func AuthJWT(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization", http.StatusUnauthorized)
				return
			}
			claims, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}
