package jwks

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAudienceMatches(t *testing.T) {
	cases := []struct {
		name string
		aud  any
		want bool
	}{
		{name: "string match", aud: "app-1", want: true},
		{name: "string mismatch", aud: "other", want: false},
		{name: "array match", aud: []any{"other", "app-1"}, want: true},
		{name: "array mismatch", aud: []any{"other"}, want: false},
		{name: "string slice match", aud: []string{"app-1"}, want: true},
		{name: "nil", aud: nil, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := audienceMatches(tc.aud, "app-1"); got != tc.want {
				t.Fatalf("audienceMatches(%v) = %v, want %v", tc.aud, got, tc.want)
			}
		})
	}
}

func TestParseJWTRejectsMalformed(t *testing.T) {
	for _, token := range []string{"", "only-one-part", "a.b", "!!.!!.!!"} {
		if _, _, _, _, err := parseJWT(token); err == nil {
			t.Fatalf("parseJWT(%q) succeeded", token)
		}
	}
}

func signTestToken(t *testing.T, key *rsa.PrivateKey, kid string, claims map[string]any) string {
	t.Helper()
	header := map[string]any{"alg": "RS256", "typ": "JWT", "kid": kid}
	headerJSON, _ := json.Marshal(header)
	claimsJSON, _ := json.Marshal(claims)
	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + base64.RawURLEncoding.EncodeToString(claimsJSON)
	hashed := sha256.Sum256([]byte(signingInput))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hashed[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func serveKeySet(t *testing.T, key *rsa.PrivateKey, kid string) *httptest.Server {
	t.Helper()
	pub := key.Public().(*rsa.PublicKey)
	doc := map[string]any{
		"keys": []map[string]string{{
			"kid": kid,
			"kty": "RSA",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := serveKeySet(t, key, "kid-1")

	v := NewVerifier(srv.URL, "https://issuer.example.com", "app-1")
	token := signTestToken(t, key, "kid-1", map[string]any{
		"iss": "https://issuer.example.com",
		"aud": "app-1",
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	payload, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if payload["sub"] != "user-42" {
		t.Fatalf("sub = %v", payload["sub"])
	}
}

func TestVerifyRejections(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := serveKeySet(t, key, "kid-1")

	base := map[string]any{
		"iss": "https://issuer.example.com",
		"aud": "app-1",
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	cases := []struct {
		name  string
		kid   string
		tweak func(map[string]any)
	}{
		{name: "wrong issuer", kid: "kid-1", tweak: func(c map[string]any) { c["iss"] = "https://evil.example.com" }},
		{name: "wrong audience", kid: "kid-1", tweak: func(c map[string]any) { c["aud"] = "other-app" }},
		{name: "expired", kid: "kid-1", tweak: func(c map[string]any) { c["exp"] = time.Now().Add(-time.Minute).Unix() }},
		{name: "unknown kid", kid: "kid-9", tweak: func(c map[string]any) {}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims := make(map[string]any, len(base))
			for k, val := range base {
				claims[k] = val
			}
			tc.tweak(claims)
			v := NewVerifier(srv.URL, "https://issuer.example.com", "app-1")
			token := signTestToken(t, key, tc.kid, claims)
			if _, err := v.Verify(context.Background(), token); err == nil {
				t.Fatal("Verify succeeded")
			}
		})
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := serveKeySet(t, key, "kid-1")

	v := NewVerifier(srv.URL, "", "")
	token := signTestToken(t, key, "kid-1", map[string]any{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tampered := token[:len(token)-4] + "AAAA"
	if _, err := v.Verify(context.Background(), tampered); err == nil {
		t.Fatal("Verify accepted a tampered signature")
	}
}
