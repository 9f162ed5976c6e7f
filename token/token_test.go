package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maxencehenneron/doorkeeper-jwt/config"
)

func buildConfig(t *testing.T, seq func(*config.Builder)) *config.Config {
	t.Helper()
	cfg, err := config.Build(seq)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return cfg
}

func TestGenerateHS256RoundTrip(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SecretKey("abc123")
		b.SigningMethod("HS256")
		b.TokenPayload(map[string]any{"sub": "user-1"})
	})

	signed, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(tok *jwt.Token) (any, error) {
		return []byte("abc123"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("failed to parse generated token: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["sub"] != "user-1" {
		t.Fatalf("unexpected claims: %#v", parsed.Claims)
	}
}

func TestGenerateLowercaseMethodName(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SecretKey("abc123")
		b.SigningMethod("hs256")
	})

	signed, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(signed, jwt.MapClaims{})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if parsed.Header["alg"] != "HS256" {
		t.Fatalf("expected method name normalized, got %v", parsed.Header["alg"])
	}
}

func TestGenerateUnsignedByDefault(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.TokenPayload(map[string]any{"sub": "user-1"})
	})

	signed, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(signed, jwt.MapClaims{})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if parsed.Header["alg"] != "none" {
		t.Fatalf("expected unsigned token, got alg %v", parsed.Header["alg"])
	}
}

func TestGenerateNoneMethod(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SigningMethod("none")
	})

	signed, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(signed, jwt.MapClaims{})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if parsed.Header["alg"] != "none" {
		t.Fatalf("expected alg none, got %v", parsed.Header["alg"])
	}
}

func TestGenerateUsesApplicationSecret(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SigningMethod("HS256")
		b.UseApplicationSecret(true)
		b.Application(func(a *config.ApplicationBuilder) {
			a.Secret("app-secret")
		})
	})

	signed, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := jwt.Parse(signed, func(tok *jwt.Token) (any, error) {
		return []byte("app-secret"), nil
	}); err != nil {
		t.Fatalf("expected token signed with the application secret: %v", err)
	}
}

func TestGenerateApplicationSecretMissing(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SigningMethod("HS256")
		b.UseApplicationSecret(true)
	})

	if _, err := Generate(cfg); err == nil {
		t.Fatalf("expected error when application secret is missing")
	}
}

func TestGenerateSecretKeyMissing(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SigningMethod("HS256")
	})

	if _, err := Generate(cfg); err == nil {
		t.Fatalf("expected error when no secret key is configured")
	}
}

func TestGenerateUnsupportedMethod(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SecretKey("abc123")
		b.SigningMethod("BOGUS")
	})

	if _, err := Generate(cfg); err == nil {
		t.Fatalf("expected error for unsupported signing method")
	}
}

func TestGenerateSecretKeyPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")
	if err := os.WriteFile(path, []byte("file-secret"), 0o600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	cfg := buildConfig(t, func(b *config.Builder) {
		b.SecretKeyPath(path)
		b.SigningMethod("HS256")
	})

	signed, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := jwt.Parse(signed, func(tok *jwt.Token) (any, error) {
		return []byte("file-secret"), nil
	}); err != nil {
		t.Fatalf("expected token signed with the file contents: %v", err)
	}
}

func TestGenerateSecretKeyPathMissingFile(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SecretKeyPath(filepath.Join(t.TempDir(), "nope.key"))
		b.SigningMethod("HS256")
	})

	if _, err := Generate(cfg); err == nil {
		t.Fatalf("expected error for unreadable key file")
	}
}

func TestGenerateRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate rsa key: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	cfg := buildConfig(t, func(b *config.Builder) {
		b.SecretKey(string(pemKey))
		b.SigningMethod("RS256")
		b.TokenPayload(map[string]any{"sub": "user-1"})
	})

	signed, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(tok *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		t.Fatalf("failed to verify RS256 token: %v", err)
	}
	if claims := parsed.Claims.(jwt.MapClaims); claims["sub"] != "user-1" {
		t.Fatalf("unexpected claims: %#v", parsed.Claims)
	}
}

func TestGenerateRS256InvalidKey(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SecretKey("not-a-pem-key")
		b.SigningMethod("RS256")
	})

	if _, err := Generate(cfg); err == nil {
		t.Fatalf("expected error parsing invalid private key")
	}
}

func TestGenerateMergesHeaders(t *testing.T) {
	cfg := buildConfig(t, func(b *config.Builder) {
		b.SecretKey("abc123")
		b.SigningMethod("HS256")
		b.TokenHeaders(map[string]any{"kid": "key-1", "alg": "spoofed"})
	})

	signed, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(signed, jwt.MapClaims{})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if parsed.Header["kid"] != "key-1" {
		t.Fatalf("expected kid header merged, got %#v", parsed.Header)
	}
	if parsed.Header["alg"] != "HS256" {
		t.Fatalf("expected alg protected from header override, got %v", parsed.Header["alg"])
	}
}

func TestGenerateNilConfig(t *testing.T) {
	if _, err := Generate(nil); err == nil {
		t.Fatalf("expected error for nil configuration")
	}
}
