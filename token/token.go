// Package token turns a resolved doorkeeper-jwt configuration into signed
// JWTs. Key material resolution follows the configuration: the application
// secret when use_application_secret is set, otherwise the key file at
// secret_key_path, otherwise the inline secret_key.
package token

import (
	"os"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/maxencehenneron/doorkeeper-jwt/config"
)

const noneAlg = "none"

// Generate signs a token carrying the configured payload and headers.
func Generate(cfg *config.Config) (string, error) {
	if cfg == nil {
		return "", errors.New("cannot generate a token without a configuration", errors.CategoryBadInput).
			WithTextCode("NIL_CONFIG")
	}

	method, err := signingMethod(cfg.SigningMethod())
	if err != nil {
		return "", err
	}

	key, err := signingKey(cfg, method)
	if err != nil {
		return "", err
	}

	t := jwt.NewWithClaims(method, jwt.MapClaims(cfg.TokenPayload()))
	for k, v := range cfg.TokenHeaders() {
		if k == "alg" {
			continue
		}
		t.Header[k] = v
	}

	signed, err := t.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryOperation, "failed to sign token").
			WithTextCode("TOKEN_SIGNING_FAILED").
			WithMetadata(map[string]any{
				"signing_method": method.Alg(),
			})
	}
	return signed, nil
}

// signingMethod resolves the configured JWA name. An empty method means the
// token goes out unsigned.
func signingMethod(name string) (jwt.SigningMethod, error) {
	if name == "" || strings.EqualFold(name, noneAlg) {
		return jwt.SigningMethodNone, nil
	}
	method := jwt.GetSigningMethod(strings.ToUpper(name))
	if method == nil {
		return nil, errors.New("unsupported signing method", errors.CategoryValidation).
			WithTextCode("UNSUPPORTED_SIGNING_METHOD").
			WithMetadata(map[string]any{
				"signing_method": name,
			})
	}
	return method, nil
}

func signingKey(cfg *config.Config, method jwt.SigningMethod) (any, error) {
	if method.Alg() == noneAlg {
		return jwt.UnsafeAllowNoneSignatureType, nil
	}

	if cfg.UseApplicationSecret() {
		app := cfg.Application()
		if app == nil || app.Secret() == "" {
			return nil, errors.New("use_application_secret is set but no application secret is configured", errors.CategoryValidation).
				WithTextCode("APPLICATION_SECRET_MISSING")
		}
		return []byte(app.Secret()), nil
	}

	material, err := keyMaterial(cfg)
	if err != nil {
		return nil, err
	}

	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		return material, nil
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		key, err := jwt.ParseRSAPrivateKeyFromPEM(material)
		if err != nil {
			return nil, parseKeyError(err, method)
		}
		return key, nil
	case *jwt.SigningMethodECDSA:
		key, err := jwt.ParseECPrivateKeyFromPEM(material)
		if err != nil {
			return nil, parseKeyError(err, method)
		}
		return key, nil
	case *jwt.SigningMethodEd25519:
		key, err := jwt.ParseEdPrivateKeyFromPEM(material)
		if err != nil {
			return nil, parseKeyError(err, method)
		}
		return key, nil
	default:
		return material, nil
	}
}

func keyMaterial(cfg *config.Config) ([]byte, error) {
	if path := cfg.SecretKeyPath(); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read secret key file").
				WithTextCode("SECRET_KEY_FILE_FAILED").
				WithMetadata(map[string]any{
					"secret_key_path": path,
				})
		}
		return raw, nil
	}
	if secret := cfg.SecretKey(); secret != "" {
		return []byte(secret), nil
	}
	return nil, errors.New("no secret key configured", errors.CategoryValidation).
		WithTextCode("SECRET_KEY_MISSING")
}

func parseKeyError(err error, method jwt.SigningMethod) error {
	return errors.Wrap(err, errors.CategoryValidation, "failed to parse private key").
		WithTextCode("PRIVATE_KEY_PARSE_FAILED").
		WithMetadata(map[string]any{
			"signing_method": method.Alg(),
		})
}
