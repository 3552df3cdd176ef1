package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hoangnqjl/MaroMart/internal/errs"
)

// Identity is the result of verifying a credential.
type Identity struct {
	Subject string
	Role    string
}

// Verifier turns a bearer credential into a subject identity. The REST
// middleware and the realtime gateway both consume this interface; only
// the JWT implementation below knows about tokens.
type Verifier interface {
	Verify(credential string) (Identity, error)
}

// JWTVerifier validates HS256 or RS256 tokens and extracts the subject
// and role claims.
type JWTVerifier struct {
	alg    string
	pubKey *rsa.PublicKey
	secret []byte
}

func NewJWTVerifier(alg, secret, pubKeyPath string) (*JWTVerifier, error) {
	v := &JWTVerifier{alg: alg}
	switch alg {
	case "RS256":
		b, err := os.ReadFile(pubKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read public key: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(b)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		v.pubKey = key
	case "HS256":
		if secret == "" {
			return nil, errors.New("hs256 secret required")
		}
		v.secret = []byte(secret)
	default:
		return nil, fmt.Errorf("unsupported jwt alg %q", alg)
	}
	return v, nil
}

func (v *JWTVerifier) Verify(credential string) (Identity, error) {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != v.alg {
			return nil, errors.New("unexpected signing method")
		}
		if v.alg == "RS256" {
			return v.pubKey, nil
		}
		return v.secret, nil
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{v.alg}))
	tok, err := parser.Parse(credential, keyFunc)
	if err != nil || !tok.Valid {
		return Identity{}, errs.ErrInvalidCredential
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errs.ErrInvalidCredential
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		// older tokens carry user_id instead of sub
		sub, _ = claims["user_id"].(string)
	}
	if sub == "" {
		return Identity{}, errs.ErrInvalidCredential
	}
	role, _ := claims["role"].(string)
	return Identity{Subject: sub, Role: role}, nil
}
