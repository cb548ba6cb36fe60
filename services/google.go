package services

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/auth/credentials/idtoken"
)

type GoogleProfile struct {
	Email string
	Name  string
}

// GoogleVerifier checks a Google Sign-In id token.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleProfile, error)
}

// IDTokenVerifier validates tokens for one OAuth client id.
type IDTokenVerifier struct {
	ClientID string
}

func (v IDTokenVerifier) Verify(ctx context.Context, idToken string) (GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, idToken, v.ClientID)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return GoogleProfile{}, fmt.Errorf("%w: google email not verified", ErrUnauthorized)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return GoogleProfile{}, fmt.Errorf("%w: google token has no email", ErrUnauthorized)
	}
	return GoogleProfile{Email: email, Name: name}, nil
}
