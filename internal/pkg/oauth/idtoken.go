package oauth

import (
	"context"
	"fmt"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/inout-app/inout-backend-go/internal/domain/auth"
)

// IDTokenVerifier checks Google ID tokens sent by the mobile app.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (auth.GoogleIdentity, error)
}

type googleIDTokenVerifier struct {
	audiences []string
	verifier  googleAuthIDTokenVerifier.Verifier
}

// NewIDTokenVerifier accepts tokens issued for any of the given client ids
// (web client id plus the Android client id).
func NewIDTokenVerifier(audiences []string) IDTokenVerifier {
	return &googleIDTokenVerifier{
		audiences: audiences,
		verifier:  googleAuthIDTokenVerifier.Verifier{},
	}
}

func (g *googleIDTokenVerifier) Verify(ctx context.Context, idToken string) (auth.GoogleIdentity, error) {
	if err := ctx.Err(); err != nil {
		return auth.GoogleIdentity{}, err
	}

	if err := g.verifier.VerifyIDToken(idToken, g.audiences); err != nil {
		return auth.GoogleIdentity{}, fmt.Errorf("%w: %v", auth.ErrInvalidIDToken, err)
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return auth.GoogleIdentity{}, fmt.Errorf("%w: %v", auth.ErrInvalidIDToken, err)
	}

	return auth.GoogleIdentity{
		Subject:       claimSet.Sub,
		Email:         claimSet.Email,
		EmailVerified: claimSet.EmailVerified,
		Name:          claimSet.Name,
		Picture:       claimSet.Picture,
	}, nil
}
