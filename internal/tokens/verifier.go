package tokens

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrWrongTokenType reports a token with a valid signature whose type claim
// does not match what the caller required.
var ErrWrongTokenType = errors.New("wrong token type")

// Verifier is the single gate between an inbound credential and protected
// endpoints.
type Verifier struct {
	codec *Codec
}

func NewVerifier(codec *Codec) *Verifier {
	return &Verifier{codec: codec}
}

// Require decodes the token and checks its type tag. The signature is
// verified before the type claim is ever read; a forged token never reaches
// the type check. Decode failures surface as ErrTokenInvalid and type
// mismatches as ErrWrongTokenType.
func (v *Verifier) Require(raw, expectedType string) (jwt.MapClaims, error) {
	claims, err := v.codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	typ, _ := claims["type"].(string)
	if typ != expectedType {
		return nil, fmt.Errorf("%w: %s token required", ErrWrongTokenType, expectedType)
	}
	return claims, nil
}
