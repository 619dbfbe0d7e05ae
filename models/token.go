package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set carried by every issued access token.
// It extends the registered JWT claims with the username and the
// deployment mode the token was issued under.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Username duplicates the user's login so that downstream handlers can
	// log and display it without a user lookup.
	Username string `json:"username"`

	// Mode is the deployment mode ("solo" or "shared") at issue time.
	Mode string `json:"mode"`
}

// Token wraps a parsed or freshly issued access token together with the
// compact serialized form ready for the Authorization header.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// Claims is the decoded claim set of the token.
	Claims AccessClaims `json:"-"`

	// SignedString is the compact JWS representation
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}

// TokenPair is the response payload of a successful login.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         LocalUser `json:"user"`
}
