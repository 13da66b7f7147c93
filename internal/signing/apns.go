// Package signing produces the signed tokens that prove possession of a
// provider's private key: ES256 JWTs for APNs and RS256 OAuth assertions
// for FCM.
package signing

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/pem"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/betomoedano/quick-push/pkg/push"
)

// ParseP8Key parses the contents of an Apple .p8 key file into a P-256
// signing key. Accepts both PEM-wrapped and raw DER input.
func ParseP8Key(data []byte) (*ecdsa.PrivateKey, error) {
	der := data
	if block, _ := pem.Decode(data); block != nil {
		der = block.Bytes
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, push.NewInvalidKeyMaterial("invalid .p8 key file", err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, push.NewInvalidKeyMaterial("p8 file does not contain an EC private key", nil)
	}
	if key.Curve != elliptic.P256() {
		return nil, push.NewInvalidKeyMaterial("p8 key is not a P-256 key", nil)
	}
	return key, nil
}

// SignAPNsToken builds the APNs provider token: header {alg: ES256, kid,
// typ: JWT}, claims {iss: teamID, iat: now}, signed ECDSA-SHA256.
func SignAPNsToken(teamID, keyID string, key *ecdsa.PrivateKey, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:   teamID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = keyID
	signed, err := token.SignedString(key)
	if err != nil {
		return "", push.NewInvalidKeyMaterial("failed to sign APNs JWT", err)
	}
	return signed, nil
}
