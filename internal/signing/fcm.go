package signing

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/betomoedano/quick-push/pkg/push"
)

// OAuthTokenURL is both the token-exchange endpoint and the audience of the
// signed assertion.
const OAuthTokenURL = "https://oauth2.googleapis.com/token"

// FirebaseMessagingScope is the OAuth scope requested for FCM v1 sends.
const FirebaseMessagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// ServiceAccount is the subset of a Firebase service-account JSON file this
// tool needs. Unknown fields are ignored.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// ParseServiceAccount decodes service-account JSON and rejects files that
// are not service-account keys (notably google-services.json client configs,
// which carry no private key).
func ParseServiceAccount(data []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, push.NewInvalidKeyMaterial("service account is not valid JSON", err)
	}
	if sa.PrivateKey == "" {
		return nil, push.NewInvalidKeyMaterial(
			"this looks like a client config (google-services.json), not a service account key; "+
				"generate one under Firebase Console > Project Settings > Service Accounts", nil)
	}
	return &sa, nil
}

// ParseRSAPrivateKey loads the PEM-encoded RSA key from a service account.
// Google ships PKCS#8; PKCS#1 ("RSA PRIVATE KEY") blocks are accepted too.
// When the PKCS#8 parser rejects the DER, the manual PKCS#1 extraction walk
// is tried before giving up.
func ParseRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, push.NewInvalidKeyMaterial("private key is not PEM encoded", nil)
	}
	if block.Type == "RSA PRIVATE KEY" {
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, push.NewInvalidKeyMaterial("invalid PKCS#1 private key", err)
		}
		return key, nil
	}
	if parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, push.NewInvalidKeyMaterial("service account key is not an RSA key", nil)
		}
		return key, nil
	}
	pkcs1, err := ExtractPKCS1FromPKCS8(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, err := x509.ParsePKCS1PrivateKey(pkcs1)
	if err != nil {
		return nil, push.NewInvalidKeyMaterial("invalid RSA private key", err)
	}
	return key, nil
}

// ExtractPKCS1FromPKCS8 strips the PKCS#8 AlgorithmIdentifier wrapper and
// returns the inner PKCS#1 RSAPrivateKey bytes.
//
// PKCS#8 DER layout:
//
//	SEQUENCE {
//	  INTEGER (version = 0)
//	  SEQUENCE { OID(rsaEncryption), NULL }
//	  OCTET STRING { <PKCS#1 RSAPrivateKey> }
//	}
func ExtractPKCS1FromPKCS8(der []byte) ([]byte, error) {
	idx := 0
	errMalformed := push.NewInvalidKeyMaterial("malformed PKCS#8 DER", nil)

	// readLength consumes a DER length field and returns the content length.
	readLength := func() (int, error) {
		if idx >= len(der) {
			return 0, errMalformed
		}
		if der[idx]&0x80 == 0 {
			n := int(der[idx])
			idx++
			return n, nil
		}
		numBytes := int(der[idx] & 0x7F)
		idx++
		if idx+numBytes > len(der) {
			return 0, errMalformed
		}
		n := 0
		for i := 0; i < numBytes; i++ {
			n = n<<8 | int(der[idx])
			idx++
		}
		return n, nil
	}

	expectTag := func(tag byte) error {
		if idx >= len(der) || der[idx] != tag {
			return errMalformed
		}
		idx++
		return nil
	}

	// Outer SEQUENCE.
	if err := expectTag(0x30); err != nil {
		return nil, err
	}
	if _, err := readLength(); err != nil {
		return nil, err
	}

	// Version INTEGER.
	if err := expectTag(0x02); err != nil {
		return nil, err
	}
	verLen, err := readLength()
	if err != nil {
		return nil, err
	}
	if idx+verLen > len(der) {
		return nil, errMalformed
	}
	idx += verLen

	// AlgorithmIdentifier SEQUENCE, skipped whole.
	if err := expectTag(0x30); err != nil {
		return nil, err
	}
	algoLen, err := readLength()
	if err != nil {
		return nil, err
	}
	if idx+algoLen > len(der) {
		return nil, errMalformed
	}
	idx += algoLen

	// OCTET STRING holding the PKCS#1 key.
	if err := expectTag(0x04); err != nil {
		return nil, err
	}
	octetLen, err := readLength()
	if err != nil {
		return nil, err
	}
	if idx+octetLen > len(der) {
		return nil, errMalformed
	}
	return der[idx : idx+octetLen], nil
}

// oauthClaims is the assertion claim set. The shallower Audience field
// shadows the embedded ClaimStrings one so "aud" is emitted as a plain
// string, which is what Google's token endpoint expects.
type oauthClaims struct {
	jwt.RegisteredClaims
	Audience string `json:"aud"`
	Scope    string `json:"scope"`
}

// SignFCMAssertion builds the RS256 JWT assertion that is exchanged for an
// OAuth bearer token: {iss, sub: clientEmail, aud: token URL, scope, iat,
// exp: iat+3600}.
func SignFCMAssertion(clientEmail string, key *rsa.PrivateKey, now time.Time) (string, error) {
	claims := oauthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    clientEmail,
			Subject:   clientEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Audience: OAuthTokenURL,
		Scope:    FirebaseMessagingScope,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", push.NewInvalidKeyMaterial("failed to sign OAuth JWT", err)
	}
	return signed, nil
}
