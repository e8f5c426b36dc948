// Package credential abstracts how a supplied account password is checked
// against the stored secret, so the comparison scheme can be swapped without
// touching the account or transaction services.
package credential

import "github.com/cranebank/account-service/internal/utils"

// Verifier reports whether a supplied password matches the stored secret.
type Verifier interface {
	Verify(supplied, stored string) bool
}

// PlaintextVerifier compares passwords by exact match. This mirrors how
// account passwords have historically been stored; prefer BcryptVerifier
// for new deployments.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(supplied, stored string) bool {
	return supplied == stored
}

// BcryptVerifier treats the stored secret as a bcrypt hash.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(supplied, stored string) bool {
	return utils.CheckPassword(supplied, stored)
}

// ForScheme returns the verifier for a PASSWORD_SCHEME setting.
// Unknown values fall back to plaintext, the scheme of the existing data.
func ForScheme(scheme string) Verifier {
	if scheme == "bcrypt" {
		return BcryptVerifier{}
	}
	return PlaintextVerifier{}
}
