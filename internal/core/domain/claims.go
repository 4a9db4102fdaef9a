package domain

// UserClaims is the trusted identity extracted from an inbound bearer token.
// The token is decoded, not cryptographically verified: verification is the
// API gateway's job, and the decoder is pluggable for deployments without one.
type UserClaims struct {
	ID           string
	Name         string
	Email        string
	IBAN         string
	PhoneNumber  string
	Subscription string
}

// Snapshot builds an account snapshot from the caller's own identity claims.
func (c UserClaims) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:    c.ID,
		IBAN:  c.IBAN,
		Name:  c.Name,
		Email: c.Email,
	}
}
