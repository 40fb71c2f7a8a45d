// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// RefreshTokenRetention is how long a persisted refresh-token entry stays
	// in the identity's active set, independent of the token's own embedded
	// expiry. Entries older than this never satisfy a rotation.
	RefreshTokenRetention = 7 * 24 * time.Hour

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32

	// MinPasswordLength is the minimum accepted secret length, enforced on
	// signup and again before a reset token is redeemed.
	MinPasswordLength = 6

	// NameMinLength and NameMaxLength bound the identity's display name.
	NameMinLength = 2
	NameMaxLength = 50
)
