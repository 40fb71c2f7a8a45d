// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

/*
Package auth implements the credential and authorization core.

It defines the identity entity and the logic for session-token issuance,
rotation, revocation, password recovery, and capability enforcement.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered identity on the Remark platform.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // Explicitly omitted from JSON for security.
	Permissions  Permissions `json:"permissions"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// # Capability Flags

// Capability names accepted by [Permissions.Has] and the authorization gate.
const (
	CapabilityRead   = "read"
	CapabilityWrite  = "write"
	CapabilityDelete = "delete"
)

// Permissions is the fixed set of capability flags attached to an identity.
//
// It is deliberately a struct with three named fields rather than an open map,
// so an unchecked capability name is a compile-time or lookup failure instead
// of a silent no-op.
type Permissions struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Delete bool `json:"delete"`
}

// DefaultPermissions returns the flags assigned to a freshly created identity:
// read-only access.
func DefaultPermissions() Permissions {
	return Permissions{Read: true, Write: false, Delete: false}
}

// Has reports whether the named capability flag is set.
// Unknown capability names are always false.
func (p Permissions) Has(capability string) bool {
	switch capability {
	case CapabilityRead:
		return p.Read
	case CapabilityWrite:
		return p.Write
	case CapabilityDelete:
		return p.Delete
	default:
		return false
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldNewPassword  = "new_password"
	FieldToken        = "token"
	FieldRefreshToken = "refresh_token"
	FieldUser         = "user"
	FieldTokens       = "tokens"
	FieldMessage      = "message"
)
