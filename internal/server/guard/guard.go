// Package guard decides whether a verified identity may act on a resource.
// Predicates are pure; the Authorize helpers turn them into the error kinds
// the rest of the server propagates.
package guard

import (
	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// RequiresAuthentication reports whether a verified identity is present.
func RequiresAuthentication(id models.Identity) bool {
	return id.Authenticated()
}

// CanViewMessage is true for the sender and the recipient only.
func CanViewMessage(id models.Identity, from, to string) bool {
	if !id.Authenticated() {
		return false
	}
	return id.Username == from || id.Username == to
}

// CanMarkRead is true for the recipient only. For a message to oneself the
// single identity is the recipient.
func CanMarkRead(id models.Identity, to string) bool {
	if !id.Authenticated() {
		return false
	}
	return id.Username == to
}

// CanAccessProfile is true when the caller is the target user.
func CanAccessProfile(id models.Identity, target string) bool {
	if !id.Authenticated() {
		return false
	}
	return id.Username == target
}

// Authenticate returns common.ErrorUnauthenticated for a missing identity.
func Authenticate(id models.Identity) error {
	if !RequiresAuthentication(id) {
		return common.ErrorUnauthenticated
	}
	return nil
}

// AuthorizeProfile allows only the target user.
func AuthorizeProfile(id models.Identity, target string) error {
	return decide(id, CanAccessProfile(id, target))
}

// AuthorizeView allows only the parties of m.
func AuthorizeView(id models.Identity, m *models.MessageDetail) error {
	from, to := m.Parties()
	return decide(id, CanViewMessage(id, from, to))
}

// AuthorizeMarkRead allows only the recipient of m.
func AuthorizeMarkRead(id models.Identity, m *models.MessageDetail) error {
	_, to := m.Parties()
	return decide(id, CanMarkRead(id, to))
}

func decide(id models.Identity, allowed bool) error {
	if err := Authenticate(id); err != nil {
		return err
	}
	if !allowed {
		return common.ErrorForbidden
	}
	return nil
}
