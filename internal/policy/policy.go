// Package policy decides whether a request actor may change a resource.
package policy

// Actor is the caller of a request as resolved from the identity token.
// UserID is empty until the Clerk id has been matched to a local user.
type Actor struct {
	ClerkID string
	UserID  string
	IsAdmin bool
}

// Resource is anything with a single owning user.
type Resource interface {
	OwnerID() string
}

func (a Actor) Authenticated() bool {
	return a.ClerkID != ""
}

// CanMutate reports whether actor may update or delete r. Admins may change
// anything; everyone else only what they own.
func CanMutate(actor Actor, r Resource) bool {
	if r == nil {
		return false
	}
	if actor.IsAdmin {
		return true
	}
	if actor.UserID == "" {
		return false
	}
	return r.OwnerID() == actor.UserID
}
