package service

// Identity is the authenticated caller, as asserted by the identity provider.
// Owner-scoped operations take it explicitly.
type Identity struct {
	UserID string
	Email  string
}

func (i Identity) IsZero() bool {
	return i.UserID == ""
}
