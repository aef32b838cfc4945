package user

// Principal identifies the authenticated caller after token introspection.
type Principal struct {
	UserID string
	Email  string
}
