package auth

// Authorize reports whether p may access a resource owned by resourceOwnerID.
// Resources are strictly self-scoped: there is no sharing or delegation.
func Authorize(p Principal, resourceOwnerID string) bool {
	return p.subjectID != "" && p.subjectID == resourceOwnerID
}
