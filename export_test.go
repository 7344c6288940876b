package authgate

// SessionCount exposes the refresh index to the external test package.
func SessionCount(e *Engine, userID string) int {
	return e.sessions.count(userID)
}
