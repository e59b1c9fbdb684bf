package follow

// Fixed user-facing messages for failure results. The handler maps them
// back to status codes, so they double as the failure discriminant.
const (
	msgNotAuthenticated = "Not authenticated"
	msgSelfFollow       = "Cannot follow yourself"
	msgFollowFailed     = "Failed to follow user"
)
