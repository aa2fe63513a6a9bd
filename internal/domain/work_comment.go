package domain

// WorkComment is a comment left by a user on a work.
// Both associations are required.
type WorkComment struct {
	Record
	Text   string `json:"text"`
	WorkID string `json:"work_id"`
	UserID string `json:"user_id"` // Comment author
}

// IsAuthoredBy returns true if the comment was written by the given user.
func (c *WorkComment) IsAuthoredBy(userID string) bool {
	return c.UserID == userID
}
