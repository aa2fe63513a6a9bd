package domain

// Work is a text piece authored by a user: a theme, the text itself, and an
// asking price. Works carry a set of tags and receive comments.
type Work struct {
	Record
	Theme  string `json:"theme"`
	Text   string `json:"text"`
	Price  int64  `json:"price"`
	UserID string `json:"user_id"` // Owning user, required

	// TagIDs is the work's tag set, loaded from the work_tags join table.
	TagIDs []string `json:"tag_ids,omitempty"`
}

// IsOwnedBy returns true if the work belongs to the given user.
func (w *Work) IsOwnedBy(userID string) bool {
	return w.UserID == userID
}
