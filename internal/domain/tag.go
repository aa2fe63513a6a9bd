package domain

// Tag is a label users attach to works. Tag names are unique among live tags.
// The works and users carrying a tag live in join tables; both sides of each
// association are maintained together inside one store transaction.
type Tag struct {
	Record
	Name string `json:"name"`
}

// WorkTag represents the many-to-many relationship between works and tags.
type WorkTag struct {
	WorkID string `json:"work_id"`
	TagID  string `json:"tag_id"`
}

// UserTag represents the many-to-many relationship between users and tags.
// A user is attached to the tags they created or follow.
type UserTag struct {
	UserID string `json:"user_id"`
	TagID  string `json:"tag_id"`
}
