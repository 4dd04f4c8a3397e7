package models

// Post is a blog entry written by a user. Deleting the author removes it.
type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title  string `json:"title"`
	Body   string `gorm:"type:text" json:"body"`
}

// PostWithAuthor is a post joined with its author's username.
type PostWithAuthor struct {
	ID       uint   `json:"id"`
	UserID   uint   `json:"user_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Username string `json:"username"`
}
