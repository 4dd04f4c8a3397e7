package models

// Comment represents a comment on a post. It is removed together with
// either its author or its post.
type Comment struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	PostID uint   `gorm:"not null;index" json:"post_id"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post   *Post  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Body   string `gorm:"type:text" json:"body"`
}

// CommentWithAuthor is a comment joined with its author's username.
type CommentWithAuthor struct {
	ID       uint   `json:"id"`
	PostID   uint   `json:"post_id"`
	Body     string `json:"body"`
	Username string `json:"username"`
}
