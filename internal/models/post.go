package models

import (
	"encoding/json"
	"time"
)

// displayLength is how many characters of the text String() shows.
const displayLength = 15

// Post is a text entry published by its author, optionally in a group and with an image.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"<-:create;autoCreateTime;index"`
	GroupID   *uint     `json:"group_id" gorm:"index"`
	Group     *Group    `json:"group,omitempty" gorm:"constraint:OnDelete:SET NULL;"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Author    *User     `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	Image     string    `json:"image,omitempty"` // blob store reference
}

// OwnerID reports the author, the only user allowed to edit the post.
func (p *Post) OwnerID() uint {
	return p.AuthorID
}

// MarshalJSON renders the author as its public compact view.
func (p Post) MarshalJSON() ([]byte, error) {
	type post Post
	return json.Marshal(struct {
		post
		Author *UserCompact `json:"author,omitempty"`
	}{post(p), p.Author.compact()})
}

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > displayLength {
		r = r[:displayLength]
	}
	return string(r)
}

// CreatePostRequest defines the request body for creating a new post.
// Image is handled separately as a multipart file.
type CreatePostRequest struct {
	Text    string `json:"text" form:"text"`
	GroupID *uint  `json:"group_id,omitempty" form:"group_id"`
}

// UpdatePostRequest replaces the mutable fields of a post
type UpdatePostRequest struct {
	Text    string `json:"text" form:"text"`
	GroupID *uint  `json:"group_id,omitempty" form:"group_id"`
	// ClearImage drops the current image when no new file is uploaded.
	ClearImage bool `json:"clear_image" form:"clear_image"`
}
