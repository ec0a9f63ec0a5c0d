package models

// Group is a topical community posts may be attached to.
type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Slug        string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

func (g Group) String() string {
	return g.Title
}

// CreateGroupRequest defines the request body for creating a group
type CreateGroupRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
}
