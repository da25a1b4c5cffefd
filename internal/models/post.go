package models

import "time"

// DraftPost is a generated post draft stored in MongoDB.
type DraftPost struct {
	ID         string    `json:"id"          bson:"_id"`
	UserID     string    `json:"user_id"     bson:"user_id"`
	Topic      string    `json:"topic"       bson:"topic"`
	Audience   string    `json:"audience,omitempty" bson:"audience,omitempty"`
	Content    string    `json:"content"     bson:"content"`
	Tags       []string  `json:"tags"        bson:"tags"`
	IsFavorite bool      `json:"is_favorite" bson:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"  bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"  bson:"updated_at"`
}

// GenerateRequest is the JSON body for POST /api/posts/generate and the demo
// generation endpoints.
type GenerateRequest struct {
	Topic    string `json:"topic"`
	Audience string `json:"audience,omitempty"`
}

// DraftPostUpdate is the JSON body for PUT /api/posts/{id}. Both fields are
// independently optional.
type DraftPostUpdate struct {
	Content    *string `json:"content,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}
