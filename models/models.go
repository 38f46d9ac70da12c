package models

import "time"

// Post model with key fields of a blog post
type Post struct {
	Id        int64     `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
