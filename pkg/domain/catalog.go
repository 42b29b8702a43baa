package domain

import "time"

// Service is a bookable coaching offer.
type Service struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // minutes
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// BlogAuthor is the embedded author of a blog post.
type BlogAuthor struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// BlogPost is a published article.
type BlogPost struct {
	ID        string     `json:"_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Image     string     `json:"image,omitempty"`
	Author    BlogAuthor `json:"author"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitzero"`
	UpdatedAt time.Time  `json:"updatedAt,omitzero"`
}

// Quote is the inspirational quote shown on the home page.
type Quote struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}
