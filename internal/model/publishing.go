package model

import "time"

// Publishing collections.
const (
	CollectionBlogPosts   = "blogPosts"
	CollectionJobListings = "jobListings"
)

// BlogPostFields are the editable blog post attributes. Content is markdown.
type BlogPostFields struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	Summary  string `json:"summary"`
	ImageURL string `json:"imageUrl"`
}

// BlogPost is an article shown on the blog.
type BlogPost struct {
	ID string `json:"id"`
	BlogPostFields
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BlogPostView is a blog post with its content rendered to sanitized HTML.
type BlogPostView struct {
	BlogPost
	ContentHTML string `json:"contentHtml"`
}

// BlogPostPatch lists the blog post fields to change.
type BlogPostPatch struct {
	Title       *string    `json:"title,omitempty"`
	Author      *string    `json:"author,omitempty"`
	Content     *string    `json:"content,omitempty"`
	Summary     *string    `json:"summary,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// JobListingFields are the editable job listing attributes.
type JobListingFields struct {
	Title        string `json:"title"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	JobType      string `json:"jobType"`
	Salary       string `json:"salary"`
}

// JobListing is an open position shown on the careers page while active.
type JobListing struct {
	ID string `json:"id"`
	JobListingFields
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JobListingPatch lists the job listing fields to change.
type JobListingPatch struct {
	Title        *string `json:"title,omitempty"`
	Location     *string `json:"location,omitempty"`
	Description  *string `json:"description,omitempty"`
	Requirements *string `json:"requirements,omitempty"`
	JobType      *string `json:"jobType,omitempty"`
	Salary       *string `json:"salary,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}
