package model

import "time"

// Catalog collections.
const (
	CollectionCourses  = "courses"
	CollectionPrograms = "programs"
)

// CourseFields are the editable course attributes. Prices are kept as
// decimal strings.
type CourseFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Duration    string `json:"duration"`
	Level       string `json:"level"`
	Instructor  string `json:"instructor"`
	PriceEGP    string `json:"priceEgp"`
	PriceUSD    string `json:"priceUsd"`
}

// Course is a single course offering.
type Course struct {
	ID string `json:"id"`
	CourseFields
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CourseInput is the shape accepted when creating a course. Prices arrive as numbers.
type CourseInput struct {
	Title       string
	Description string
	ImageURL    string
	Duration    string
	Level       string
	Instructor  string
	PriceEGP    float64
	PriceUSD    float64
}

// CoursePatch lists the course fields to change.
type CoursePatch struct {
	Title       *string
	Description *string
	ImageURL    *string
	Duration    *string
	Level       *string
	Instructor  *string
	PriceEGP    *float64
	PriceUSD    *float64
}

// ProgramFields are the editable program attributes.
type ProgramFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Duration    string `json:"duration"`
	Skills      string `json:"skills"` // comma separated
}

// Program is a multi-course learning track.
type Program struct {
	ID string `json:"id"`
	ProgramFields
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProgramPatch lists the program fields to change.
type ProgramPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	Skills      *string `json:"skills,omitempty"`
}
