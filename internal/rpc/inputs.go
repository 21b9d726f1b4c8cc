package rpc

import (
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

// Input schemas. Pointer fields distinguish an absent value from an empty
// one; "required" only checks presence.

type idInput struct {
	ID *string `json:"id" validate:"required"`
}

type pageKeyInput struct {
	PageKey *string `json:"pageKey" validate:"required"`
}

type keyInput struct {
	Key *string `json:"key" validate:"required"`
}

type loginInput struct {
	IDToken *string `json:"idToken" validate:"required,min=1"`
}

type eventsInput struct {
	Limit *int `json:"limit" validate:"omitempty,min=1,max=1000"`
}

type updatePageContentInput struct {
	PageKey *string `json:"pageKey" validate:"required"`
	model.PageContentPatch
}

type createCourseInput struct {
	Title       *string  `json:"title" validate:"required"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Duration    *string  `json:"duration"`
	Level       *string  `json:"level"`
	Instructor  *string  `json:"instructor"`
	PriceEGP    *float64 `json:"priceEgp"`
	PriceUSD    *float64 `json:"priceUsd"`
}

type updateCourseInput struct {
	ID          *string  `json:"id" validate:"required"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Duration    *string  `json:"duration"`
	Level       *string  `json:"level"`
	Instructor  *string  `json:"instructor"`
	PriceEGP    *float64 `json:"priceEgp"`
	PriceUSD    *float64 `json:"priceUsd"`
}

type createProgramInput struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	Duration    *string `json:"duration"`
	Skills      *string `json:"skills"`
}

type updateProgramInput struct {
	ID *string `json:"id" validate:"required"`
	model.ProgramPatch
}

type createBlogPostInput struct {
	Title       *string    `json:"title" validate:"required"`
	Author      *string    `json:"author" validate:"required"`
	Content     *string    `json:"content" validate:"required"`
	Summary     *string    `json:"summary"`
	ImageURL    *string    `json:"imageUrl"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type updateBlogPostInput struct {
	ID *string `json:"id" validate:"required"`
	model.BlogPostPatch
}

type createJobListingInput struct {
	Title        *string `json:"title" validate:"required"`
	Location     *string `json:"location" validate:"required"`
	Description  *string `json:"description" validate:"required"`
	Requirements *string `json:"requirements"`
	JobType      *string `json:"jobType"`
	Salary       *string `json:"salary"`
}

type updateJobListingInput struct {
	ID *string `json:"id" validate:"required"`
	model.JobListingPatch
}

type createApplicationInput struct {
	FullName *string `json:"fullName" validate:"required"`
	Email    *string `json:"email" validate:"required"`
	Phone    *string `json:"phone"`
	Message  *string `json:"message"`
	CourseID *string `json:"courseId"`
}

type createMessageInput struct {
	Name        *string `json:"name" validate:"required"`
	Email       *string `json:"email" validate:"required"`
	Phone       *string `json:"phone"`
	Subject     *string `json:"subject"`
	Message     *string `json:"message" validate:"required"`
	MessageType *string `json:"messageType"`
}

type updateSiteSettingInput struct {
	Key   *string `json:"key" validate:"required"`
	Value *string `json:"value" validate:"required"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
