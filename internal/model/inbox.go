package model

import "time"

// Write-once submissions from the public site.
const (
	CollectionApplications = "studentApplications"
	CollectionMessages     = "contactMessages"
)

// MessageTypeContact is the default contact message type.
const MessageTypeContact = "contact"

// StudentApplicationFields are submitted by a prospective student.
// CourseID is an informal reference and may be empty.
type StudentApplicationFields struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	CourseID string `json:"courseId"`
}

// StudentApplication is a stored application.
type StudentApplication struct {
	ID string `json:"id"`
	StudentApplicationFields
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactMessageFields are submitted through the contact form.
type ContactMessageFields struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	MessageType string `json:"messageType"`
}

// ContactMessage is a stored contact form submission.
type ContactMessage struct {
	ID string `json:"id"`
	ContactMessageFields
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
