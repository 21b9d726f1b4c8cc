package service

import (
	"context"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// ApplicationService manages student applications. Applications are write-once.
type ApplicationService struct {
	c collection[model.StudentApplication]
}

// NewApplicationService creates an ApplicationService.
func NewApplicationService(s store.Store, now Clock) *ApplicationService {
	return &ApplicationService{c: newCollection[model.StudentApplication](s, model.CollectionApplications, now)}
}

// List returns all applications, newest first.
func (s *ApplicationService) List(ctx context.Context) ([]model.StudentApplication, error) {
	return s.c.list(ctx, store.Desc(fieldCreatedAt))
}

// Get returns the application with the given id, or nil.
func (s *ApplicationService) Get(ctx context.Context, id string) (*model.StudentApplication, error) {
	return s.c.get(ctx, id)
}

// Create stores an application. The course id is not checked against courses.
func (s *ApplicationService) Create(ctx context.Context, in model.StudentApplicationFields) (*model.StudentApplication, error) {
	return s.c.create(ctx, encode(in))
}

// Delete removes an application.
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

// MessageService manages contact messages. Messages are write-once.
type MessageService struct {
	c collection[model.ContactMessage]
}

// NewMessageService creates a MessageService.
func NewMessageService(s store.Store, now Clock) *MessageService {
	return &MessageService{c: newCollection[model.ContactMessage](s, model.CollectionMessages, now)}
}

// List returns all messages, newest first.
func (s *MessageService) List(ctx context.Context) ([]model.ContactMessage, error) {
	return s.c.list(ctx, store.Desc(fieldCreatedAt))
}

// Get returns the message with the given id, or nil.
func (s *MessageService) Get(ctx context.Context, id string) (*model.ContactMessage, error) {
	return s.c.get(ctx, id)
}

// Create stores a message. An empty type is stored as "contact".
func (s *MessageService) Create(ctx context.Context, in model.ContactMessageFields) (*model.ContactMessage, error) {
	if in.MessageType == "" {
		in.MessageType = model.MessageTypeContact
	}
	return s.c.create(ctx, encode(in))
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}
