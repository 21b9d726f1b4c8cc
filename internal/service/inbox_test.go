package service

import (
	"context"
	"testing"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

func TestApplicationService_CourseIDOptional(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	app, err := svc.Applications.Create(ctx, model.StudentApplicationFields{
		FullName: "Sara Ali",
		Email:    "sara@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.CourseID != "" {
		t.Errorf("courseId = %q, want empty", app.CourseID)
	}

	list, err := svc.Applications.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].FullName != "Sara Ali" {
		t.Errorf("List = %+v", list)
	}

	if err := svc.Applications.Delete(ctx, app.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := svc.Applications.Get(ctx, app.ID); got != nil {
		t.Error("application still present after delete")
	}
}

func TestMessageService_DefaultType(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	msg, err := svc.Messages.Create(ctx, model.ContactMessageFields{Name: "Omar", Email: "o@example.com", Message: "Hi"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if msg.MessageType != model.MessageTypeContact {
		t.Errorf("messageType = %q, want %q", msg.MessageType, model.MessageTypeContact)
	}

	typed, err := svc.Messages.Create(ctx, model.ContactMessageFields{Name: "Omar", MessageType: "partnership"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if typed.MessageType != "partnership" {
		t.Errorf("messageType = %q, want partnership", typed.MessageType)
	}

	list, err := svc.Messages.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != typed.ID {
		t.Errorf("List should return newest first, got %d items", len(list))
	}
}
