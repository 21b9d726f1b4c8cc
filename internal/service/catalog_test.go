package service

import (
	"context"
	"math"
	"testing"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1000, "1000"},
		{49.5, "49.5"},
		{0, "0"},
		{1999.99, "1999.99"},
		{math.Copysign(0, -1), "0"},
		{-15.25, "-15.25"},
		{123456789012345680000, "123456789012345680000"},
		{1e21, "1e+21"},
		{1.5e22, "1.5e+22"},
		{-2e30, "-2e+30"},
		{0.000001, "0.000001"},
		{5e-7, "5e-7"},
		{1.25e-10, "1.25e-10"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCourseService_CreateAndGet(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	created, err := svc.Courses.Create(ctx, model.CourseInput{
		Title:       "AI 101",
		Description: "Intro",
		ImageURL:    "/uploads/ai.png",
		Duration:    "8 weeks",
		Level:       "Beginner",
		Instructor:  "Dr. X",
		PriceEGP:    1000,
		PriceUSD:    20,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create returned empty id")
	}
	if created.PriceEGP != "1000" || created.PriceUSD != "20" {
		t.Errorf("prices = %q/%q, want 1000/20", created.PriceEGP, created.PriceUSD)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v on create", created.CreatedAt, created.UpdatedAt)
	}

	got, err := svc.Courses.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for existing course")
	}
	if got.CourseFields != created.CourseFields {
		t.Errorf("Get fields = %+v, want %+v", got.CourseFields, created.CourseFields)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestCourseService_GetMissing(t *testing.T) {
	svc := setupServices(t, Options{})

	got, err := svc.Courses.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil", got)
	}
}

func TestCourseService_UpdateSingleField(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	created, err := svc.Courses.Create(ctx, model.CourseInput{Title: "AI 101", Level: "Beginner", PriceEGP: 1000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Courses.Update(ctx, created.ID, model.CoursePatch{PriceEGP: ptr(1200.0)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.Courses.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PriceEGP != "1200" {
		t.Errorf("priceEgp = %q, want %q", got.PriceEGP, "1200")
	}
	if got.Title != "AI 101" || got.Level != "Beginner" {
		t.Errorf("untouched fields changed: %+v", got.CourseFields)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updatedAt %v should be after createdAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestCourseService_UpdateMissing(t *testing.T) {
	svc := setupServices(t, Options{})

	err := svc.Courses.Update(context.Background(), "nope", model.CoursePatch{Title: ptr("x")})
	if err == nil {
		t.Fatal("Update of missing course should fail")
	}
}

func TestCourseService_DeleteTwice(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	created, err := svc.Courses.Create(ctx, model.CourseInput{Title: "AI 101"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Courses.Delete(ctx, created.ID); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := svc.Courses.Delete(ctx, created.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if got, _ := svc.Courses.Get(ctx, created.ID); got != nil {
		t.Error("course still present after delete")
	}
}

func TestCourseService_ListNewestFirst(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := svc.Courses.Create(ctx, model.CourseInput{Title: title}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := svc.Courses.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[0].Title != "third" || list[2].Title != "first" {
		t.Errorf("order = %s, %s, %s", list[0].Title, list[1].Title, list[2].Title)
	}
}

func TestProgramService_CRUD(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	created, err := svc.Programs.Create(ctx, model.ProgramFields{
		Title:  "Data Science Track",
		Skills: "Python,SQL",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Programs.Update(ctx, created.ID, model.ProgramPatch{Duration: ptr("6 months")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Programs.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Duration != "6 months" || got.Skills != "Python,SQL" {
		t.Errorf("program = %+v", got.ProgramFields)
	}

	if err := svc.Programs.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := svc.Programs.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("len = %d, want 0", len(list))
	}
}
