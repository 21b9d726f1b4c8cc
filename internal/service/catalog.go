package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// FormatPrice renders a numeric price the way it is stored, matching the
// string form web clients produce for numbers: the shortest decimal form,
// so 1000 becomes "1000" and 49.5 becomes "49.5", with exponent notation
// at 1e21 and above or below 1e-6 ("1e+21", "5e-7").
func FormatPrice(v float64) string {
	if v == 0 {
		return "0"
	}
	if abs := math.Abs(v); abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

// CourseService manages courses.
type CourseService struct {
	c collection[model.Course]
}

// NewCourseService creates a CourseService.
func NewCourseService(s store.Store, now Clock) *CourseService {
	return &CourseService{c: newCollection[model.Course](s, model.CollectionCourses, now)}
}

// List returns all courses, newest first.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.c.list(ctx, store.Desc(fieldCreatedAt))
}

// Get returns the course with the given id, or nil.
func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	return s.c.get(ctx, id)
}

// Create stores a new course with its prices converted to strings.
func (s *CourseService) Create(ctx context.Context, in model.CourseInput) (*model.Course, error) {
	return s.c.create(ctx, encode(model.CourseFields{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Duration:    in.Duration,
		Level:       in.Level,
		Instructor:  in.Instructor,
		PriceEGP:    FormatPrice(in.PriceEGP),
		PriceUSD:    FormatPrice(in.PriceUSD),
	}))
}

// Update applies the non-nil fields of p. It returns store.ErrNotFound for
// an unknown id.
func (s *CourseService) Update(ctx context.Context, id string, p model.CoursePatch) error {
	patch := store.Document{}
	setString(patch, "title", p.Title)
	setString(patch, "description", p.Description)
	setString(patch, "imageUrl", p.ImageURL)
	setString(patch, "duration", p.Duration)
	setString(patch, "level", p.Level)
	setString(patch, "instructor", p.Instructor)
	if p.PriceEGP != nil {
		patch["priceEgp"] = FormatPrice(*p.PriceEGP)
	}
	if p.PriceUSD != nil {
		patch["priceUsd"] = FormatPrice(*p.PriceUSD)
	}
	return s.c.update(ctx, id, patch)
}

// Delete removes a course. Unknown ids are ignored.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

// ProgramService manages programs.
type ProgramService struct {
	c collection[model.Program]
}

// NewProgramService creates a ProgramService.
func NewProgramService(s store.Store, now Clock) *ProgramService {
	return &ProgramService{c: newCollection[model.Program](s, model.CollectionPrograms, now)}
}

// List returns all programs, newest first.
func (s *ProgramService) List(ctx context.Context) ([]model.Program, error) {
	return s.c.list(ctx, store.Desc(fieldCreatedAt))
}

// Get returns the program with the given id, or nil.
func (s *ProgramService) Get(ctx context.Context, id string) (*model.Program, error) {
	return s.c.get(ctx, id)
}

// Create stores a new program.
func (s *ProgramService) Create(ctx context.Context, in model.ProgramFields) (*model.Program, error) {
	return s.c.create(ctx, encode(in))
}

// Update applies the non-nil fields of p.
func (s *ProgramService) Update(ctx context.Context, id string, p model.ProgramPatch) error {
	return s.c.update(ctx, id, encode(p))
}

// Delete removes a program.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

func setString(doc store.Document, field string, v *string) {
	if v != nil {
		doc[field] = *v
	}
}
