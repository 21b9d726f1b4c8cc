// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rpc

import (
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/auth"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
)

type successResponse struct {
	Success bool `json:"success"`
}

var done = successResponse{Success: true}

type healthResponse struct {
	OK        bool  `json:"ok"`
	Timestamp int64 `json:"timestamp"`
}

// api implements the procedures over the entity services.
type api struct {
	svc     *service.Services
	gateway *auth.Gateway
	now     func() time.Time
}

// Procedures returns the full procedure table.
func Procedures(svc *service.Services, gw *auth.Gateway) []*Procedure {
	a := &api{svc: svc, gateway: gw, now: time.Now}

	return []*Procedure{
		NewQuery("system.health", a.health),

		NewQuery("auth.me", a.me),
		NewMutation("auth.login", a.login).Limited(),
		NewMutation("auth.logout", a.logout),

		NewQuery("admin.getPageContent", a.getPageContent),
		NewMutation("admin.updatePageContent", a.updatePageContent).AdminOnly(),

		NewQuery("admin.getCourses", a.getCourses),
		NewQuery("admin.getCourse", a.getCourse),
		NewMutation("admin.createCourse", a.createCourse).AdminOnly(),
		NewMutation("admin.updateCourse", a.updateCourse).AdminOnly(),
		NewMutation("admin.deleteCourse", a.deleteCourse).AdminOnly(),

		NewQuery("admin.getPrograms", a.getPrograms),
		NewQuery("admin.getProgram", a.getProgram),
		NewMutation("admin.createProgram", a.createProgram).AdminOnly(),
		NewMutation("admin.updateProgram", a.updateProgram).AdminOnly(),
		NewMutation("admin.deleteProgram", a.deleteProgram).AdminOnly(),

		NewQuery("admin.getBlogPosts", a.getBlogPosts),
		NewQuery("admin.getBlogPost", a.getBlogPost),
		NewMutation("admin.createBlogPost", a.createBlogPost).AdminOnly(),
		NewMutation("admin.updateBlogPost", a.updateBlogPost).AdminOnly(),
		NewMutation("admin.deleteBlogPost", a.deleteBlogPost).AdminOnly(),

		NewQuery("admin.getJobListings", a.getJobListings),
		NewQuery("admin.getAllJobListings", a.getAllJobListings).AdminOnly(),
		NewMutation("admin.createJobListing", a.createJobListing).AdminOnly(),
		NewMutation("admin.updateJobListing", a.updateJobListing).AdminOnly(),
		NewMutation("admin.deleteJobListing", a.deleteJobListing).AdminOnly(),

		NewQuery("admin.getUsers", a.getUsers).AdminOnly(),

		NewQuery("admin.getApplications", a.getApplications).AdminOnly(),
		NewQuery("admin.getApplication", a.getApplication).AdminOnly(),
		NewMutation("admin.createApplication", a.createApplication).Limited(),
		NewMutation("admin.deleteApplication", a.deleteApplication).AdminOnly(),

		NewQuery("admin.getMessages", a.getMessages).AdminOnly(),
		NewQuery("admin.getMessage", a.getMessage).AdminOnly(),
		NewMutation("admin.createMessage", a.createMessage).Limited(),
		NewMutation("admin.deleteMessage", a.deleteMessage).AdminOnly(),

		NewQuery("admin.getSiteSettings", a.getSiteSettings),
		NewQuery("admin.getSiteSetting", a.getSiteSetting),
		NewMutation("admin.updateSiteSetting", a.updateSiteSetting).AdminOnly(),

		NewQuery("admin.getEvents", a.getEvents).AdminOnly(),
	}
}

func (a *api) health(_ *Call, _ *NoInput) (any, error) {
	return healthResponse{OK: true, Timestamp: a.now().UnixMilli()}, nil
}

// Auth

func (a *api) me(c *Call, _ *NoInput) (any, error) {
	if c.User == nil {
		return nil, nil
	}
	return c.User, nil
}

func (a *api) login(c *Call, in *loginInput) (any, error) {
	return a.gateway.Login(c.Context(), c.Writer, *in.IDToken)
}

func (a *api) logout(c *Call, _ *NoInput) (any, error) {
	a.gateway.Logout(c.Context(), c.Writer, c.Request)
	return done, nil
}

// Page content

func (a *api) getPageContent(c *Call, in *pageKeyInput) (any, error) {
	return nilIfAbsent(a.svc.Pages.Get(c.Context(), *in.PageKey))
}

func (a *api) updatePageContent(c *Call, in *updatePageContentInput) (any, error) {
	if err := a.svc.Pages.Upsert(c.Context(), *in.PageKey, in.PageContentPatch); err != nil {
		return nil, err
	}
	return done, nil
}

// Courses

func (a *api) getCourses(c *Call, _ *NoInput) (any, error) {
	return a.svc.Courses.List(c.Context())
}

func (a *api) getCourse(c *Call, in *idInput) (any, error) {
	return nilIfAbsent(a.svc.Courses.Get(c.Context(), *in.ID))
}

func (a *api) createCourse(c *Call, in *createCourseInput) (any, error) {
	return a.svc.Courses.Create(c.Context(), model.CourseInput{
		Title:       str(in.Title),
		Description: str(in.Description),
		ImageURL:    str(in.ImageURL),
		Duration:    str(in.Duration),
		Level:       str(in.Level),
		Instructor:  str(in.Instructor),
		PriceEGP:    num(in.PriceEGP),
		PriceUSD:    num(in.PriceUSD),
	})
}

func (a *api) updateCourse(c *Call, in *updateCourseInput) (any, error) {
	err := a.svc.Courses.Update(c.Context(), *in.ID, model.CoursePatch{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Duration:    in.Duration,
		Level:       in.Level,
		Instructor:  in.Instructor,
		PriceEGP:    in.PriceEGP,
		PriceUSD:    in.PriceUSD,
	})
	if err != nil {
		return nil, err
	}
	return done, nil
}

func (a *api) deleteCourse(c *Call, in *idInput) (any, error) {
	return deleted(a.svc.Courses.Delete(c.Context(), *in.ID))
}

// Programs

func (a *api) getPrograms(c *Call, _ *NoInput) (any, error) {
	return a.svc.Programs.List(c.Context())
}

func (a *api) getProgram(c *Call, in *idInput) (any, error) {
	return nilIfAbsent(a.svc.Programs.Get(c.Context(), *in.ID))
}

func (a *api) createProgram(c *Call, in *createProgramInput) (any, error) {
	return a.svc.Programs.Create(c.Context(), model.ProgramFields{
		Title:       str(in.Title),
		Description: str(in.Description),
		ImageURL:    str(in.ImageURL),
		Duration:    str(in.Duration),
		Skills:      str(in.Skills),
	})
}

func (a *api) updateProgram(c *Call, in *updateProgramInput) (any, error) {
	if err := a.svc.Programs.Update(c.Context(), *in.ID, in.ProgramPatch); err != nil {
		return nil, err
	}
	return done, nil
}

func (a *api) deleteProgram(c *Call, in *idInput) (any, error) {
	return deleted(a.svc.Programs.Delete(c.Context(), *in.ID))
}

// Blog

func (a *api) getBlogPosts(c *Call, _ *NoInput) (any, error) {
	return a.svc.Blog.List(c.Context())
}

func (a *api) getBlogPost(c *Call, in *idInput) (any, error) {
	return nilIfAbsent(a.svc.Blog.View(c.Context(), *in.ID))
}

func (a *api) createBlogPost(c *Call, in *createBlogPostInput) (any, error) {
	return a.svc.Blog.Create(c.Context(), model.BlogPostFields{
		Title:    str(in.Title),
		Author:   str(in.Author),
		Content:  str(in.Content),
		Summary:  str(in.Summary),
		ImageURL: str(in.ImageURL),
	}, in.PublishedAt)
}

func (a *api) updateBlogPost(c *Call, in *updateBlogPostInput) (any, error) {
	if err := a.svc.Blog.Update(c.Context(), *in.ID, in.BlogPostPatch); err != nil {
		return nil, err
	}
	return done, nil
}

func (a *api) deleteBlogPost(c *Call, in *idInput) (any, error) {
	return deleted(a.svc.Blog.Delete(c.Context(), *in.ID))
}

// Job listings

func (a *api) getJobListings(c *Call, _ *NoInput) (any, error) {
	return a.svc.Jobs.ListActive(c.Context())
}

func (a *api) getAllJobListings(c *Call, _ *NoInput) (any, error) {
	return a.svc.Jobs.List(c.Context())
}

func (a *api) createJobListing(c *Call, in *createJobListingInput) (any, error) {
	return a.svc.Jobs.Create(c.Context(), model.JobListingFields{
		Title:        str(in.Title),
		Location:     str(in.Location),
		Description:  str(in.Description),
		Requirements: str(in.Requirements),
		JobType:      str(in.JobType),
		Salary:       str(in.Salary),
	})
}

func (a *api) updateJobListing(c *Call, in *updateJobListingInput) (any, error) {
	if err := a.svc.Jobs.Update(c.Context(), *in.ID, in.JobListingPatch); err != nil {
		return nil, err
	}
	return done, nil
}

func (a *api) deleteJobListing(c *Call, in *idInput) (any, error) {
	return deleted(a.svc.Jobs.Delete(c.Context(), *in.ID))
}

// Users

func (a *api) getUsers(c *Call, _ *NoInput) (any, error) {
	return a.svc.Users.List(c.Context())
}

// Applications and messages

func (a *api) getApplications(c *Call, _ *NoInput) (any, error) {
	return a.svc.Applications.List(c.Context())
}

func (a *api) getApplication(c *Call, in *idInput) (any, error) {
	return nilIfAbsent(a.svc.Applications.Get(c.Context(), *in.ID))
}

func (a *api) createApplication(c *Call, in *createApplicationInput) (any, error) {
	return a.svc.Applications.Create(c.Context(), model.StudentApplicationFields{
		FullName: str(in.FullName),
		Email:    str(in.Email),
		Phone:    str(in.Phone),
		Message:  str(in.Message),
		CourseID: str(in.CourseID),
	})
}

func (a *api) deleteApplication(c *Call, in *idInput) (any, error) {
	return deleted(a.svc.Applications.Delete(c.Context(), *in.ID))
}

func (a *api) getMessages(c *Call, _ *NoInput) (any, error) {
	return a.svc.Messages.List(c.Context())
}

func (a *api) getMessage(c *Call, in *idInput) (any, error) {
	return nilIfAbsent(a.svc.Messages.Get(c.Context(), *in.ID))
}

func (a *api) createMessage(c *Call, in *createMessageInput) (any, error) {
	return a.svc.Messages.Create(c.Context(), model.ContactMessageFields{
		Name:        str(in.Name),
		Email:       str(in.Email),
		Phone:       str(in.Phone),
		Subject:     str(in.Subject),
		Message:     str(in.Message),
		MessageType: str(in.MessageType),
	})
}

func (a *api) deleteMessage(c *Call, in *idInput) (any, error) {
	return deleted(a.svc.Messages.Delete(c.Context(), *in.ID))
}

// Site settings

func (a *api) getSiteSettings(c *Call, _ *NoInput) (any, error) {
	return a.svc.Settings.All(c.Context())
}

func (a *api) getSiteSetting(c *Call, in *keyInput) (any, error) {
	return nilIfAbsent(a.svc.Settings.Get(c.Context(), *in.Key))
}

func (a *api) updateSiteSetting(c *Call, in *updateSiteSettingInput) (any, error) {
	if err := a.svc.Settings.Set(c.Context(), *in.Key, *in.Value); err != nil {
		return nil, err
	}
	return done, nil
}

// Events

func (a *api) getEvents(c *Call, in *eventsInput) (any, error) {
	limit := 0
	if in.Limit != nil {
		limit = *in.Limit
	}
	return a.svc.Events.ListRecent(c.Context(), limit)
}

// nilIfAbsent keeps a typed nil pointer from encoding as a non-nil interface.
func nilIfAbsent[T any](v *T, err error) (any, error) {
	if err != nil || v == nil {
		return nil, err
	}
	return v, nil
}

func deleted(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return done, nil
}
