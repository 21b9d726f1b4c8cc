// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seed creates the initial site content and bootstraps admins.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
)

// DefaultPages is the content written by Pages for each page key.
func DefaultPages() map[string]model.PageContentPatch {
	return map[string]model.PageContentPatch{
		model.PageHome: {
			Headline:          ptr("Transform Your Future with AI-Powered Education"),
			SubHeadline:       ptr("Join thousands of students mastering cutting-edge technology skills with InfinityX"),
			StudentsTrained:   ptr(5000.0),
			ExpertInstructors: ptr(50.0),
			JobPlacementRate:  ptr(92.0),
			HeroImageURL:      ptr("/assets/hero-banner.jpg"),
			VisionImageURL:    ptr("/assets/vision-learning.jpg"),
		},
		model.PageAbout: {
			AboutCompany: ptr("InfinityX is a leading EdTech platform dedicated to empowering individuals with the skills " +
				"needed to thrive in the digital age. We combine cutting-edge technology with expert instruction " +
				"to deliver world-class education."),
			FounderBio:      ptr("Dr. Ahmed Hassan, Founder & CEO"),
			FounderMessage:  ptr("Our mission is to democratize access to quality tech education and prepare the next generation of innovators."),
			MissionText:     ptr("To provide accessible, high-quality technology education that transforms lives and careers."),
			VisionText:      ptr("To become the world's most trusted platform for technology education and career advancement."),
			BannerImageURL:  ptr("/assets/about-banner.jpg"),
			FounderImageURL: ptr("/assets/founder-portrait.jpg"),
			CompanyImageURL: ptr("/assets/vision-learning.jpg"),
			MissionImageURL: ptr("/assets/mission-education.jpg"),
		},
	}
}

// Pages writes the default home and about content. Pages that already exist
// are left untouched so edits made by admins survive a re-seed. It returns
// the keys that were created.
func Pages(ctx context.Context, pages *service.PageContentService, logger *slog.Logger) ([]string, error) {
	var created []string
	for _, key := range []string{model.PageHome, model.PageAbout} {
		exists, err := pages.Exists(ctx, key)
		if err != nil {
			return created, fmt.Errorf("checking page %s: %w", key, err)
		}
		if exists {
			logger.Info("page content already exists, skipping seed", "page", key)
			continue
		}
		if err := pages.Upsert(ctx, key, DefaultPages()[key]); err != nil {
			return created, fmt.Errorf("seeding page %s: %w", key, err)
		}
		logger.Info("seeded page content", "page", key)
		created = append(created, key)
	}
	return created, nil
}

// Admin promotes openID to admin, creating the user if needed.
func Admin(ctx context.Context, users *service.UserService, openID, name, email string, logger *slog.Logger) (*model.User, error) {
	if openID == "" {
		return nil, errors.New("open id is required")
	}
	user, err := users.Promote(ctx, openID, name, email)
	if err != nil {
		return nil, fmt.Errorf("promoting %s: %w", openID, err)
	}
	logger.Info("admin bootstrapped", "open_id", user.OpenID, "email", user.Email)
	return user, nil
}

func ptr[T any](v T) *T {
	return &v
}
