// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Collections addressed by a secondary key.
const (
	CollectionPageContent  = "pageContent"
	CollectionSiteSettings = "siteSettings"
)

// Well-known page keys.
const (
	PageHome    = "home"
	PageAbout   = "about"
	PageCourses = "courses"
)

// PageContent holds the editable copy and imagery of a public page.
type PageContent struct {
	ID                string    `json:"id"`
	PageKey           string    `json:"pageKey"`
	Headline          string    `json:"headline"`
	SubHeadline       string    `json:"subHeadline"`
	MissionText       string    `json:"missionText"`
	VisionText        string    `json:"visionText"`
	StudentsTrained   float64   `json:"studentsTrained"`
	ExpertInstructors float64   `json:"expertInstructors"`
	JobPlacementRate  float64   `json:"jobPlacementRate"`
	HeroImageURL      string    `json:"heroImageUrl"`
	BannerImageURL    string    `json:"bannerImageUrl"`
	FounderImageURL   string    `json:"founderImageUrl"`
	CompanyImageURL   string    `json:"companyImageUrl"`
	MissionImageURL   string    `json:"missionImageUrl"`
	VisionImageURL    string    `json:"visionImageUrl"`
	FounderBio        string    `json:"founderBio"`
	FounderMessage    string    `json:"founderMessage"`
	AboutCompany      string    `json:"aboutCompany"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// PageContentPatch lists the page fields to change. Nil fields are left alone.
type PageContentPatch struct {
	Headline          *string  `json:"headline,omitempty"`
	SubHeadline       *string  `json:"subHeadline,omitempty"`
	MissionText       *string  `json:"missionText,omitempty"`
	VisionText        *string  `json:"visionText,omitempty"`
	StudentsTrained   *float64 `json:"studentsTrained,omitempty"`
	ExpertInstructors *float64 `json:"expertInstructors,omitempty"`
	JobPlacementRate  *float64 `json:"jobPlacementRate,omitempty"`
	HeroImageURL      *string  `json:"heroImageUrl,omitempty"`
	BannerImageURL    *string  `json:"bannerImageUrl,omitempty"`
	FounderImageURL   *string  `json:"founderImageUrl,omitempty"`
	CompanyImageURL   *string  `json:"companyImageUrl,omitempty"`
	MissionImageURL   *string  `json:"missionImageUrl,omitempty"`
	VisionImageURL    *string  `json:"visionImageUrl,omitempty"`
	FounderBio        *string  `json:"founderBio,omitempty"`
	FounderMessage    *string  `json:"founderMessage,omitempty"`
	AboutCompany      *string  `json:"aboutCompany,omitempty"`
}

// SiteSetting is a single key/value configuration entry edited by admins.
type SiteSetting struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
