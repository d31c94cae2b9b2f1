package entity

import "time"

// Portfolio section entities. Every row is owned by exactly one user;
// ordered collections sort ascending on Position.

// Profile is the hero/about block. One per user, created lazily.
type Profile struct {
	ID         string
	UserID     string
	Name       string
	Greeting   string
	HeroBio    string
	AboutText  string
	AboutPhoto string // object storage URL
	CVLink     string
	UpdatedAt  time.Time
}

// SocialPlatform enumerates the link platforms the themes can render icons for.
var SocialPlatforms = []string{
	"linkedin", "leetcode", "github", "instagram", "twitter", "youtube",
	"facebook", "dribbble", "behance", "medium", "devto", "stackoverflow", "other",
}

type SocialLink struct {
	ID          string
	UserID      string
	Platform    string
	DisplayName string
	URL         string
	Position    int
}

type Expertise struct {
	ID       string
	UserID   string
	Name     string
	Position int
}

type Experience struct {
	ID          string
	UserID      string
	Company     string
	PositionAt  string
	Timeframe   string
	Description string
	Position    int
}

type Education struct {
	ID          string
	UserID      string
	Institution string
	Degree      string
	Timeframe   string
	Description string
	Position    int
}

type Skill struct {
	ID          string
	UserID      string
	Name        string
	Category    string
	IconURL     string
	Description string
	Position    int
}

type Project struct {
	ID          string
	UserID      string
	Title       string
	Category    string
	URL         string
	Description string
	IconURL     string
	Position    int
}

// ContactInfo is the contact block. One per user, created lazily.
type ContactInfo struct {
	ID      string
	UserID  string
	Email   string
	Phone   string
	Heading string
}

// CustomSection is a user-defined section (awards, certifications, ...).
// Slug is unique per user, derived from the title when not supplied.
type CustomSection struct {
	ID             string
	UserID         string
	Title          string
	Slug           string
	Icon           string
	Position       int
	IsVisible      bool
	ShowImage      bool
	ShowLinkButton bool
	ButtonText     string
	CardLayout     string // grid, list, timeline
	Items          []CustomItem
}

type CustomItem struct {
	ID          string
	SectionID   string
	Title       string
	Subtitle    string
	Description string
	Link        string
	IconURL     string
	Position    int
}
