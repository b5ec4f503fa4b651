package api

import (
	"time"

	"github.com/glossyapp/glossy-server/internal/domain"
)

// === Shared response DTOs ===

// UserResponse contains full user information for the account owner.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Email       string    `json:"email" doc:"User email"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	FirstName   string    `json:"first_name" doc:"First name"`
	LastName    string    `json:"last_name" doc:"Last name"`
	IsRoot      bool      `json:"is_root" doc:"Whether user is the root admin"`
	Tagline     string    `json:"tagline,omitempty" doc:"Profile tagline"`
	AvatarURL   string    `json:"avatar_url,omitempty" doc:"Avatar URL"`
	Interests   []string  `json:"interests,omitempty" doc:"Profile interests"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
	LastLoginAt time.Time `json:"last_login_at" doc:"Last login timestamp"`
}

// ProfileResponse contains the public view of a user. No email, no account
// metadata: only what a profile page shows.
type ProfileResponse struct {
	ID          string   `json:"id" doc:"User ID"`
	DisplayName string   `json:"display_name" doc:"Display name"`
	Tagline     string   `json:"tagline,omitempty" doc:"Profile tagline"`
	AvatarURL   string   `json:"avatar_url,omitempty" doc:"Avatar URL"`
	Interests   []string `json:"interests,omitempty" doc:"Profile interests"`
}

// ParagraphResponse represents one paragraph within a section.
type ParagraphResponse struct {
	ID           string `json:"id" doc:"Paragraph ID"`
	Subtitle     string `json:"subtitle,omitempty" doc:"Paragraph subtitle"`
	Body         string `json:"body" doc:"Paragraph body text"`
	Image        string `json:"image,omitempty" doc:"Paragraph image URL"`
	DisplayOrder int    `json:"display_order" doc:"Zero-based position within the section"`
}

// SectionResponse represents one section of a magazine.
type SectionResponse struct {
	ID           string              `json:"id" doc:"Section ID"`
	Heading      string              `json:"heading" doc:"Section heading"`
	Body         string              `json:"body,omitempty" doc:"Section body text"`
	Image        string              `json:"image,omitempty" doc:"Section image URL"`
	LayoutHint   string              `json:"layout_hint,omitempty" doc:"Layout hint for rendering"`
	LayoutType   string              `json:"layout_type,omitempty" doc:"Layout type for rendering"`
	Caption      string              `json:"caption,omitempty" doc:"Image caption"`
	DisplayOrder int                 `json:"display_order" doc:"Zero-based position within the magazine"`
	Paragraphs   []ParagraphResponse `json:"paragraphs,omitempty" doc:"Ordered paragraphs"`
}

// MagazineResponse represents a full magazine document.
type MagazineResponse struct {
	ID            string            `json:"id" doc:"Magazine ID"`
	OwnerID       string            `json:"owner_id" doc:"Owning user ID"`
	Title         string            `json:"title" doc:"Magazine title"`
	Introduction  string            `json:"introduction,omitempty" doc:"Magazine introduction"`
	CoverImage    string            `json:"cover_image,omitempty" doc:"Cover image URL"`
	CoverBlurhash string            `json:"cover_blurhash,omitempty" doc:"Blurhash placeholder for the cover"`
	Sections      []SectionResponse `json:"sections" doc:"Ordered sections"`
	Version       int64             `json:"version" doc:"Document version, increments on every save"`
	CreatedAt     time.Time         `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt     time.Time         `json:"updated_at" doc:"Last update timestamp"`
}

// MagazineOutput wraps a single magazine for Huma.
type MagazineOutput struct {
	Body MagazineResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Mappers ===

func mapUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsRoot:      u.IsRoot,
		Tagline:     u.Tagline,
		AvatarURL:   u.AvatarPath,
		Interests:   u.Interests,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func mapProfile(u *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Tagline:     u.Tagline,
		AvatarURL:   u.AvatarPath,
		Interests:   u.Interests,
	}
}

func mapUserList(users []*domain.User) *UserListOutput {
	out := &UserListOutput{}
	out.Body.Users = make([]ProfileResponse, len(users))
	for i, u := range users {
		out.Body.Users[i] = mapProfile(u)
	}
	return out
}

func mapMagazine(m *domain.Magazine) MagazineResponse {
	sections := make([]SectionResponse, len(m.Sections))
	for i, sec := range m.Sections {
		paragraphs := make([]ParagraphResponse, len(sec.Paragraphs))
		for j, p := range sec.Paragraphs {
			paragraphs[j] = ParagraphResponse{
				ID:           p.ID,
				Subtitle:     p.Subtitle,
				Body:         p.Body,
				Image:        p.Image,
				DisplayOrder: p.DisplayOrder,
			}
		}
		sections[i] = SectionResponse{
			ID:           sec.ID,
			Heading:      sec.Heading,
			Body:         sec.Body,
			Image:        sec.Image,
			LayoutHint:   sec.LayoutHint,
			LayoutType:   sec.LayoutType,
			Caption:      sec.Caption,
			DisplayOrder: sec.DisplayOrder,
			Paragraphs:   paragraphs,
		}
	}

	return MagazineResponse{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Title:         m.Title,
		Introduction:  m.Introduction,
		CoverImage:    m.CoverImage,
		CoverBlurhash: m.CoverBlurhash,
		Sections:      sections,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
