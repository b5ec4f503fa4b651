package domain

import "slices"

// Magazine is the aggregate root for a user-assembled magazine: title,
// introduction, cover, and an ordered list of sections.
type Magazine struct {
	Record
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Introduction  string    `json:"introduction,omitempty"`
	CoverImage    string    `json:"cover_image,omitempty"`
	CoverBlurhash string    `json:"cover_blurhash,omitempty"`
	Sections      []Section `json:"sections"`

	// Version increments on every committed save. Used for optimistic
	// concurrency control: concurrent writers lose with a conflict instead
	// of silently overwriting each other.
	Version int64 `json:"version"`
}

// Section is a titled block within a magazine, owned exclusively by it.
// Legacy single-body sections may have zero paragraphs.
type Section struct {
	ID           string      `json:"id"`
	Heading      string      `json:"heading"`
	Body         string      `json:"body,omitempty"`
	Image        string      `json:"image,omitempty"`
	LayoutHint   string      `json:"layout_hint,omitempty"`
	LayoutType   string      `json:"layout_type,omitempty"`
	Caption      string      `json:"caption,omitempty"`
	DisplayOrder int         `json:"display_order"`
	Paragraphs   []Paragraph `json:"paragraphs,omitempty"`
}

// Paragraph is a subtitle/body/image triple within a section.
// Body text runs 150-300 characters by convention; not enforced.
type Paragraph struct {
	ID           string `json:"id"`
	Subtitle     string `json:"subtitle,omitempty"`
	Body         string `json:"body"`
	Image        string `json:"image,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// NormalizeOrder sorts sections by display order and renumbers them into a
// dense zero-based sequence, then does the same for each section's
// paragraphs. Every mutation path calls this before the magazine is handed
// back, so the dense-ordering invariant holds even if a partial update left
// gaps behind.
func (m *Magazine) NormalizeOrder() {
	slices.SortStableFunc(m.Sections, func(a, b Section) int {
		return a.DisplayOrder - b.DisplayOrder
	})
	for i := range m.Sections {
		m.Sections[i].DisplayOrder = i
		m.Sections[i].normalizeParagraphs()
	}
}

func (s *Section) normalizeParagraphs() {
	slices.SortStableFunc(s.Paragraphs, func(a, b Paragraph) int {
		return a.DisplayOrder - b.DisplayOrder
	})
	for i := range s.Paragraphs {
		s.Paragraphs[i].DisplayOrder = i
	}
}

// SectionByID finds a section by its ID. Returns nil if not found.
func (m *Magazine) SectionByID(id string) *Section {
	for i := range m.Sections {
		if m.Sections[i].ID == id {
			return &m.Sections[i]
		}
	}
	return nil
}

// SectionIndex returns the position of the section with the given ID in the
// current order, or -1 if the section does not exist.
func (m *Magazine) SectionIndex(id string) int {
	for i := range m.Sections {
		if m.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveSection removes the section with the given ID and renumbers the
// remaining sections densely, preserving their relative order.
// Returns true if a section was removed.
func (m *Magazine) RemoveSection(id string) bool {
	idx := m.SectionIndex(id)
	if idx < 0 {
		return false
	}
	m.Sections = append(m.Sections[:idx], m.Sections[idx+1:]...)
	for i := range m.Sections {
		m.Sections[i].DisplayOrder = i
	}
	return true
}

// AppendSection adds a section at the end of the magazine with the next
// display order.
func (m *Magazine) AppendSection(s Section) {
	s.DisplayOrder = len(m.Sections)
	m.Sections = append(m.Sections, s)
}

// IsOwnedBy reports whether the magazine belongs to the given user.
func (m *Magazine) IsOwnedBy(userID string) bool {
	return m.OwnerID == userID
}
