package domain

// ActionType tags the kind of document mutation the AI backend asked for.
type ActionType string

const (
	// ActionRegenerateSection replaces the content fields of one section in place.
	ActionRegenerateSection ActionType = "regenerate_section"
	// ActionAddSection appends a new section at the end of the magazine.
	ActionAddSection ActionType = "add_section"
	// ActionDeleteSection removes one section and renumbers the rest.
	ActionDeleteSection ActionType = "delete_section"
	// ActionChangeTone replaces the full section list with a new one.
	ActionChangeTone ActionType = "change_tone"
	// ActionEditMagazine is a legacy alias resolved by payload shape.
	ActionEditMagazine ActionType = "edit_magazine"
	// ActionEditSection is a legacy alias resolved by payload shape.
	ActionEditSection ActionType = "edit_section"
	// ActionUnknown is produced for missing or unrecognized intents and
	// applies no structural change.
	ActionUnknown ActionType = "unknown"
)

// ParagraphPayload carries paragraph content from an AI reply.
type ParagraphPayload struct {
	Subtitle string `json:"subtitle,omitempty"`
	Body     string `json:"body"`
	Image    string `json:"image,omitempty"`
}

// SectionPayload carries section content from an AI reply. Scalar fields are
// pointers so a partial reply only touches the fields it names (PATCH
// semantics). A non-nil Paragraphs list replaces the target section's
// paragraphs wholesale.
type SectionPayload struct {
	Heading    *string            `json:"heading,omitempty"`
	Body       *string            `json:"body,omitempty"`
	Image      *string            `json:"image,omitempty"`
	LayoutHint *string            `json:"layout_hint,omitempty"`
	LayoutType *string            `json:"layout_type,omitempty"`
	Caption    *string            `json:"caption,omitempty"`
	Paragraphs []ParagraphPayload `json:"paragraphs,omitempty"`
}

// Directive is the interpreted, typed result of an AI reply: an action tag
// plus its mutation payload. It is transient - produced at the reply
// boundary, consumed by Apply, never persisted.
type Directive struct {
	Action ActionType

	// TargetIndex addresses the section to regenerate or delete. It refers
	// to the magazine's current display order and is resolved to a stable
	// section identity only at the moment of mutation.
	TargetIndex *int

	// Section is the single-target payload (updated_magazine/updated_section).
	Section *SectionPayload

	// Sections is the full replacement list (new_sections). Non-nil but
	// empty means "replace with nothing".
	Sections []SectionPayload

	// Message is the human-readable summary shown to the user.
	Message string
}

// ImageRefs returns pointers to every image reference in the directive's
// payload so the caller can rewrite external URLs to stored ones before the
// directive is applied.
func (d *Directive) ImageRefs() []*string {
	var refs []*string
	collect := func(p *SectionPayload) {
		if p.Image != nil && *p.Image != "" {
			refs = append(refs, p.Image)
		}
		for i := range p.Paragraphs {
			if p.Paragraphs[i].Image != "" {
				refs = append(refs, &p.Paragraphs[i].Image)
			}
		}
	}
	if d.Section != nil {
		collect(d.Section)
	}
	for i := range d.Sections {
		collect(&d.Sections[i])
	}
	return refs
}
