package domain

import "github.com/glossyapp/glossy-server/internal/id"

// Apply applies a directive to a magazine in place and reports whether the
// document was structurally changed. It is pure over the aggregate: all
// effects are expressed on the magazine itself, and a directive that cannot
// be applied (out-of-range target, missing payload, unknown action) leaves
// the document untouched and returns false instead of failing. The remote
// backend's target index may describe document state that has since moved
// on; availability wins over strictness here, and the caller decides how
// loudly to report the no-op.
//
// After every call the sections carry a dense, zero-based display order.
func Apply(m *Magazine, d *Directive) bool {
	// Resolve the target index against the current display order before
	// mutating anything.
	m.NormalizeOrder()

	changed := false
	switch resolveAction(d) {
	case ActionRegenerateSection:
		changed = applyRegenerate(m, d)
	case ActionAddSection:
		changed = applyAdd(m, d)
	case ActionDeleteSection:
		changed = applyDelete(m, d)
	case ActionChangeTone:
		changed = applyReplaceAll(m, d)
	case ActionUnknown:
		// No structural change.
	}

	m.NormalizeOrder()
	return changed
}

// resolveAction maps the legacy edit_magazine/edit_section aliases onto the
// four concrete actions by payload shape: a list payload is a full
// replacement, a single payload with a target index is a regenerate, a
// single payload without one is an append, and a bare index is a delete.
func resolveAction(d *Directive) ActionType {
	switch d.Action {
	case ActionRegenerateSection, ActionAddSection, ActionDeleteSection, ActionChangeTone:
		return d.Action
	case ActionEditMagazine, ActionEditSection:
		switch {
		case d.Sections != nil:
			return ActionChangeTone
		case d.Section != nil && d.TargetIndex != nil:
			return ActionRegenerateSection
		case d.Section != nil:
			return ActionAddSection
		case d.TargetIndex != nil:
			return ActionDeleteSection
		}
		return ActionUnknown
	default:
		return ActionUnknown
	}
}

func applyRegenerate(m *Magazine, d *Directive) bool {
	if d.Section == nil {
		return false
	}
	sectionID, ok := resolveTarget(m, d.TargetIndex)
	if !ok {
		return false
	}
	patchSection(m.SectionByID(sectionID), d.Section)
	return true
}

func applyAdd(m *Magazine, d *Directive) bool {
	if d.Section == nil {
		return false
	}
	m.AppendSection(buildSection(*d.Section))
	return true
}

func applyDelete(m *Magazine, d *Directive) bool {
	sectionID, ok := resolveTarget(m, d.TargetIndex)
	if !ok {
		return false
	}
	return m.RemoveSection(sectionID)
}

func applyReplaceAll(m *Magazine, d *Directive) bool {
	if d.Sections == nil {
		return false
	}
	sections := make([]Section, 0, len(d.Sections))
	for _, payload := range d.Sections {
		s := buildSection(payload)
		s.DisplayOrder = len(sections)
		sections = append(sections, s)
	}
	m.Sections = sections
	return true
}

// resolveTarget converts a display-order index into the stable identity of
// the section currently at that position. Mutations then address the
// section by ID, so the position can shift underneath without misdirecting
// the operation.
func resolveTarget(m *Magazine, index *int) (string, bool) {
	if index == nil || *index < 0 || *index >= len(m.Sections) {
		return "", false
	}
	return m.Sections[*index].ID, true
}

// patchSection applies the non-nil payload fields onto the section.
// A non-nil paragraph list replaces the section's paragraphs wholesale.
func patchSection(s *Section, p *SectionPayload) {
	if p.Heading != nil {
		s.Heading = *p.Heading
	}
	if p.Body != nil {
		s.Body = *p.Body
	}
	if p.Image != nil {
		s.Image = *p.Image
	}
	if p.LayoutHint != nil {
		s.LayoutHint = *p.LayoutHint
	}
	if p.LayoutType != nil {
		s.LayoutType = *p.LayoutType
	}
	if p.Caption != nil {
		s.Caption = *p.Caption
	}
	if p.Paragraphs != nil {
		s.Paragraphs = buildParagraphs(p.Paragraphs)
	}
}

// buildSection constructs a fresh section from a payload.
func buildSection(p SectionPayload) Section {
	return Section{
		ID:         id.MustGenerate("sec"),
		Heading:    deref(p.Heading),
		Body:       deref(p.Body),
		Image:      deref(p.Image),
		LayoutHint: deref(p.LayoutHint),
		LayoutType: deref(p.LayoutType),
		Caption:    deref(p.Caption),
		Paragraphs: buildParagraphs(p.Paragraphs),
	}
}

func buildParagraphs(payloads []ParagraphPayload) []Paragraph {
	if payloads == nil {
		return nil
	}
	paragraphs := make([]Paragraph, 0, len(payloads))
	for i, p := range payloads {
		paragraphs = append(paragraphs, Paragraph{
			ID:           id.MustGenerate("par"),
			Subtitle:     p.Subtitle,
			Body:         p.Body,
			Image:        p.Image,
			DisplayOrder: i,
		})
	}
	return paragraphs
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
