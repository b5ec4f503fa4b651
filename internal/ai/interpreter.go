package ai

import (
	"github.com/glossyapp/glossy-server/internal/domain"
)

// Default display messages per action, used when the payload carries no
// heading to show the user.
var defaultMessages = map[domain.ActionType]string{
	domain.ActionRegenerateSection: "Updated the section",
	domain.ActionAddSection:        "Added a new section",
	domain.ActionDeleteSection:     "Removed a section",
	domain.ActionChangeTone:        "Rewrote the magazine",
	domain.ActionEditMagazine:      "Updated the magazine",
	domain.ActionEditSection:       "Updated the section",
	domain.ActionUnknown:           "No changes were made",
}

// Interpret turns a raw backend reply into a typed directive. It is
// independent of which transport produced the reply. An unknown or missing
// intent yields a no-op directive rather than an error: the backend is
// allowed to answer without requesting a change. Image references in the
// payload pass through untouched; materializing them is the caller's job.
func Interpret(reply *RawReply) *domain.Directive {
	d := &domain.Directive{
		Action:      parseIntent(reply.Intent),
		TargetIndex: reply.SectionIndex,
		Sections:    reply.NewSections,
	}

	// The backend uses updated_magazine and updated_section
	// interchangeably for a single-target field set.
	switch {
	case reply.UpdatedSection != nil:
		d.Section = reply.UpdatedSection
	case reply.UpdatedMagazine != nil:
		d.Section = reply.UpdatedMagazine
	}

	d.Message = displayMessage(d)
	return d
}

// parseIntent maps the backend's intent tag to an action. Anything
// unrecognized collapses to unknown.
func parseIntent(intent string) domain.ActionType {
	switch domain.ActionType(intent) {
	case domain.ActionRegenerateSection,
		domain.ActionAddSection,
		domain.ActionDeleteSection,
		domain.ActionChangeTone,
		domain.ActionEditMagazine,
		domain.ActionEditSection:
		return domain.ActionType(intent)
	default:
		return domain.ActionUnknown
	}
}

// displayMessage derives the user-facing message: the single-target
// payload's heading when present, else a fixed per-action default.
func displayMessage(d *domain.Directive) string {
	if d.Section != nil && d.Section.Heading != nil && *d.Section.Heading != "" {
		return *d.Section.Heading
	}
	return defaultMessages[d.Action]
}
