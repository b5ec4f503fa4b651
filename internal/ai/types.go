// Package ai provides the client for the remote generation backend and the
// interpreter that turns its replies into typed directives.
package ai

import (
	"github.com/glossyapp/glossy-server/internal/domain"
)

// Request actions understood by the generation backend.
const (
	RequestEditMagazine = "edit_magazine"
	RequestEditSection  = "edit_section"
)

// EditRequest is the flat request object sent to the backend. A magazine-level
// request carries the whole document; a section-level request carries the one
// section under edit.
type EditRequest struct {
	Action       string           `json:"action"`
	MagazineID   string           `json:"magazine_id,omitempty"`
	SectionID    string           `json:"section_id,omitempty"`
	MagazineData *domain.Magazine `json:"magazine_data,omitempty"`
	SectionData  *domain.Section  `json:"section_data,omitempty"`
	Message      string           `json:"message"`
}

// RawReply is the backend's reply, identical for both transports. The intent
// names the action; depending on intent the payload is a single field set
// (updated_magazine or updated_section) or a full replacement list.
type RawReply struct {
	Intent          string                  `json:"intent"`
	SectionIndex    *int                    `json:"section_index,omitempty"`
	UpdatedMagazine *domain.SectionPayload  `json:"updated_magazine,omitempty"`
	UpdatedSection  *domain.SectionPayload  `json:"updated_section,omitempty"`
	NewSections     []domain.SectionPayload `json:"new_sections,omitempty"`
}

// jobSubmission wraps an EditRequest for the queue transport's run endpoint.
type jobSubmission struct {
	Input jobInput `json:"input"`
}

type jobInput struct {
	Action string       `json:"action"`
	Data   *EditRequest `json:"data"`
}

// jobStarted is the run endpoint's acknowledgement.
type jobStarted struct {
	ID string `json:"id"`
}

// Terminal job statuses. Anything else keeps the poll loop going.
const (
	jobStatusCompleted = "COMPLETED"
	jobStatusFailed    = "FAILED"
)

// jobStatus is one poll of the status endpoint.
type jobStatus struct {
	Status string    `json:"status"`
	Output *RawReply `json:"output,omitempty"`
	Error  string    `json:"error,omitempty"`
}
