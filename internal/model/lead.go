package model

import (
	"time"

	"mattressfit/internal/survey"
)

// LeadMeta is request metadata captured with a submission
type LeadMeta struct {
	UserAgent   string    `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	Referer     string    `json:"referer,omitempty" bson:"referer,omitempty"`
	SessionID   string    `json:"session_id,omitempty" bson:"session_id,omitempty"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}

// LeadRecord is a stored survey response
type LeadRecord struct {
	ID              string                  `json:"id" bson:"_id"`
	Name            string                  `json:"name" bson:"name"`
	Phone           string                  `json:"phone" bson:"phone"`
	City            string                  `json:"city" bson:"city"`
	Answers         map[string]string       `json:"answers" bson:"answers"`
	OtherAnswers    map[string]string       `json:"other_answers,omitempty" bson:"other_answers,omitempty"`
	ResolvedAnswers []survey.ResolvedAnswer `json:"resolved_answers" bson:"resolved_answers"`
	Meta            LeadMeta                `json:"meta" bson:"meta"`
	CreatedAt       time.Time               `json:"created_at" bson:"created_at"`
}

// NewLeadRecord flattens a submitted lead for storage
func NewLeadRecord(lead survey.Lead, meta LeadMeta) *LeadRecord {
	meta.SubmittedAt = lead.SubmittedAt
	return &LeadRecord{
		ID:              lead.ID,
		Name:            lead.Contact.Name,
		Phone:           lead.Contact.Phone,
		City:            lead.Contact.City,
		Answers:         lead.RawAnswers,
		OtherAnswers:    lead.OtherAnswers,
		ResolvedAnswers: lead.ResolvedAnswers,
		Meta:            meta,
		CreatedAt:       time.Now(),
	}
}

// DirectSubmitRequest is the body of POST /api/submit-survey
type DirectSubmitRequest struct {
	UserData     survey.Contact    `json:"userData"`
	Answers      map[string]string `json:"answers"`
	OtherAnswers map[string]string `json:"otherAnswers"`
}

// PaginatedResponse is a page of items, shaped like the admin list endpoints expect
type PaginatedResponse[T any] struct {
	Items       []T  `json:"items"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	PrevPage    *int `json:"prev_page"`
	NextPage    *int `json:"next_page"`
	TotalItems  int  `json:"total_items"`
}

// NewPage builds a page descriptor around items
func NewPage[T any](items []T, page, limit, total int) *PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	var prev, next *int
	if page > 1 {
		p := page - 1
		prev = &p
	}
	if page < totalPages {
		n := page + 1
		next = &n
	}
	return &PaginatedResponse[T]{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		PrevPage:    prev,
		NextPage:    next,
		TotalItems:  total,
	}
}
