package model

import (
	"time"

	"mattressfit/internal/survey"
)

// SurveySnapshot is an open survey session as kept in Redis. It carries the
// catalog the session was opened with so later catalog edits do not reach it.
type SurveySnapshot struct {
	ID        string           `json:"id"`
	Catalog   []QuestionRecord `json:"catalog"`
	State     survey.State     `json:"state"`
	UserAgent string           `json:"user_agent,omitempty"`
	Referer   string           `json:"referer,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
