package model

import "time"

// ContentItem is one key of editable site content
type ContentItem struct {
	ID        string    `json:"-" bson:"_id,omitempty"`
	Key       string    `json:"key" bson:"key"`
	Value     any       `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// ContentPatch is the body of a single-field content update
type ContentPatch struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Stats is the admin dashboard summary
type Stats struct {
	ContentItems    int64     `json:"content_items"`
	SurveyQuestions int64     `json:"survey_questions"`
	SurveyResponses int64     `json:"survey_responses"`
	LastUpdated     time.Time `json:"last_updated"`
}
