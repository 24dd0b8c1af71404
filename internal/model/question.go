package model

import "time"

// ShowIfLogic is the stored visibility rule of a question
type ShowIfLogic struct {
	QuestionID  string `json:"question_id" bson:"question_id"`   // driver question
	AnswerValue string `json:"answer_value" bson:"answer_value"` // comma-separated allowed values
	Expression  string `json:"expression,omitempty" bson:"expression,omitempty"`
}

// OtherInputConfig is the stored custom-answer follow-up config
type OtherInputConfig struct {
	Enabled     bool   `json:"enabled" bson:"enabled"`
	Label       string `json:"label" bson:"label"`
	Placeholder string `json:"placeholder" bson:"placeholder"`
	Required    bool   `json:"required" bson:"required"`
}

// QuestionRecord is a question as kept in the survey_questions collection
type QuestionRecord struct {
	ID           string            `json:"-" bson:"_id,omitempty"`
	QuestionID   string            `json:"question_id" bson:"question_id"`
	QuestionText string            `json:"question_text" bson:"question_text"`
	QuestionType string            `json:"question_type" bson:"question_type"` // radio, select, text, number (legacy: single, multiple)
	Options      []string          `json:"options" bson:"options"`
	Required     bool              `json:"required" bson:"required"`
	ShowIf       *ShowIfLogic      `json:"show_if_logic,omitempty" bson:"show_if_logic,omitempty"`
	OtherInput   *OtherInputConfig `json:"other_input,omitempty" bson:"other_input,omitempty"`
	OrderIndex   int               `json:"order_index" bson:"order_index"`
	CreatedAt    time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" bson:"updated_at"`
}

// ShowIfInput is the editor's visibility rule
type ShowIfInput struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
	Expression string `json:"expression,omitempty"`
}

// OtherInputSpec is the editor's custom-answer config. Required defaults to true.
type OtherInputSpec struct {
	Enabled     bool   `json:"enabled"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    *bool  `json:"required,omitempty"`
}

// QuestionInput is the question shape the admin editor and the public catalog use.
// Both the nested showIf object and the flat legacy pair are accepted.
type QuestionInput struct {
	ID               string          `json:"id"`
	Question         string          `json:"question"`
	Type             string          `json:"type"`
	Options          []string        `json:"options,omitempty"`
	Required         *bool           `json:"required,omitempty"`
	ShowIf           *ShowIfInput    `json:"showIf,omitempty"`
	ShowIfQuestionID string          `json:"showIfQuestionId,omitempty"`
	ShowIfValue      string          `json:"showIfValue,omitempty"`
	OtherInput       *OtherInputSpec `json:"otherInput,omitempty"`
}

// ReplaceQuestionsRequest is the body of a catalog replace
type ReplaceQuestionsRequest struct {
	Questions []QuestionInput `json:"questions"`
}

// MoveQuestionRequest is the body of a reorder call
type MoveQuestionRequest struct {
	Direction string `json:"direction"` // up, down
}
