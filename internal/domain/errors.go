package domain

import "errors"

// lookup
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrTaskNotFound         = errors.New("task not found")
)

// task
var (
	ErrDuplicateTask    = errors.New("task already exists for message")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrEmptyDescription = errors.New("task description cannot be empty")
)

// analyzer
var (
	ErrAnalysisUnavailable = errors.New("task analysis unavailable")
	ErrAnalysisMalformed   = errors.New("task analysis response malformed")
)
