package domain

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrVersionConflict    = errors.New("task version conflict")
)
