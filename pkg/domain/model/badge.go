package model

import "github.com/m-mizutani/freshness/pkg/domain/types"

const (
	BadgeSchemaVersion = 1
	BadgeLabel         = "⏱"
	BadgeLabelColor    = "blue"
)

// Badge is a shields.io endpoint badge payload.
// https://shields.io/badges/endpoint-badge
type Badge struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	LabelColor    string `json:"labelColor"`
	Message       string `json:"message"`
}

func NewBadge(message string) *Badge {
	return &Badge{
		SchemaVersion: BadgeSchemaVersion,
		Label:         BadgeLabel,
		LabelColor:    BadgeLabelColor,
		Message:       message,
	}
}

// ErrorResponse is the body returned with any non-200 status
type ErrorResponse struct {
	Error   types.ErrorKind `json:"error"`
	Message string          `json:"message"`
}
