package model

import "time"

// CommunityMetrics is the part of the GitHub community profile this service
// reads. UpdatedAt is nil when the upstream payload has no usable timestamp.
type CommunityMetrics struct {
	UpdatedAt        *time.Time
	HealthPercentage int
	Files            CommunityFiles
}

// CommunityFiles records which community health files are present
type CommunityFiles struct {
	CodeOfConduct       bool
	Contributing        bool
	IssueTemplate       bool
	PullRequestTemplate bool
	License             bool
	Readme              bool
}
