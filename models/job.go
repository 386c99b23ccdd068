package models

import "encoding/json"

// AttemptOutcome records what happened to one job-creation attempt.
type AttemptOutcome struct {
	Endpoint        string `json:"endpoint"` // attempt description
	URL             string `json:"url"`
	Method          string `json:"method"`
	Status          int    `json:"status,omitempty"`
	ContentType     string `json:"contentType,omitempty"`
	IsJSON          bool   `json:"isJson"`
	ResponsePreview string `json:"responsePreview,omitempty"`
	Error           string `json:"error,omitempty"`
	DurationMS      int64  `json:"durationMs"`
}

// JobDetails echoes the job as reported back by the scheduling system.
type JobDetails struct {
	ID             string  `json:"id"`
	Title          string  `json:"title,omitempty"`
	Code           string  `json:"code,omitempty"`
	Description    string  `json:"description,omitempty"`
	Color          string  `json:"color,omitempty"`
	AssignedGroups []int64 `json:"assignedGroups,omitempty"`
	InstanceIDs    []int64 `json:"instanceIds,omitempty"`
	Address        string  `json:"address,omitempty"`
}

// JobRegistration is the outcome of registering one booking as a job.
type JobRegistration struct {
	Registered bool             `json:"registered"`
	Method     string           `json:"method,omitempty"`   // description of the winning attempt
	Endpoint   string           `json:"endpoint,omitempty"` // URL of the winning attempt
	Status     int              `json:"status,omitempty"`
	JobID      string           `json:"jobId,omitempty"`
	JobDetails *JobDetails      `json:"jobDetails,omitempty"`
	Data       json.RawMessage  `json:"data,omitempty"`
	Attempts   []AttemptOutcome `json:"attempts"`
}
