package models

import (
	"fmt"
	"time"
)

// Album is an album with its full tracklist.
type Album struct {
	ID     int64
	Name   string
	Tracks []Track
}

// Track is one entry of an album tracklist.
type Track struct {
	Number int   // Position on the album; zero when the provider omits it
	SongID int64 // Provider song identifier
	Title  string
}

// Song is a flattened lyrics record. It is written once by the fetcher and read by the indexer.
//
// ExternalID is the lyrics provider's numeric identifier.
type Song struct {
	ExternalID int64  `json:"genius_id"`
	Title      string `json:"title"`
	Lyrics     string `json:"lyrics"`
}

// EmojiEntry is one record of the emoji keyword dataset.
type EmojiEntry struct {
	Codes    string `json:"codes"`
	Char     string `json:"char"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Keywords string `json:"keywords"` // pipe-delimited, e.g. "face | grin"
}

// SynonymType is the only synonym kind hamilmoji creates.
const SynonymType = "synonym"

// Synonym is a regular (multi-way) synonym rule.
type Synonym struct {
	ObjectID string   `json:"objectID"`
	Type     string   `json:"type"`
	Synonyms []string `json:"synonyms"`
}

// Step names a pipeline step recorded in the job journal.
type Step string

const (
	StepFetchLyrics Step = "get-lyrics"
	StepSetupEmoji  Step = "setup-emoji"
	StepIndex       Step = "index"
)

// JobStatus is the terminal state of a journaled step.
type JobStatus string

const (
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is a journal entry for one executed pipeline step.
type Job struct {
	ID         string
	Step       Step
	Status     JobStatus
	Items      int // songs written, synonyms pushed or records indexed
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewJob builds a finished job from the outcome of a step.
func NewJob(step Step, items int, started time.Time, err error) *Job {
	job := &Job{
		Step:       step,
		Status:     JobSucceeded,
		Items:      items,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err != nil {
		job.Status = JobFailed
		job.Error = err.Error()
	}
	return job
}

// Validate checks that the job can be persisted.
func (j *Job) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job ID is required")
	}
	switch j.Step {
	case StepFetchLyrics, StepSetupEmoji, StepIndex:
	default:
		return fmt.Errorf("unknown step %q", j.Step)
	}
	if j.Status != JobSucceeded && j.Status != JobFailed {
		return fmt.Errorf("unknown status %q", j.Status)
	}
	if j.FinishedAt.Before(j.StartedAt) {
		return fmt.Errorf("job finished before it started")
	}
	return nil
}

// Duration is the wall time the step took.
func (j *Job) Duration() time.Duration {
	return j.FinishedAt.Sub(j.StartedAt)
}
