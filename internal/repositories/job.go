package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/hamilmoji/internal/models"
	"github.com/desertthunder/hamilmoji/internal/shared"
)

// JobRepository stores [models.Job] rows in the sqlite journal.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new JobRepository with the given database connection
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create assigns the job an ID and inserts it.
func (r *JobRepository) Create(job *models.Job) error {
	job.ID = shared.GenerateID()

	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err := r.db.Exec(`
		INSERT INTO jobs (id, step, status, items, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, job.ID, string(job.Step), string(job.Status), job.Items, job.Error, job.StartedAt, job.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// Record satisfies the task engine's recorder hook.
func (r *JobRepository) Record(job *models.Job) error {
	return r.Create(job)
}
