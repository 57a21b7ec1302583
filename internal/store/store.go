package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fundihub/fundihub/internal/marketplace"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound is returned when a requested job or profile does not exist.
var ErrNotFound = errors.New("not found")

const defaultOpenJobsLimit = 25

// Store provides read access to marketplace snapshots: jobs, their quotes and
// provider profiles. The AI layer only ever reads; writes happen elsewhere in
// the marketplace.
type Store struct {
	db *sql.DB
}

func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("missing database dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{db: db}, nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetJob returns the job snapshot for the given id.
func (s *Store) GetJob(ctx context.Context, id string) (*marketplace.JobDetails, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description FROM jobs WHERE id = $1`, id)

	var job marketplace.JobDetails
	if err := row.Scan(&job.ID, &job.Title, &job.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return &job, nil
}

// ListQuotesByJob returns the quotes submitted for a job in submission order.
func (s *Store) ListQuotesByJob(ctx context.Context, jobID string) ([]marketplace.QuoteSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, currency, COALESCE(message, ''),
		        provider_business_name, provider_rating,
		        provider_review_count, provider_years_experience
		 FROM quotes WHERE job_id = $1 ORDER BY created_at, id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list quotes for job %s: %w", jobID, err)
	}
	defer rows.Close()

	quotes := make([]marketplace.QuoteSummary, 0)
	for rows.Next() {
		var q marketplace.QuoteSummary
		if err := rows.Scan(
			&q.ID, &q.Amount, &q.Currency, &q.Message,
			&q.Provider.BusinessName, &q.Provider.Rating,
			&q.Provider.ReviewCount, &q.Provider.YearsExperience,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// GetProviderProfile returns the profile snapshot for the given provider id.
func (s *Store) GetProviderProfile(ctx context.Context, id string) (*marketplace.ProviderProfileSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, business_name, category, specialties, skills, location, COALESCE(bio, '')
		 FROM provider_profiles WHERE id = $1`, id)

	var (
		profile     marketplace.ProviderProfileSummary
		specialties []byte
		skills      []byte
	)
	if err := row.Scan(
		&profile.ID, &profile.BusinessName, &profile.Category,
		&specialties, &skills, &profile.Location, &profile.Bio,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("provider profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get provider profile %s: %w", id, err)
	}

	if err := decodeStringList(specialties, &profile.Specialties); err != nil {
		return nil, fmt.Errorf("decode specialties for profile %s: %w", id, err)
	}
	if err := decodeStringList(skills, &profile.Skills); err != nil {
		return nil, fmt.Errorf("decode skills for profile %s: %w", id, err)
	}

	return &profile, nil
}

// ListOpenJobs returns up to limit open jobs, newest first. A non-positive
// limit falls back to the default.
func (s *Store) ListOpenJobs(ctx context.Context, limit int) ([]marketplace.AvailableJobSummary, error) {
	if limit <= 0 {
		limit = defaultOpenJobsLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, category, location, budget
		 FROM jobs WHERE status = 'open' ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]marketplace.AvailableJobSummary, 0, limit)
	for rows.Next() {
		var (
			job    marketplace.AvailableJobSummary
			budget sql.NullFloat64
		)
		if err := rows.Scan(&job.ID, &job.Title, &job.Description, &job.Category, &job.Location, &budget); err != nil {
			return nil, fmt.Errorf("scan open job: %w", err)
		}
		if budget.Valid {
			job.Budget = &budget.Float64
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// decodeStringList decodes a jsonb string array column, treating NULL and
// empty as no entries.
func decodeStringList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(raw, dst)
}
