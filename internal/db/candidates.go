package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/fit-scorer/internal/types"
)

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

// GetCandidate loads a candidate profile with its skills, experience and
// education in stored order. It returns nil, nil when the candidate does not exist.
func (db *DB) GetCandidate(ctx context.Context, id string) (*types.CandidateProfile, error) {
	p := types.CandidateProfile{ID: id}
	err := db.pool.QueryRow(ctx,
		`SELECT summary FROM candidates WHERE id = $1`,
		id,
	).Scan(&p.Summary)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	if p.Skills, err = db.candidateSkills(ctx, id); err != nil {
		return nil, err
	}
	if p.Experience, err = db.candidateExperience(ctx, id); err != nil {
		return nil, err
	}
	if p.Education, err = db.candidateEducation(ctx, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) candidateSkills(ctx context.Context, id string) ([]types.CandidateSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT name, years_of_experience FROM candidate_skills
		 WHERE candidate_id = $1 ORDER BY ordinal`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate skills: %w", err)
	}
	defer rows.Close()

	var skills []types.CandidateSkill
	for rows.Next() {
		var s types.CandidateSkill
		if err := rows.Scan(&s.Name, &s.YearsOfExperience); err != nil {
			return nil, fmt.Errorf("failed to scan candidate skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (db *DB) candidateExperience(ctx context.Context, id string) ([]types.CandidateExperience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, company, description FROM candidate_experience
		 WHERE candidate_id = $1 ORDER BY ordinal`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate experience: %w", err)
	}
	defer rows.Close()

	var entries []types.CandidateExperience
	for rows.Next() {
		var e types.CandidateExperience
		if err := rows.Scan(&e.Title, &e.Company, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan candidate experience: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (db *DB) candidateEducation(ctx context.Context, id string) ([]types.CandidateEducation, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT degree, field_of_study FROM candidate_education
		 WHERE candidate_id = $1 ORDER BY ordinal`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate education: %w", err)
	}
	defer rows.Close()

	var entries []types.CandidateEducation
	for rows.Next() {
		var e types.CandidateEducation
		if err := rows.Scan(&e.Degree, &e.FieldOfStudy); err != nil {
			return nil, fmt.Errorf("failed to scan candidate education: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListCandidateIDs returns candidate ids in id order. limit <= 0 returns all.
func (db *DB) ListCandidateIDs(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT id FROM candidates ORDER BY id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan candidate id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertCandidate stores a profile, replacing any previous skills, experience
// and education of the same candidate.
func (db *DB) UpsertCandidate(ctx context.Context, p *types.CandidateProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	_, err = tx.Exec(ctx,
		`INSERT INTO candidates (id, summary) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET summary = $2, updated_at = NOW()`,
		p.ID, p.Summary,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}

	for _, table := range []string{"candidate_skills", "candidate_experience", "candidate_education"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE candidate_id = $1`, p.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	batch := &pgx.Batch{}
	for i, s := range p.Skills {
		batch.Queue(`INSERT INTO candidate_skills (candidate_id, ordinal, name, years_of_experience) VALUES ($1, $2, $3, $4)`,
			p.ID, i, s.Name, s.YearsOfExperience)
	}
	for i, e := range p.Experience {
		batch.Queue(`INSERT INTO candidate_experience (candidate_id, ordinal, title, company, description) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, i, e.Title, e.Company, e.Description)
	}
	for i, e := range p.Education {
		batch.Queue(`INSERT INTO candidate_education (candidate_id, ordinal, degree, field_of_study) VALUES ($1, $2, $3, $4)`,
			p.ID, i, e.Degree, e.FieldOfStudy)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert candidate details: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit candidate upsert: %w", err)
	}
	return nil
}
