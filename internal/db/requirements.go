package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/fit-scorer/internal/types"
)

// -----------------------------------------------------------------------------
// Job Requirement Methods
// -----------------------------------------------------------------------------

// GetRequirementsForJob resolves a job variant to its template and family and
// loads the requirements defined at each level. It returns nil, nil when the
// variant does not exist.
func (db *DB) GetRequirementsForJob(ctx context.Context, jobID string) (*types.JobRequirementSet, error) {
	var title string
	var templateID, familyID *string
	err := db.pool.QueryRow(ctx,
		`SELECT v.title, v.template_id, t.family_id
		 FROM job_variants v
		 LEFT JOIN job_templates t ON t.id = v.template_id
		 WHERE v.id = $1`,
		jobID,
	).Scan(&title, &templateID, &familyID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job variant: %w", err)
	}

	set := &types.JobRequirementSet{JobID: jobID, Title: title}
	if familyID != nil {
		if set.Family, err = db.requirementsFor(ctx, types.LevelFamily, *familyID); err != nil {
			return nil, err
		}
	}
	if templateID != nil {
		if set.Template, err = db.requirementsFor(ctx, types.LevelTemplate, *templateID); err != nil {
			return nil, err
		}
	}
	if set.Variant, err = db.requirementsFor(ctx, types.LevelVariant, jobID); err != nil {
		return nil, err
	}
	return set, nil
}

func (db *DB) requirementsFor(ctx context.Context, level types.Level, ownerID string) ([]types.Requirement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, external_id, type, category, description, weight, alternatives
		 FROM requirements WHERE level = $1 AND owner_id = $2 ORDER BY ordinal`,
		string(level), ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s requirements: %w", level, err)
	}
	defer rows.Close()

	var reqs []types.Requirement
	for rows.Next() {
		var id uuid.UUID
		var externalID, reqType, category string
		r := types.Requirement{Level: level}
		if err := rows.Scan(&id, &externalID, &reqType, &category, &r.Description, &r.Weight, &r.Alternatives); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		r.ID = externalID
		if r.ID == "" {
			r.ID = id.String()
		}
		r.Type = types.RequirementType(reqType)
		r.Category = types.Category(category)
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

// SaveJob upserts the family, template and variant rows of a job and replaces
// the requirements stored at each level present in the record. Requirements
// are stored as given; validation happens when they are aggregated.
func (db *DB) SaveJob(ctx context.Context, rec *JobRecord) error {
	if rec.Set.JobID == "" {
		return &types.ValidationError{Field: "job_id", Message: "is required"}
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if rec.FamilyID != "" {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_families (id, name) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET name = $2`,
			rec.FamilyID, rec.FamilyName,
		); err != nil {
			return fmt.Errorf("failed to upsert job family: %w", err)
		}
	}
	if rec.TemplateID != "" {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_templates (id, family_id, title) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET family_id = $2, title = $3`,
			rec.TemplateID, nullIfEmpty(rec.FamilyID), rec.TemplateTitle,
		); err != nil {
			return fmt.Errorf("failed to upsert job template: %w", err)
		}
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO job_variants (id, template_id, title, company) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET template_id = $2, title = $3, company = $4`,
		rec.Set.JobID, nullIfEmpty(rec.TemplateID), rec.Set.Title, rec.Company,
	); err != nil {
		return fmt.Errorf("failed to upsert job variant: %w", err)
	}

	for _, owner := range rec.owners() {
		if _, err := tx.Exec(ctx,
			`DELETE FROM requirements WHERE level = $1 AND owner_id = $2`,
			string(owner.level), owner.id,
		); err != nil {
			return fmt.Errorf("failed to clear %s requirements: %w", owner.level, err)
		}

		batch := &pgx.Batch{}
		for i, r := range rec.requirementsAt(owner.level) {
			alternatives := r.Alternatives
			if alternatives == nil {
				alternatives = []string{}
			}
			weight := r.Weight
			if weight == 0 {
				weight = types.DefaultWeight
			}
			batch.Queue(
				`INSERT INTO requirements (external_id, level, owner_id, ordinal, type, category, description, weight, alternatives)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				r.ID, string(owner.level), owner.id, i,
				string(r.Type), string(r.Category), r.Description, weight, alternatives,
			)
		}
		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("failed to insert %s requirements: %w", owner.level, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit job save: %w", err)
	}
	return nil
}
