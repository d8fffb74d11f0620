// Package repositories contains the PostgreSQL implementations of the
// engine's persistence ports.
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	appErrors "github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// AuthorRepository
// ─────────────────────────────────────────────────────────────────────────────

// AuthorRepository is the PostgreSQL implementation of the author persistence
// port.  Affiliations and metadata are stored as JSONB columns; research
// areas and MeSH terms as text arrays.
type AuthorRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAuthorRepository constructs a ready-to-use AuthorRepository.
func NewAuthorRepository(pool *pgxpool.Pool, logger logging.Logger) *AuthorRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AuthorRepository{pool: pool, logger: logger.Named("author_repo")}
}

const authorColumns = `id, name, email, affiliations, publication_count,
	clinical_trials, retractions, research_areas, mesh_terms, metadata,
	created_at, updated_at`

// Save upserts an author record keyed by id.
func (r *AuthorRepository) Save(ctx context.Context, a *author.Author) error {
	r.logger.Debug("AuthorRepository.Save", logging.String("author_id", a.ID.String()))

	affJSON, err := json.Marshal(a.Affiliations)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeSerialization, "failed to encode affiliations")
	}
	metaJSON, err := json.Marshal(a.Metadata)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeSerialization, "failed to encode metadata")
	}

	now := time.Now().UTC()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO authors (
			id, name, email, affiliations, publication_count,
			clinical_trials, retractions, research_areas, mesh_terms, metadata,
			created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,$9,$10,
			$11,$11
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			affiliations = EXCLUDED.affiliations,
			publication_count = EXCLUDED.publication_count,
			clinical_trials = EXCLUDED.clinical_trials,
			retractions = EXCLUDED.retractions,
			research_areas = EXCLUDED.research_areas,
			mesh_terms = EXCLUDED.mesh_terms,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at`,
		a.ID, a.Name, a.Email, affJSON, a.PublicationCount,
		a.ClinicalTrials, a.Retractions, a.ResearchAreas, a.MeshTerms, metaJSON,
		now,
	)
	if err != nil {
		r.logger.Error("AuthorRepository.Save", logging.Err(err))
		return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to upsert author")
	}
	return nil
}

// FindByID loads one author; a missing row maps to CodeAuthorNotFound.
func (r *AuthorRepository) FindByID(ctx context.Context, id common.ID) (*author.Author, error) {
	r.logger.Debug("AuthorRepository.FindByID", logging.String("author_id", id.String()))

	row := r.pool.QueryRow(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE id = $1`, id)
	a, err := scanAuthor(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, appErrors.New(appErrors.CodeAuthorNotFound, "author "+id.String()+" not found")
		}
		r.logger.Error("AuthorRepository.FindByID", logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to load author")
	}
	return a, nil
}

// FindByIDs loads a batch of authors; missing ids are simply absent from the
// result, which is keyed by author id.
func (r *AuthorRepository) FindByIDs(ctx context.Context, ids []common.ID) (map[common.ID]*author.Author, error) {
	if len(ids) == 0 {
		return map[common.ID]*author.Author{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.Error("AuthorRepository.FindByIDs", logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to load authors")
	}
	defer rows.Close()

	out := make(map[common.ID]*author.Author, len(ids))
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to scan author row")
		}
		out[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "author row iteration failed")
	}
	return out, nil
}

// Search returns authors whose name matches the query, newest first.
func (r *AuthorRepository) Search(ctx context.Context, nameQuery string, p common.Pagination) ([]*author.Author, int64, error) {
	r.logger.Debug("AuthorRepository.Search", logging.String("query", nameQuery))

	pattern := "%" + nameQuery + "%"

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM authors WHERE name ILIKE $1`, pattern,
	).Scan(&total); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "count failed")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+authorColumns+` FROM authors
		 WHERE name ILIKE $1
		 ORDER BY updated_at DESC
		 LIMIT $2 OFFSET $3`,
		pattern, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "query failed")
	}
	defer rows.Close()

	authors := make([]*author.Author, 0, p.Limit())
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to scan author row")
		}
		authors = append(authors, a)
	}
	return authors, total, rows.Err()
}

// Delete removes an author record.
func (r *AuthorRepository) Delete(ctx context.Context, id common.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to delete author")
	}
	if tag.RowsAffected() == 0 {
		return appErrors.New(appErrors.CodeAuthorNotFound, "author "+id.String()+" not found")
	}
	return nil
}

// scanAuthor hydrates an Author from a row with authorColumns ordering.
func scanAuthor(row pgx.Row) (*author.Author, error) {
	var (
		a         author.Author
		email     *string
		affJSON   []byte
		metaJSON  []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&a.ID, &a.Name, &email, &affJSON, &a.PublicationCount,
		&a.ClinicalTrials, &a.Retractions, &a.ResearchAreas, &a.MeshTerms, &metaJSON,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if email != nil {
		a.Email = *email
	}
	if len(affJSON) > 0 {
		if err := json.Unmarshal(affJSON, &a.Affiliations); err != nil {
			return nil, err
		}
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &a.Metadata); err != nil {
			return nil, err
		}
	}
	return &a, nil
}
