package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scholarfinder/engine/internal/domain/paper"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	appErrors "github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// PaperRepository
// ─────────────────────────────────────────────────────────────────────────────

// PaperRepository is the PostgreSQL implementation of the manuscript
// persistence port.
type PaperRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPaperRepository constructs a ready-to-use PaperRepository.
func NewPaperRepository(pool *pgxpool.Pool, logger logging.Logger) *PaperRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PaperRepository{pool: pool, logger: logger.Named("paper_repo")}
}

const paperColumns = `id, title, author_names, abstract, keywords, metadata,
	created_at, updated_at, version`

// Save upserts a research paper keyed by id.
func (r *PaperRepository) Save(ctx context.Context, p *paper.ResearchPaper) error {
	r.logger.Debug("PaperRepository.Save", logging.String("paper_id", p.ID.String()))

	metaJSON, err := json.Marshal(p.Metadata)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeSerialization, "failed to encode metadata")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO papers (
			id, title, author_names, abstract, keywords, metadata,
			created_at, updated_at, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			author_names = EXCLUDED.author_names,
			abstract = EXCLUDED.abstract,
			keywords = EXCLUDED.keywords,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at,
			version = papers.version + 1`,
		p.ID, p.Title, p.AuthorNames, p.Abstract, p.Keywords, metaJSON,
		p.CreatedAt, p.UpdatedAt, p.Version,
	)
	if err != nil {
		r.logger.Error("PaperRepository.Save", logging.Err(err))
		return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to upsert paper")
	}
	return nil
}

// FindByID loads one paper; a missing row maps to CodePaperNotFound.
func (r *PaperRepository) FindByID(ctx context.Context, id common.ID) (*paper.ResearchPaper, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE id = $1`, id)
	p, err := scanPaper(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, appErrors.New(appErrors.CodePaperNotFound, "paper "+id.String()+" not found")
		}
		r.logger.Error("PaperRepository.FindByID", logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to load paper")
	}
	return p, nil
}

// List returns papers ordered by last update.
func (r *PaperRepository) List(ctx context.Context, pg common.Pagination) ([]*paper.ResearchPaper, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM papers`).Scan(&total); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "count failed")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+paperColumns+` FROM papers
		 ORDER BY updated_at DESC
		 LIMIT $1 OFFSET $2`, pg.Limit(), pg.Offset())
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "query failed")
	}
	defer rows.Close()

	papers := make([]*paper.ResearchPaper, 0, pg.Limit())
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to scan paper row")
		}
		papers = append(papers, p)
	}
	return papers, total, rows.Err()
}

// Delete removes a paper record.
func (r *PaperRepository) Delete(ctx context.Context, id common.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM papers WHERE id = $1`, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to delete paper")
	}
	if tag.RowsAffected() == 0 {
		return appErrors.New(appErrors.CodePaperNotFound, "paper "+id.String()+" not found")
	}
	return nil
}

func scanPaper(row pgx.Row) (*paper.ResearchPaper, error) {
	var (
		p        paper.ResearchPaper
		abstract *string
		metaJSON []byte
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.AuthorNames, &abstract, &p.Keywords, &metaJSON,
		&p.CreatedAt, &p.UpdatedAt, &p.Version,
	); err != nil {
		return nil, err
	}
	if abstract != nil {
		p.Abstract = *abstract
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &p.Metadata); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
