// Package repositories contains the neo4j-backed graph repositories.
package repositories

import (
	"context"

	"github.com/scholarfinder/engine/internal/infrastructure/database/neo4j"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	appErrors "github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// GraphRunner is the subset of the neo4j driver the repository needs; it is
// satisfied by *neo4j.Driver and by test fakes.
type GraphRunner interface {
	ExecuteRead(ctx context.Context, work func(neo4j.Transaction) (any, error)) (any, error)
	ExecuteWrite(ctx context.Context, work func(neo4j.Transaction) (any, error)) (any, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// CoAuthorRepository
// ─────────────────────────────────────────────────────────────────────────────

// CoAuthorRepository stores and queries explicit co-authorship edges between
// authors.  It backs both the validation engine's co-authorship signal and
// the network analyzer's graph lookups.
type CoAuthorRepository struct {
	runner GraphRunner
	logger logging.Logger
}

// NewCoAuthorRepository constructs a ready-to-use CoAuthorRepository.
func NewCoAuthorRepository(runner GraphRunner, logger logging.Logger) *CoAuthorRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CoAuthorRepository{runner: runner, logger: logger.Named("coauthor_repo")}
}

// RecordCoAuthorship upserts an undirected co-authorship edge between two
// authors, creating the author nodes if needed.
func (r *CoAuthorRepository) RecordCoAuthorship(ctx context.Context, a, b common.ID, paperID common.ID) error {
	r.logger.Debug("CoAuthorRepository.RecordCoAuthorship",
		logging.String("author_a", a.String()),
		logging.String("author_b", b.String()))

	_, err := r.runner.ExecuteWrite(ctx, func(tx neo4j.Transaction) (any, error) {
		_, err := tx.Run(ctx, `
			MERGE (a:Author {id: $a})
			MERGE (b:Author {id: $b})
			MERGE (a)-[r:CO_AUTHORED]-(b)
			ON CREATE SET r.papers = [$paper]
			ON MATCH SET r.papers = CASE
				WHEN $paper IN r.papers THEN r.papers
				ELSE r.papers + $paper
			END`,
			map[string]any{"a": a.String(), "b": b.String(), "paper": paperID.String()})
		return nil, err
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to record co-authorship")
	}
	return nil
}

// HaveCoAuthored reports whether an explicit edge exists between two authors.
// Implements the validation engine's CoAuthorshipSource port.
func (r *CoAuthorRepository) HaveCoAuthored(ctx context.Context, a, b common.ID) (bool, error) {
	result, err := r.runner.ExecuteRead(ctx, func(tx neo4j.Transaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (a:Author {id: $a})-[:CO_AUTHORED]-(b:Author {id: $b})
			RETURN count(*) > 0 AS linked`,
			map[string]any{"a": a.String(), "b": b.String()})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			linked, _ := res.Record().Get("linked")
			v, ok := linked.(bool)
			return ok && v, res.Err()
		}
		return false, res.Err()
	})
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.CodeDatabaseError, "co-authorship lookup failed")
	}
	linked, _ := result.(bool)
	return linked, nil
}

// CoAuthorsOf returns the ids of authors with an edge to the given author.
// Implements the network analyzer's CoAuthorGraph port.
func (r *CoAuthorRepository) CoAuthorsOf(ctx context.Context, id common.ID) ([]common.ID, error) {
	result, err := r.runner.ExecuteRead(ctx, func(tx neo4j.Transaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (:Author {id: $id})-[:CO_AUTHORED]-(other:Author)
			RETURN other.id AS id`,
			map[string]any{"id": id.String()})
		if err != nil {
			return nil, err
		}
		ids := []common.ID{}
		for res.Next(ctx) {
			raw, _ := res.Record().Get("id")
			if s, ok := raw.(string); ok {
				ids = append(ids, common.ID(s))
			}
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "co-author listing failed")
	}
	ids, _ := result.([]common.ID)
	return ids, nil
}
