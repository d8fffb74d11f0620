// Package kafka publishes audit events for reviewer validation and profile
// analysis runs.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/scholarfinder/engine/pkg/errors"
)

// Topic constants.
const (
	TopicReviewerValidated = "reviewer.validated"
	TopicProfileBuilt      = "profile.built"
	TopicAuthorEnriched    = "author.enriched"
	TopicAuditLog          = "audit.log"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ReviewerValidatedPayload records the outcome of one validation run.
type ReviewerValidatedPayload struct {
	TotalCandidates    int       `json:"total_candidates"`
	ValidatedReviewers int       `json:"validated_reviewers"`
	ExcludedReviewers  int       `json:"excluded_reviewers"`
	RulesApplied       []string  `json:"rules_applied"`
	ValidatedAt        time.Time `json:"validated_at"`
}

// ProfileBuiltPayload records a completed detailed-profile build.
type ProfileBuiltPayload struct {
	AuthorID          string    `json:"author_id"`
	CompletenessScore float64   `json:"completeness_score"`
	ConflictCount     int       `json:"conflict_count"`
	Enriched          bool      `json:"enriched"`
	BuiltAt           time.Time `json:"built_at"`
}

// AuthorEnrichedPayload records a successful external enrichment call.
type AuthorEnrichedPayload struct {
	AuthorID   string    `json:"author_id"`
	Source     string    `json:"source"`
	EnrichedAt time.Time `json:"enriched_at"`
}

// NewEventEnvelope wraps a payload in a standard envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "1.0",
		Payload:       data,
	}, nil
}
