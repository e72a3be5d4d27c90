package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/gosimple/slug"

	"github.com/mcoot/sportsched/internal/archive"
	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
	"github.com/mcoot/sportsched/internal/services/assignment"
	"github.com/mcoot/sportsched/internal/services/game"
	"github.com/mcoot/sportsched/internal/services/location"
	"github.com/mcoot/sportsched/internal/services/official"
	"github.com/mcoot/sportsched/internal/services/user"
)

// ContentType of every export
const ContentType = "text/csv; charset=utf-8"

// Result is a rendered export
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
	// ArchiveKey is set when the export was also uploaded
	ArchiveKey string
}

// Service renders filtered entity lists as CSV
type Service struct {
	locations   *location.Service
	officials   *official.Service
	games       *game.Service
	users       *user.Service
	assignments *assignment.Controller
	archive     archive.Store
	clock       clock.Clock
	logger      *slog.Logger
}

// New creates a new export Service. archive may be nil when uploads are not configured.
func New(
	locations *location.Service,
	officials *official.Service,
	games *game.Service,
	users *user.Service,
	assignments *assignment.Controller,
	archive archive.Store,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		locations:   locations,
		officials:   officials,
		games:       games,
		users:       users,
		assignments: assignments,
		archive:     archive,
		clock:       clock,
		logger:      logger,
	}
}

// Filename returns the download name for an export of kind made today
func (s *Service) Filename(kind model.EntityKind) string {
	return slug.Make(kind.Plural()+" "+clock.Today(s.clock)) + ".csv"
}

// Export renders the entities of kind matching f
func (s *Service) Export(ctx context.Context, kind model.EntityKind, f query.Filter, sort query.Sort) (*Result, error) {
	var (
		buf  bytes.Buffer
		rows int
		err  error
	)

	switch kind {
	case model.KindGame:
		var games []*model.Game
		if games, err = s.games.List(ctx, f, sort); err == nil {
			rows, err = len(games), WriteGames(&buf, games)
		}
	case model.KindOfficial:
		var officials []*model.Official
		if officials, err = s.officials.List(ctx, f, sort); err == nil {
			rows, err = len(officials), WriteOfficials(&buf, officials)
		}
	case model.KindAssignment:
		var details []*model.AssignmentDetail
		if details, err = s.assignments.List(ctx, f, sort); err == nil {
			rows, err = len(details), WriteAssignments(&buf, details)
		}
	case model.KindUser:
		var users []*model.User
		if users, err = s.users.List(ctx, f, sort); err == nil {
			rows, err = len(users), WriteUsers(&buf, users)
		}
	case model.KindLocation:
		var locations []*model.Location
		if locations, err = s.locations.List(ctx, f, sort); err == nil {
			rows, err = len(locations), WriteLocations(&buf, locations)
		}
	default:
		return nil, model.NewValidationError("kind", model.CodeInvalidEnumValue, fmt.Sprintf("cannot export %q", kind))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("export rendered", slog.String("kind", string(kind)), slog.Int("rows", rows))
	return &Result{
		Filename:    s.Filename(kind),
		ContentType: ContentType,
		Data:        buf.Bytes(),
		Rows:        rows,
	}, nil
}

// Archive renders an export and uploads it to the archive store
func (s *Service) Archive(ctx context.Context, kind model.EntityKind, f query.Filter, sort query.Sort) (*Result, error) {
	if s.archive == nil {
		return nil, model.NewValidationError("archive", model.CodeInvalid, "no export archive is configured")
	}

	res, err := s.Export(ctx, kind, f, sort)
	if err != nil {
		return nil, err
	}

	key := kind.Plural() + "/" + res.Filename
	if err := s.archive.Put(ctx, key, res.ContentType, res.Data); err != nil {
		return nil, fmt.Errorf("archive export: %w", err)
	}
	res.ArchiveKey = key

	s.logger.Info("export archived", slog.String("kind", string(kind)), slog.String("key", key))
	return res, nil
}
