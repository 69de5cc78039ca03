package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/calculator"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

// MatchService keeps score for the games played within a session.
type MatchService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewMatchService creates a match service.
func NewMatchService(store storage.Store, logger *slog.Logger) *MatchService {
	return &MatchService{store: store, logger: logger}
}

// AddPlayerRequest names the team and exactly one of a user or a guest.
type AddPlayerRequest struct {
	Team      models.Team
	UserID    *int64
	GuestName string
}

// List returns a session's matches in order, each with result and players.
func (s *MatchService) List(ctx context.Context, sessionID int64) ([]models.Match, error) {
	matches, err := s.store.ListMatchesBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("ListMatchesBySession failed", "session_id", sessionID, "error", err)
		return nil, apperr.Internal("failed to fetch matches", err)
	}
	return matches, nil
}

// Get returns one match.
func (s *MatchService) Get(ctx context.Context, id int64) (*models.Match, error) {
	match, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return nil, storeError(err, "match", "fetch match")
	}
	return match, nil
}

// Create adds the next numbered match to a session.
func (s *MatchService) Create(ctx context.Context, sessionID int64, matchType models.MatchType) (*models.Match, error) {
	if sessionID <= 0 {
		return nil, apperr.Validation("session ID is required")
	}
	if !matchType.Valid() {
		return nil, apperr.Validation("match type must be Singles, Doubles or Mixed Doubles")
	}

	match := &models.Match{SessionID: sessionID, MatchType: matchType}
	if err := s.store.CreateMatch(ctx, match); err != nil {
		return nil, storeError(err, "session", "create match")
	}

	s.logger.Info("Match created", "match_id", match.ID, "session_id", sessionID, "number", match.MatchNumber)
	return match, nil
}

// AddPlayer puts a user or guest on a team.
func (s *MatchService) AddPlayer(ctx context.Context, matchID int64, req AddPlayerRequest) (*models.MatchPlayer, error) {
	if !req.Team.Valid() {
		return nil, apperr.Validation("team must be Team A or Team B")
	}

	guestName := strings.TrimSpace(req.GuestName)
	hasUser := req.UserID != nil && *req.UserID > 0
	if hasUser == (guestName != "") {
		return nil, apperr.Validation("provide either a user ID or a guest name")
	}

	player := &models.MatchPlayer{MatchID: matchID, Team: req.Team}
	if hasUser {
		player.UserID = req.UserID
	} else {
		player.GuestName = &guestName
		player.IsGuest = true
	}

	if err := s.store.AddMatchPlayer(ctx, player); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, apperr.Conflict("player is already in this match")
		}
		return nil, storeError(err, "match", "add player")
	}

	s.logger.Info("Match player added", "match_id", matchID, "player_id", player.ID, "team", player.Team)
	return player, nil
}

// RemovePlayer takes a player off a match.
func (s *MatchService) RemovePlayer(ctx context.Context, playerID int64) error {
	if err := s.store.RemoveMatchPlayer(ctx, playerID); err != nil {
		return storeError(err, "match player", "remove player")
	}
	s.logger.Info("Match player removed", "player_id", playerID)
	return nil
}

// UpdateResult records the score. The winner is the team with the higher
// score, none on a tie. A non-nil status is applied in the same transaction.
func (s *MatchService) UpdateResult(ctx context.Context, matchID int64, teamAScore, teamBScore int, status *models.MatchStatus) (*models.Match, error) {
	if teamAScore < 0 || teamBScore < 0 {
		return nil, apperr.Validation("scores cannot be negative")
	}
	if status != nil && !status.Valid() {
		return nil, apperr.Validation("status must be Pending, In Progress or Completed")
	}

	result := models.MatchResult{
		TeamAScore: teamAScore,
		TeamBScore: teamBScore,
		Winner:     calculator.Winner(teamAScore, teamBScore),
		Status:     status,
	}
	if err := s.store.UpdateMatchResult(ctx, matchID, result); err != nil {
		return nil, storeError(err, "match", "update result")
	}

	s.logger.Info("Match result updated", "match_id", matchID, "team_a", teamAScore, "team_b", teamBScore)
	return s.Get(ctx, matchID)
}

// Update applies a partial change of type and status.
func (s *MatchService) Update(ctx context.Context, matchID int64, patch models.MatchPatch) (*models.Match, error) {
	if patch.Empty() {
		return nil, apperr.Validation("nothing to update")
	}
	if patch.MatchType != nil && !patch.MatchType.Valid() {
		return nil, apperr.Validation("match type must be Singles, Doubles or Mixed Doubles")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperr.Validation("status must be Pending, In Progress or Completed")
	}

	if err := s.store.UpdateMatch(ctx, matchID, patch); err != nil {
		return nil, storeError(err, "match", "update match")
	}
	s.logger.Info("Match updated", "match_id", matchID)
	return s.Get(ctx, matchID)
}

// UpdateStatus moves a match to status.
func (s *MatchService) UpdateStatus(ctx context.Context, matchID int64, status models.MatchStatus) (*models.Match, error) {
	if status == "" {
		return nil, apperr.Validation("status is required")
	}
	return s.Update(ctx, matchID, models.MatchPatch{Status: &status})
}

// Delete removes a match with its result and players.
func (s *MatchService) Delete(ctx context.Context, matchID int64) error {
	if err := s.store.DeleteMatch(ctx, matchID); err != nil {
		return storeError(err, "match", "delete match")
	}
	s.logger.Info("Match deleted", "match_id", matchID)
	return nil
}
