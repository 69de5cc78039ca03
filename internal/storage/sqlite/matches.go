package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/badsession/badsession/internal/calculator"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

const matchSelect = `
	SELECT m.id, m.session_id, m.match_number, m.match_type, m.status, m.created_at,
	       COALESCE(r.team_a_score, 0) AS team_a_score,
	       COALESCE(r.team_b_score, 0) AS team_b_score,
	       r.winner
	FROM matches m
	LEFT JOIN match_results r ON r.match_id = m.id`

const matchPlayerSelect = `
	SELECT mp.id, mp.match_id, mp.user_id, mp.guest_name, mp.is_guest, mp.team,
	       COALESCE(u.full_name, mp.guest_name) AS name
	FROM match_players mp
	LEFT JOIN users u ON u.id = mp.user_id`

// CreateMatch numbers the match within its session and creates its
// zero-score result in one transaction.
func (s *SQLiteStore) CreateMatch(ctx context.Context, match *models.Match) error {
	if match.CreatedAt == 0 {
		match.CreatedAt = time.Now().Unix()
	}
	if match.Status == "" {
		match.Status = models.StatusPending
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, `SELECT 1 FROM sessions WHERE id = ?`, match.SessionID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("session %d: %w", match.SessionID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up session: %w", err)
		}

		// MAX rather than COUNT so numbers stay unique after deletions.
		err = tx.GetContext(ctx, &match.MatchNumber,
			`SELECT COALESCE(MAX(match_number), 0) + 1 FROM matches WHERE session_id = ?`, match.SessionID)
		if err != nil {
			return fmt.Errorf("failed to number match: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO matches (session_id, match_number, match_type, status, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			match.SessionID, match.MatchNumber, match.MatchType, match.Status, match.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert match: %w", err)
		}
		if match.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read match id: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_results (match_id, team_a_score, team_b_score) VALUES (?, 0, 0)`,
			match.ID,
		); err != nil {
			return fmt.Errorf("failed to insert match result: %w", err)
		}

		match.TeamAScore, match.TeamBScore, match.Winner = 0, 0, nil
		match.Players = []models.MatchPlayer{}
		return nil
	})
}

// GetMatch retrieves a match with its result and players.
func (s *SQLiteStore) GetMatch(ctx context.Context, id int64) (*models.Match, error) {
	match := &models.Match{}
	err := s.db.GetContext(ctx, match, matchSelect+` WHERE m.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	match.Players = []models.MatchPlayer{}
	if err := s.db.SelectContext(ctx, &match.Players, matchPlayerSelect+`
	WHERE mp.match_id = ?
	ORDER BY mp.team, mp.id`, id); err != nil {
		return nil, fmt.Errorf("failed to get match players: %w", err)
	}
	return match, nil
}

// ListMatchesBySession returns a session's matches in number order. Players
// for all matches are fetched in one query.
func (s *SQLiteStore) ListMatchesBySession(ctx context.Context, sessionID int64) ([]models.Match, error) {
	matches := []models.Match{}
	err := s.db.SelectContext(ctx, &matches, matchSelect+`
	WHERE m.session_id = ?
	ORDER BY m.match_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	if len(matches) == 0 {
		return matches, nil
	}

	ids := make([]int64, len(matches))
	byID := make(map[int64]*models.Match, len(matches))
	for i := range matches {
		ids[i] = matches[i].ID
		matches[i].Players = []models.MatchPlayer{}
		byID[matches[i].ID] = &matches[i]
	}

	query, args, err := sqlx.In(matchPlayerSelect+`
	WHERE mp.match_id IN (?)
	ORDER BY mp.match_id, mp.team, mp.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build match players query: %w", err)
	}

	var players []models.MatchPlayer
	if err := s.db.SelectContext(ctx, &players, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list match players: %w", err)
	}
	for _, p := range players {
		if m, ok := byID[p.MatchID]; ok {
			m.Players = append(m.Players, p)
		}
	}
	return matches, nil
}

// AddMatchPlayer puts a player or guest on a team, enforcing the team
// capacity of the match type.
func (s *SQLiteStore) AddMatchPlayer(ctx context.Context, player *models.MatchPlayer) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var matchType models.MatchType
		err := tx.GetContext(ctx, &matchType, `SELECT match_type FROM matches WHERE id = ?`, player.MatchID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("match %d: %w", player.MatchID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up match: %w", err)
		}

		var onTeam int
		err = tx.GetContext(ctx, &onTeam,
			`SELECT COUNT(*) FROM match_players WHERE match_id = ? AND team = ?`, player.MatchID, player.Team)
		if err != nil {
			return fmt.Errorf("failed to count team players: %w", err)
		}
		if onTeam >= calculator.TeamCapacity(matchType) {
			return fmt.Errorf("%s: %w", player.Team, storage.ErrTeamFull)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO match_players (match_id, user_id, guest_name, is_guest, team) VALUES (?, ?, ?, ?, ?)`,
			player.MatchID, player.UserID, player.GuestName, player.IsGuest, player.Team,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("player already in match: %w", storage.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("user: %w", storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to insert match player: %w", err)
		}
		if player.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read match player id: %w", err)
		}
		return nil
	})
}

// RemoveMatchPlayer takes a player off a match.
func (s *SQLiteStore) RemoveMatchPlayer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM match_players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove match player: %w", err)
	}
	return checkAffected(res, "match player")
}

// UpdateMatchResult stores the scores and winner, and the status when
// given, in one transaction.
func (s *SQLiteStore) UpdateMatchResult(ctx context.Context, matchID int64, result models.MatchResult) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE match_results SET team_a_score = ?, team_b_score = ?, winner = ? WHERE match_id = ?`,
			result.TeamAScore, result.TeamBScore, result.Winner, matchID,
		)
		if err != nil {
			return fmt.Errorf("failed to update match result: %w", err)
		}
		if err := checkAffected(res, "match"); err != nil {
			return err
		}

		if result.Status == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE matches SET status = ? WHERE id = ?`, *result.Status, matchID,
		); err != nil {
			return fmt.Errorf("failed to update match status: %w", err)
		}
		return nil
	})
}

// UpdateMatch applies the non-nil fields of patch. A new match type must
// still fit the players already on each team, otherwise ErrTeamFull.
func (s *SQLiteStore) UpdateMatch(ctx context.Context, matchID int64, patch models.MatchPatch) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if patch.MatchType != nil {
			var largest int
			if err := tx.GetContext(ctx, &largest,
				`SELECT COALESCE(MAX(cnt), 0) FROM (
				     SELECT COUNT(*) AS cnt FROM match_players WHERE match_id = ? GROUP BY team
				 )`, matchID,
			); err != nil {
				return fmt.Errorf("failed to count team players: %w", err)
			}
			if largest > calculator.TeamCapacity(*patch.MatchType) {
				return fmt.Errorf("%s holds %d per team: %w", *patch.MatchType, calculator.TeamCapacity(*patch.MatchType), storage.ErrTeamFull)
			}
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE matches SET match_type = COALESCE(?, match_type), status = COALESCE(?, status) WHERE id = ?`,
			patch.MatchType, patch.Status, matchID,
		)
		if err != nil {
			return fmt.Errorf("failed to update match: %w", err)
		}
		return checkAffected(res, "match")
	})
}

// DeleteMatch removes a match with its result and players.
func (s *SQLiteStore) DeleteMatch(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return checkAffected(res, "match")
}
