package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/service"
)

type createMatchRequest struct {
	SessionID int64  `json:"session_id" validate:"required,gt=0"`
	MatchType string `json:"match_type" validate:"required"`
}

type addMatchPlayerRequest struct {
	UserID    *int64 `json:"user_id" validate:"omitempty,gt=0"`
	GuestName string `json:"guest_name"`
	IsGuest   bool   `json:"is_guest"`
	Team      string `json:"team" validate:"required"`
}

type matchResultRequest struct {
	TeamAScore *int    `json:"team_a_score" validate:"required,gte=0"`
	TeamBScore *int    `json:"team_b_score" validate:"required,gte=0"`
	Status     *string `json:"status"`
}

type updateMatchRequest struct {
	MatchType *string `json:"match_type"`
	Status    *string `json:"status"`
}

type matchStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (s *Server) listMatches(c *fiber.Ctx) error {
	sessionID, err := paramID(c, "sessionId")
	if err != nil {
		return err
	}
	matches, err := s.services.Matches.List(c.UserContext(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(matches)
}

func (s *Server) getMatch(c *fiber.Ctx) error {
	id, err := paramID(c, "matchId")
	if err != nil {
		return err
	}
	match, err := s.services.Matches.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(match)
}

func (s *Server) createMatch(c *fiber.Ctx) error {
	var req createMatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	match, err := s.services.Matches.Create(c.UserContext(), req.SessionID, models.MatchType(req.MatchType))
	if err != nil {
		return err
	}
	return created(c, fiber.Map{
		"message":      "Match created successfully",
		"match_id":     match.ID,
		"match_number": match.MatchNumber,
	})
}

func (s *Server) addMatchPlayer(c *fiber.Ctx) error {
	matchID, err := paramID(c, "matchId")
	if err != nil {
		return err
	}
	var req addMatchPlayerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	addReq := service.AddPlayerRequest{Team: models.Team(req.Team)}
	if req.IsGuest {
		addReq.GuestName = req.GuestName
	} else {
		addReq.UserID = req.UserID
	}

	player, err := s.services.Matches.AddPlayer(c.UserContext(), matchID, addReq)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{
		"message":   "Player added to match successfully",
		"player_id": player.ID,
	})
}

func (s *Server) removeMatchPlayer(c *fiber.Ctx) error {
	id, err := paramID(c, "playerId")
	if err != nil {
		return err
	}
	if err := s.services.Matches.RemovePlayer(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Player removed from match successfully", nil)
}

func (s *Server) updateMatchResult(c *fiber.Ctx) error {
	matchID, err := paramID(c, "matchId")
	if err != nil {
		return err
	}
	var req matchResultRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	var status *models.MatchStatus
	if req.Status != nil {
		st := models.MatchStatus(*req.Status)
		status = &st
	}

	match, err := s.services.Matches.UpdateResult(c.UserContext(), matchID, *req.TeamAScore, *req.TeamBScore, status)
	if err != nil {
		return err
	}
	return message(c, "Match result updated successfully", fiber.Map{
		"winner": match.Winner,
		"match":  match,
	})
}

func (s *Server) updateMatch(c *fiber.Ctx) error {
	matchID, err := paramID(c, "matchId")
	if err != nil {
		return err
	}
	var req updateMatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	var patch models.MatchPatch
	if req.MatchType != nil {
		mt := models.MatchType(*req.MatchType)
		patch.MatchType = &mt
	}
	if req.Status != nil {
		st := models.MatchStatus(*req.Status)
		patch.Status = &st
	}

	match, err := s.services.Matches.Update(c.UserContext(), matchID, patch)
	if err != nil {
		return err
	}
	return message(c, "Match updated successfully", fiber.Map{"match": match})
}

func (s *Server) updateMatchStatus(c *fiber.Ctx) error {
	matchID, err := paramID(c, "matchId")
	if err != nil {
		return err
	}
	var req matchStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if _, err := s.services.Matches.UpdateStatus(c.UserContext(), matchID, models.MatchStatus(req.Status)); err != nil {
		return err
	}
	return message(c, "Match status updated successfully", nil)
}

func (s *Server) deleteMatch(c *fiber.Ctx) error {
	matchID, err := paramID(c, "matchId")
	if err != nil {
		return err
	}
	if err := s.services.Matches.Delete(c.UserContext(), matchID); err != nil {
		return err
	}
	return message(c, "Match deleted successfully", nil)
}
