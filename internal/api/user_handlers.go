package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/badsession/badsession/internal/models"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=Admin Player Guest"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"required"`
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.services.Users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (s *Server) profile(c *fiber.Ctx) error {
	user, err := s.services.Users.Profile(c.UserContext(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := s.services.Users.Create(c.UserContext(), req.Username, req.Password, req.FullName, models.Role(req.Role))
	if err != nil {
		return err
	}
	return created(c, fiber.Map{
		"message": "User created successfully",
		"user_id": user.ID,
		"user":    user,
	})
}

func (s *Server) changeRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req changeRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := s.services.Users.ChangeRole(c.UserContext(), id, models.Role(req.Role)); err != nil {
		return err
	}
	return message(c, "Role updated successfully", nil)
}

func (s *Server) changePassword(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := s.services.Users.ChangePassword(c.UserContext(), actor(c), id, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return message(c, "Password updated successfully", nil)
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Users.Delete(c.UserContext(), actor(c), id); err != nil {
		return err
	}
	return message(c, "User deleted successfully", nil)
}

func (s *Server) playerToGuest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Users.PlayerToGuest(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "User successfully converted from Player to Guest", fiber.Map{"user_id": id})
}

func (s *Server) guestToPlayer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Users.GuestToPlayer(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "User successfully converted from Guest to Player", fiber.Map{"user_id": id})
}
