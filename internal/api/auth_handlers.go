package api

import (
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := s.services.Auth.Register(c.UserContext(), req.Username, req.Password, req.FullName)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := s.services.Auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (s *Server) me(c *fiber.Ctx) error {
	user, err := s.services.Auth.Me(c.UserContext(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}
