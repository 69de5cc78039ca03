package api

import "github.com/gofiber/fiber/v2"

func (s *Server) dashboard(c *fiber.Ctx) error {
	dashboard, err := s.services.Dashboard.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}
