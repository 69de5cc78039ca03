package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/service"
)

type donationRequest struct {
	ContributorID   *int64  `json:"contributor_id" validate:"omitempty,gt=0"`
	ContributorName string  `json:"contributor_name"`
	IsGuest         bool    `json:"is_guest"`
	Amount          float64 `json:"amount" validate:"gt=0"`
	Notes           *string `json:"notes"`
	IsPaid          bool    `json:"is_paid"`
}

func (r donationRequest) input() service.DonationInput {
	return service.DonationInput{
		ContributorID:   r.ContributorID,
		ContributorName: r.ContributorName,
		IsGuest:         r.IsGuest,
		Amount:          r.Amount,
		Notes:           r.Notes,
		IsPaid:          r.IsPaid,
	}
}

type expenseRequest struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Category    string  `json:"category"`
	Notes       *string `json:"notes"`
	IsPaid      bool    `json:"is_paid"`
}

func (r expenseRequest) input() service.ExpenseInput {
	return service.ExpenseInput{
		Description: r.Description,
		Amount:      r.Amount,
		Category:    r.Category,
		Notes:       r.Notes,
		IsPaid:      r.IsPaid,
	}
}

type settingsRequest struct {
	PlayerMonthlyRate  float64 `json:"player_monthly_rate" validate:"gte=0"`
	PlayerMonthlyYear  *int    `json:"player_monthly_year"`
	PlayerMonthlyMonth *int    `json:"player_monthly_month" validate:"omitempty,min=1,max=12"`
	GuestDailyRate     float64 `json:"guest_daily_rate" validate:"gte=0"`
}

type applyIncomeRequest struct {
	PlayerIDs []int64 `json:"player_ids" validate:"required,min=1,dive,gt=0"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Year      int     `json:"year" validate:"required"`
	Month     int     `json:"month" validate:"required,min=1,max=12"`
}

func (s *Server) listDonations(c *fiber.Ctx) error {
	donations, err := s.services.Finance.ListDonations(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(donations)
}

func (s *Server) recordDonation(c *fiber.Ctx) error {
	var req donationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	donation, err := s.services.Finance.RecordDonation(c.UserContext(), actor(c), req.input())
	if err != nil {
		return err
	}
	return created(c, fiber.Map{
		"message":   "Income recorded",
		"income_id": donation.ID,
	})
}

func (s *Server) updateDonation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req donationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	donation, err := s.services.Finance.UpdateDonation(c.UserContext(), id, req.input())
	if err != nil {
		return err
	}
	return message(c, "Income record updated successfully", fiber.Map{"income": donation})
}

func (s *Server) deleteDonation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Finance.DeleteDonation(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Income record deleted successfully", nil)
}

func (s *Server) markDonationPaid(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Finance.MarkDonationPaid(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Income record marked as paid", nil)
}

func (s *Server) toggleDonationPaid(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	paid, err := s.services.Finance.ToggleDonationPaid(c.UserContext(), id)
	if err != nil {
		return err
	}
	return message(c, "Income record status toggled", fiber.Map{"is_paid": paid})
}

func (s *Server) topContributors(c *fiber.Ctx) error {
	contributors, err := s.services.Finance.TopContributors(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(contributors)
}

func (s *Server) listExpenses(c *fiber.Ctx) error {
	expenses, err := s.services.Finance.ListExpenses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(expenses)
}

func (s *Server) recordExpense(c *fiber.Ctx) error {
	var req expenseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	expense, err := s.services.Finance.RecordExpense(c.UserContext(), actor(c), req.input())
	if err != nil {
		return err
	}
	return created(c, fiber.Map{
		"message":    "Expense recorded",
		"expense_id": expense.ID,
	})
}

func (s *Server) updateExpense(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req expenseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	expense, err := s.services.Finance.UpdateExpense(c.UserContext(), id, req.input())
	if err != nil {
		return err
	}
	return message(c, "Expense record updated successfully", fiber.Map{"expense": expense})
}

func (s *Server) deleteExpense(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Finance.DeleteExpense(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Expense record deleted successfully", nil)
}

func (s *Server) toggleExpensePaid(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	paid, err := s.services.Finance.ToggleExpensePaid(c.UserContext(), id)
	if err != nil {
		return err
	}
	return message(c, "Expense record status toggled", fiber.Map{"is_paid": paid})
}

func (s *Server) financeSummary(c *fiber.Ctx) error {
	summary, err := s.services.Finance.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (s *Server) search(c *fiber.Ctx) error {
	results, err := s.services.Finance.Search(c.UserContext(), c.Query("type"), c.Query("query"))
	if err != nil {
		return err
	}
	return c.JSON(results)
}

func (s *Server) getSettings(c *fiber.Ctx) error {
	settings, err := s.services.Finance.GetSettings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

func (s *Server) updateSettings(c *fiber.Ctx) error {
	var req settingsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	settings, dues, err := s.services.Finance.UpdateSettings(c.UserContext(), service.SettingsInput{
		PlayerMonthlyRate:  req.PlayerMonthlyRate,
		PlayerMonthlyYear:  req.PlayerMonthlyYear,
		PlayerMonthlyMonth: req.PlayerMonthlyMonth,
		GuestDailyRate:     req.GuestDailyRate,
	})
	if err != nil {
		return err
	}
	return message(c, "Settings updated successfully", fiber.Map{
		"settings": settings,
		"created":  dues,
	})
}

func (s *Server) applyPlayerIncome(c *fiber.Ctx) error {
	var req applyIncomeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	count, err := s.services.Finance.ApplyPlayerIncome(c.UserContext(), models.MonthlyIncome{
		PlayerIDs: req.PlayerIDs,
		Amount:    req.Amount,
		Year:      req.Year,
		Month:     req.Month,
	})
	if err != nil {
		return err
	}

	msg := "Income records already exist for this period"
	if count > 0 {
		msg = fmt.Sprintf("Successfully created %d income record(s)", count)
	}
	return message(c, msg, fiber.Map{"created": count})
}
