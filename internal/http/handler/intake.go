package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"healthe/internal/service"
	"healthe/internal/storage"
)

// Health is the liveness probe: always 200, no dependency checks.
func Health() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
}

// Readiness checks DB connectivity only.
func Readiness(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ready"})
	}
}

// StartIntake accepts the intake form and returns the reference ID and the
// report download URL.
func StartIntake(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.SubmitRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		res, err := svc.Submit(c.UserContext(), req)
		if err != nil {
			if errors.Is(err, service.ErrTermsNotAccepted) {
				return writeError(c, fiber.StatusBadRequest, "TERMS_NOT_ACCEPTED", "terms must be accepted")
			}
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return writeErrorDetails(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid intake form", verr.Fields)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// GetReportJSON returns the stored payload document for a reference ID.
func GetReportJSON(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := svc.GetReport(c.UserContext(), c.Params("refId"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrRefIDRequired) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "ref id not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(payload)
	}
}

// GetReportPDF streams the rendered report file for a reference ID.
func GetReportPDF(files *storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		refID := c.Params("refId")
		if !files.Exists(refID) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "report file not found")
		}
		return c.Download(files.Path(refID), "Health-E_"+refID+".pdf")
	}
}
