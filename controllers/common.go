package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"gymbuddy_go/services"
)

// parseIDParam reads a numeric :id style route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// respondServiceError turns a service-layer error into the JSON error
// contract: typed failures carry their kind and code, anything else is a
// persistence failure and surfaces as a 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	if se, ok := services.AsServiceError(err); ok {
		return c.Status(se.HTTPStatus()).JSON(fiber.Map{
			"error": se.Message,
			"kind":  se.Kind,
			"code":  se.Code,
		})
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"path":   c.Path(),
		"method": c.Method(),
	}).Error("Unhandled service error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
