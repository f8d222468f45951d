package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/seeder/legie-metadata/internal/covercache"
)

// CoversHandler serves the opportunistic cover cache: cover URLs by catalog
// identifier and the ISBN-to-identifier mapping collected during past
// resolutions.
type CoversHandler struct {
	covers *covercache.Store
}

func NewCoversHandler(covers *covercache.Store) *CoversHandler {
	return &CoversHandler{covers: covers}
}

func (h *CoversHandler) ByIdentifier(c *fiber.Ctx) error {
	if h.covers == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cover cache disabled"})
	}
	identifier := c.Params("id")
	urls, err := h.covers.CachedCover(identifier)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load cached covers"})
	}
	if len(urls) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no cached cover"})
	}
	return c.JSON(fiber.Map{"identifier": identifier, "urls": urls})
}

func (h *CoversHandler) ByISBN(c *fiber.Ctx) error {
	if h.covers == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cover cache disabled"})
	}
	isbn := c.Params("isbn")
	identifier, err := h.covers.IdentifierForISBN(isbn)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load isbn mapping"})
	}
	if identifier == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "isbn not seen yet"})
	}
	urls, err := h.covers.CachedCover(identifier)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load cached covers"})
	}
	return c.JSON(fiber.Map{"identifier": identifier, "urls": urls})
}
