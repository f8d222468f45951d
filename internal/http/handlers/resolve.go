package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/seeder/legie-metadata/internal/legie"
)

type resolveRequest struct {
	Title       string            `json:"title"`
	Authors     []string          `json:"authors"`
	Identifiers map[string]string `json:"identifiers"`
}

type recordResponse struct {
	Title           string            `json:"title"`
	Authors         []string          `json:"authors"`
	Series          string            `json:"series,omitempty"`
	SeriesIndex     float64           `json:"seriesIndex,omitempty"`
	Publisher       string            `json:"publisher,omitempty"`
	PubDate         string            `json:"pubDate,omitempty"`
	PubYear         int               `json:"pubYear,omitempty"`
	Language        string            `json:"language,omitempty"`
	Rating          float64           `json:"rating,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	Comments        string            `json:"comments,omitempty"`
	Identifiers     map[string]string `json:"identifiers,omitempty"`
	CoverURLs       []string          `json:"coverUrls,omitempty"`
	HasCover        bool              `json:"hasCover"`
	SourceRelevance int               `json:"sourceRelevance"`
}

type ResolveHandler struct {
	resolver *legie.Resolver
	timeout  time.Duration
}

func NewResolveHandler(resolver *legie.Resolver, timeout time.Duration) *ResolveHandler {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ResolveHandler{resolver: resolver, timeout: timeout}
}

func (h *ResolveHandler) Resolve(c *fiber.Ctx) error {
	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid json body"})
	}
	if req.Title == "" && len(req.Authors) == 0 && len(req.Identifiers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "title, authors, or identifiers required"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	records, err := h.resolver.Resolve(ctx, legie.Query{
		Title:       req.Title,
		Authors:     req.Authors,
		Identifiers: req.Identifiers,
	})
	if err != nil {
		if errors.Is(err, legie.ErrNoResults) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no results found"})
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"message": "resolution timed out"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "resolution failed"})
	}

	items := make([]recordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toRecordResponse(record))
	}
	return c.JSON(fiber.Map{"items": items})
}

func toRecordResponse(record legie.Record) recordResponse {
	resp := recordResponse{
		Title:           record.Title,
		Authors:         record.Authors,
		Series:          record.Series,
		SeriesIndex:     record.SeriesIndex,
		Publisher:       record.Publisher,
		PubYear:         record.PubYear,
		Language:        record.Language,
		Rating:          record.Rating,
		Tags:            record.Tags,
		Comments:        record.Comments,
		Identifiers:     record.Identifiers,
		CoverURLs:       record.CoverURLs,
		HasCover:        record.HasCover,
		SourceRelevance: record.SourceRelevance,
	}
	if !record.PubDate.IsZero() {
		resp.PubDate = record.PubDate.UTC().Format(time.RFC3339)
	}
	return resp
}
