package casestudies

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	cssvc "egdc-backend/internal/application/casestudies"
	uploadsvc "egdc-backend/internal/application/uploads"
	"egdc-backend/internal/middleware"
	"egdc-backend/internal/pkg/response"
)

// Handlers holds dependencies for the case-study endpoints.
type Handlers struct {
	Service *cssvc.Service
	Uploads *uploadsvc.Service
}

// ListPublished GET /api/v1/case-studies — public catalog page.
func (h *Handlers) ListPublished(c *fiber.Ctx) error {
	page, limit := response.ClampPage(c.QueryInt("page", 1), c.QueryInt("limit", 10))
	items, total, err := h.Service.ListPublished(c.Context(), page, limit)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(response.NewPage(total, page, limit, items))
}

// ListPending GET /api/v1/case-studies/pending — review queue, elevated only
// (the permission check runs in middleware).
func (h *Handlers) ListPending(c *fiber.Ctx) error {
	page, limit := response.ClampPage(c.QueryInt("page", 1), c.QueryInt("limit", 10))
	items, total, err := h.Service.ListPending(c.Context(), page, limit)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(response.NewPage(total, page, limit, items))
}

// Get GET /api/v1/case-studies/:id — detail projection, any status.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.UnprocessableEntity(c, err.Error())
	}
	detail, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(detail)
}

// Events GET /api/v1/case-studies/:id/events — audit trail, oldest first.
func (h *Handlers) Events(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.UnprocessableEntity(c, err.Error())
	}
	events, err := h.Service.Events(c.Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(events)
}

// Create POST /api/v1/case-studies — multipart submission: a "metadata" JSON
// form field plus optional file parts. Files are stored before the database
// transaction runs.
func (h *Handlers) Create(c *fiber.Ctx) error {
	in, files, err := h.parseSubmission(c, true)
	if err != nil {
		return mapError(c, err)
	}
	detail, err := h.Service.Create(c.Context(), actor(c), in, files)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(detail)
}

// Update PUT /api/v1/case-studies/:id — full replace of one case study.
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.UnprocessableEntity(c, err.Error())
	}
	in, files, err := h.parseSubmission(c, true)
	if err != nil {
		return mapError(c, err)
	}
	detail, err := h.Service.Update(c.Context(), actor(c), id, in, files)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(detail)
}

// Preview POST /api/v1/case-studies/preview — hydrated echo of a submission.
// Nothing is persisted and no file leaves the request.
func (h *Handlers) Preview(c *fiber.Ctx) error {
	in, files, err := h.parseSubmission(c, false)
	if err != nil {
		return mapError(c, err)
	}
	detail, err := h.Service.Preview(c.Context(), actor(c), in, files)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(detail)
}

// Review PATCH /api/v1/case-studies/:id/review — approve or decline a
// pending case study.
func (h *Handlers) Review(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.UnprocessableEntity(c, err.Error())
	}
	var in cssvc.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return response.UnprocessableEntity(c, "Invalid review payload")
	}
	detail, err := h.Service.Review(c.Context(), actor(c), id, in)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(detail)
}

// Delete DELETE /api/v1/case-studies/:id — owners remove their own drafts,
// elevated roles remove anything.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.UnprocessableEntity(c, err.Error())
	}
	if err := h.Service.Delete(c.Context(), actor(c), id); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseSubmission decodes the metadata form field and collects the uploaded
// file parts. With save=false (preview) files contribute their name only and
// nothing is written to disk.
func (h *Handlers) parseSubmission(c *fiber.Ctx, save bool) (*cssvc.Input, cssvc.Files, error) {
	metadata := c.FormValue("metadata")
	if metadata == "" {
		return nil, cssvc.Files{}, &cssvc.ValidationError{Msg: "Invalid JSON metadata: field 'metadata' is required", Index: -1}
	}
	var in cssvc.Input
	if err := json.Unmarshal([]byte(metadata), &in); err != nil {
		return nil, cssvc.Files{}, &cssvc.ValidationError{Msg: "Invalid JSON metadata: " + err.Error(), Index: -1}
	}

	var files cssvc.Files
	parts := []struct {
		field string
		dest  **cssvc.FileInput
	}{
		{"file_methodology", &files.Methodology},
		{"file_dataset", &files.Dataset},
		{"file_logo", &files.Logo},
		{"file_additional_document", &files.AdditionalDoc},
	}
	for _, p := range parts {
		fh, err := c.FormFile(p.field)
		if err != nil || fh == nil {
			continue
		}
		file := &cssvc.FileInput{OriginalName: fh.Filename}
		if save {
			stored, err := h.Uploads.SaveMultipart(fh)
			if err != nil {
				return nil, cssvc.Files{}, err
			}
			file.StoredURL = stored.PublicURL
		}
		*p.dest = file
	}
	return &in, files, nil
}

func actor(c *fiber.Ctx) cssvc.Actor {
	user := middleware.GetUser(c)
	if user == nil {
		return cssvc.Actor{}
	}
	return cssvc.Actor{ID: user.ID, Role: user.Role}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("Invalid case study id")
	}
	return uint(id), nil
}

func mapError(c *fiber.Ctx, err error) error {
	var ve *cssvc.ValidationError
	switch {
	case errors.As(err, &ve):
		return response.UnprocessableEntity(c, ve.Msg)
	case errors.Is(err, cssvc.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, cssvc.ErrForbidden):
		return response.Forbidden(c, err.Error())
	default:
		return fiber.ErrInternalServerError
	}
}
