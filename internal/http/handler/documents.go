package handler

import (
	"mime"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"doclib/internal/http/middleware"
	"doclib/internal/model"
	"doclib/internal/service"
)

// principal returns the signed-in user of this request.
func principal(c *fiber.Ctx) (model.Principal, bool) {
	return middleware.PrincipalFromCtx(c)
}

func unauthorized(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
}

// pathID validates the :id parameter as a UUID.
func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments handles GET /documents?q=&subject=&tags=a,b&sort=&limit=
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}

		limit, err := strconv.Atoi(c.Query("limit", "0"))
		if err != nil || limit < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		sortKey, err := service.ParseSortKey(c.Query("sort"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SORT", "sort must be one of newest, oldest, name_asc, name_desc")
		}

		q := service.Query{
			SearchTerm:  c.Query("q"),
			SubjectName: c.Query("subject", service.AnySubject),
			Tags:        service.NormalizeTags(c.Query("tags")),
			Sort:        sortKey,
			Limit:       limit,
		}

		res, err := docSvc.List(c.UserContext(), p.UserID, q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument handles POST /documents (multipart/form-data: file, subject, tags).
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		// streamed bodies reach the handler without the BodyLimit check
		if limit := c.App().Config().BodyLimit; limit > 0 && fh.Size > int64(limit) {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "upload exceeds the size limit")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), service.UploadInput{
			UserID:      p.UserID,
			FileName:    fh.Filename,
			Content:     f,
			Size:        fh.Size,
			ContentType: ct,
			SubjectName: c.FormValue("subject"),
			Tags:        []string{c.FormValue("tags")},
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument handles GET /documents/:id
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), p.UserID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type updateDocumentRequest struct {
	SubjectID *string  `json:"subject_id"`
	Tags      []string `json:"tags"`
}

type updateDocumentResponse struct {
	Changed  bool            `json:"changed"`
	Document *model.Document `json:"document,omitempty"`
}

// UpdateDocument handles PATCH /documents/:id with {subject_id, tags}.
// Both fields are replaced; a null subject_id unclassifies the document.
func UpdateDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		changed, err := docSvc.Update(c.UserContext(), p.UserID, id, service.UpdateInput{
			SubjectID: req.SubjectID,
			Tags:      req.Tags,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		if !changed {
			return c.JSON(updateDocumentResponse{Changed: false})
		}

		doc, err := docSvc.Get(c.UserContext(), p.UserID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(updateDocumentResponse{Changed: true, Document: doc})
	}
}

// DeleteDocument handles DELETE /documents/:id
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), p.UserID, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadDocument handles GET /documents/:id/download and returns a signed URL.
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		link, err := docSvc.DownloadURL(c.UserContext(), p.UserID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(link)
	}
}

// DocumentContent handles GET /documents/:id/content and streams the file.
func DocumentContent(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, doc, err := docSvc.Open(c.UserContext(), p.UserID, id)
		if err != nil {
			return writeServiceError(c, err)
		}

		ct := doc.FileType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{
			"filename": strings.TrimSpace(doc.FileName),
		}))

		size := -1
		if doc.FileSize != nil {
			size = int(*doc.FileSize)
		}
		// fasthttp closes rc once the body is written
		return c.SendStream(rc, size)
	}
}

// GetStats handles GET /stats
func GetStats(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		st, err := docSvc.Stats(c.UserContext(), p.UserID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(st)
	}
}
