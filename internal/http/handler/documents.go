package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"kmapi/internal/model"
	"kmapi/internal/service"
)

type linkResponse struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type tagsResponse struct {
	Name string            `json:"name"`
	Tags map[string]string `json:"tags"`
}

type metadataResponse struct {
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}

type traitsRequest struct {
	Tags     map[string]string `json:"tags"`
	Metadata map[string]string `json:"metadata"`
}

type traitsResponse struct {
	Name     string            `json:"name"`
	Tags     map[string]string `json:"tags"`
	Metadata map[string]string `json:"metadata"`
}

// documentName returns the unescaped wildcard segment, which may itself contain slashes.
func documentName(c *fiber.Ctx) (string, error) {
	raw := c.Params("*")
	name, err := url.PathUnescape(raw)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(name, "/"), nil
}

// ListDocuments godoc
// @Summary List documents
// @Description Returns one page of documents. Pass continuation_token from the previous page to continue.
// @Tags documents
// @Produce json
// @Param prefix query string false "Name prefix"
// @Param page_size query int false "Page size (default 25, max 1000)"
// @Param continuation_token query string false "Token from the previous page"
// @Success 200 {object} model.DocumentPage
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pageSize := 0
		if v := c.Query("page_size"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE_SIZE", "invalid page_size")
			}
			pageSize = n
		}

		page, err := svc.GetDocuments(c.UserContext(), c.Query("prefix"), pageSize, c.Query("continuation_token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(page)
	}
}

// UploadDocuments godoc
// @Summary Upload documents
// @Description Uploads every file in the "files" field. Tags and metadata are JSON objects applied to each file.
// @Description Responds 201 when all files are stored and 207 when some were skipped.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to upload"
// @Param prefix formData string false "Name prefix"
// @Param tags formData string false "JSON object of tags"
// @Param metadata formData string false "JSON object of metadata"
// @Success 201 {object} service.UploadResult
// @Success 207 {object} service.UploadResult
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents [post]
func UploadDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil || len(form.File["files"]) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
		}

		tags, err := formJSON(form, "tags")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TAGS", "tags must be a JSON object of strings")
		}
		metadata, err := formJSON(form, "metadata")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_METADATA", "metadata must be a JSON object of strings")
		}
		prefix := strings.Trim(formValue(form, "prefix"), "/")

		docs := make([]model.Document, 0, len(form.File["files"]))
		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				closeContents(docs)
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}

			name := fh.Filename
			if prefix != "" {
				name = path.Join(prefix, name)
			}

			docs = append(docs, model.Document{
				Name:        name,
				Content:     f,
				ContentType: ct,
				Size:        fh.Size,
				Tags:        tags,
				Metadata:    metadata,
			})
		}

		res, err := svc.UploadDocuments(c.UserContext(), docs)
		if err != nil {
			return writeServiceError(c, err)
		}

		status := fiber.StatusCreated
		if len(res.Failed) > 0 {
			status = fiber.StatusMultiStatus
		}
		return c.Status(status).JSON(res)
	}
}

// DownloadDocument godoc
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Param name path string true "Document name"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents/content/{name} [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := documentName(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}

		rc, info, err := svc.DownloadDocument(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}

		ct := info.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", path.Base(name)))
		if info.ETag != "" {
			c.Set(fiber.HeaderETag, info.ETag)
		}

		size := int(info.Size)
		if info.Size <= 0 {
			size = -1
		}
		// fasthttp closes the stream once the body has been written.
		return c.SendStream(rc, size)
	}
}

// DeleteDocument godoc
// @Summary Delete a document
// @Tags documents
// @Param name path string true "Document name"
// @Success 204
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents/content/{name} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := documentName(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}
		if err := svc.DeleteDocument(c.UserContext(), name); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetDocumentLink godoc
// @Summary Presigned download link
// @Description Returns a time-limited URL that downloads the document directly from the object store.
// @Tags documents
// @Produce json
// @Param name path string true "Document name"
// @Param expires_in query int false "Link lifetime in seconds (default 900, max 604800)"
// @Success 200 {object} linkResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/link/{name} [get]
func GetDocumentLink(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := documentName(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}

		expiry := service.DefaultLinkExpiry
		if v := c.Query("expires_in"); v != "" {
			secs, err := strconv.Atoi(v)
			if err != nil || secs <= 0 || secs > int(service.MaxLinkExpiry/time.Second) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "invalid expires_in")
			}
			expiry = time.Duration(secs) * time.Second
		}

		issued := time.Now().UTC()
		u, err := svc.GetDocumentLink(c.UserContext(), name, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(linkResponse{Name: name, URL: u, ExpiresAt: issued.Add(expiry)})
	}
}

// GetDocumentTags godoc
// @Summary Get document tags
// @Tags traits
// @Produce json
// @Param name path string true "Document name"
// @Success 200 {object} tagsResponse
// @Failure 404 {object} errorPayload
// @Router /documents/tags/{name} [get]
func GetDocumentTags(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := documentName(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}
		tags, err := svc.GetDocumentTags(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tagsResponse{Name: name, Tags: nonNil(tags)})
	}
}

// SetDocumentTags godoc
// @Summary Merge document tags
// @Description Adds or overwrites the given tags. Keys absent from the body are kept; empty keys or values are removed.
// @Tags traits
// @Accept json
// @Produce json
// @Param name path string true "Document name"
// @Param tags body map[string]string true "Tag updates"
// @Success 200 {object} tagsResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/tags/{name} [patch]
func SetDocumentTags(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := documentName(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}
		var updates map[string]string
		if err := json.Unmarshal(c.Body(), &updates); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be a JSON object of strings")
		}
		tags, err := svc.SetDocumentTags(c.UserContext(), name, updates)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tagsResponse{Name: name, Tags: tags})
	}
}

// GetDocumentMetadata godoc
// @Summary Get document metadata
// @Tags traits
// @Produce json
// @Param name path string true "Document name"
// @Success 200 {object} metadataResponse
// @Failure 404 {object} errorPayload
// @Router /documents/metadata/{name} [get]
func GetDocumentMetadata(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := documentName(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}
		md, err := svc.GetDocumentMetadata(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(metadataResponse{Name: name, Metadata: nonNil(md)})
	}
}

// SetDocumentMetadata godoc
// @Summary Merge document metadata
// @Tags traits
// @Accept json
// @Produce json
// @Param name path string true "Document name"
// @Param metadata body map[string]string true "Metadata updates"
// @Success 200 {object} metadataResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/metadata/{name} [patch]
func SetDocumentMetadata(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := documentName(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}
		var updates map[string]string
		if err := json.Unmarshal(c.Body(), &updates); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be a JSON object of strings")
		}
		md, err := svc.SetDocumentMetadata(c.UserContext(), name, updates)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(metadataResponse{Name: name, Metadata: md})
	}
}

// SetDocumentTraits godoc
// @Summary Merge document tags and metadata
// @Tags traits
// @Accept json
// @Produce json
// @Param name path string true "Document name"
// @Param traits body traitsRequest true "Tag and metadata updates"
// @Success 200 {object} traitsResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/traits/{name} [patch]
func SetDocumentTraits(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := documentName(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}
		var req traitsRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must contain tags and metadata objects")
		}
		traits, err := svc.SetDocumentTraits(c.UserContext(), name, req.Tags, req.Metadata)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(traitsResponse{Name: name, Tags: traits.Tags, Metadata: traits.Metadata})
	}
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func formJSON(form *multipart.Form, key string) (map[string]string, error) {
	raw := strings.TrimSpace(formValue(form, key))
	if raw == "" {
		return nil, nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func closeContents(docs []model.Document) {
	for _, d := range docs {
		if f, ok := d.Content.(multipart.File); ok {
			f.Close()
		}
	}
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
