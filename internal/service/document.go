package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kmapi/internal/logging"
	"kmapi/internal/model"
	"kmapi/internal/storage"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = storage.MaxPageSize

	DefaultLinkExpiry = 15 * time.Minute
	// MaxLinkExpiry is the SigV4 presign ceiling.
	MaxLinkExpiry = 7 * 24 * time.Hour
)

var (
	ErrNameRequired = errors.New("document name is required")
	ErrNotFound     = errors.New("document not found")
	ErrReaderNil    = errors.New("reader is nil")
	ErrNoDocuments  = errors.New("no documents to upload")
	ErrTooManyTags  = fmt.Errorf("a document may carry at most %d tags", MaxTags)
	ErrInvalidToken = errors.New("invalid continuation token")
	ErrLinkExpiry   = errors.New("link expiry exceeds 7 days")
)

var tracer = otel.Tracer("kmapi/internal/service")

// UploadResult names the documents that were stored and those that were skipped.
type UploadResult struct {
	Uploaded []string `json:"uploaded"`
	Failed   []string `json:"failed"`
}

// Traits is the combined tag and metadata view of a document.
type Traits struct {
	Tags     map[string]string `json:"tags"`
	Metadata map[string]string `json:"metadata"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// GetDocuments returns one page of documents under prefix.
	// pageSize <= 0 uses DefaultPageSize; larger values are capped at MaxPageSize.
	GetDocuments(ctx context.Context, prefix string, pageSize int, continuationToken string) (*model.DocumentPage, error)

	// UploadDocuments uploads each document in turn. A failing document is logged and skipped;
	// only an empty batch or a cancelled context is reported as an error.
	UploadDocuments(ctx context.Context, docs []model.Document) (*UploadResult, error)

	// DownloadDocument streams a document's content. The caller closes the reader.
	DownloadDocument(ctx context.Context, name string) (io.ReadCloser, *model.DocumentInfo, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, name string) error

	// GetDocumentLink returns a presigned download URL valid for expiry (DefaultLinkExpiry when <= 0).
	GetDocumentLink(ctx context.Context, name string, expiry time.Duration) (string, error)

	GetDocumentTags(ctx context.Context, name string) (map[string]string, error)
	GetDocumentMetadata(ctx context.Context, name string) (map[string]string, error)

	// SetDocumentTags merges updates into the current tags and returns the stored set.
	SetDocumentTags(ctx context.Context, name string, updates map[string]string) (map[string]string, error)

	// SetDocumentMetadata merges updates into the current metadata and returns the stored set.
	SetDocumentMetadata(ctx context.Context, name string, updates map[string]string) (map[string]string, error)

	// SetDocumentTraits applies tag then metadata updates.
	SetDocumentTraits(ctx context.Context, name string, tags, metadata map[string]string) (*Traits, error)
}

type documentService struct {
	store storage.Storage
	log   *slog.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, log *slog.Logger) DocumentService {
	return &documentService{store: store, log: logging.Component(log, "documents")}
}

func (s *documentService) GetDocuments(ctx context.Context, prefix string, pageSize int, continuationToken string) (*model.DocumentPage, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.GetDocuments", trace.WithAttributes(
		attribute.String("documents.prefix", prefix),
	))
	defer span.End()

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	page, err := s.store.List(ctx, storage.ListOptions{
		Prefix:            prefix,
		PageSize:          pageSize,
		ContinuationToken: continuationToken,
	})
	if err != nil {
		recordError(span, err)
		if errors.Is(err, storage.ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("list documents: %w", err)
	}

	out := &model.DocumentPage{
		Items:             make([]model.DocumentInfo, 0, len(page.Objects)),
		ContinuationToken: page.ContinuationToken,
	}
	for _, o := range page.Objects {
		out.Items = append(out.Items, toDocumentInfo(o))
	}
	span.SetAttributes(attribute.Int("documents.count", len(out.Items)))
	return out, nil
}

func (s *documentService) UploadDocuments(ctx context.Context, docs []model.Document) (*UploadResult, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	ctx, span := tracer.Start(ctx, "DocumentService.UploadDocuments", trace.WithAttributes(
		attribute.Int("documents.count", len(docs)),
	))
	defer span.End()

	res := &UploadResult{Uploaded: []string{}, Failed: []string{}}
	for i := range docs {
		if err := ctx.Err(); err != nil {
			recordError(span, err)
			return res, err
		}

		doc := &docs[i]
		if err := s.uploadOne(ctx, doc); err != nil {
			s.log.ErrorContext(ctx, "document upload failed", "name", doc.Name, "error", err)
			res.Failed = append(res.Failed, doc.Name)
			continue
		}
		s.log.InfoContext(ctx, "document uploaded", "name", doc.Name, "size", doc.Size)
		res.Uploaded = append(res.Uploaded, doc.Name)
	}

	span.SetAttributes(attribute.Int("documents.failed", len(res.Failed)))
	return res, nil
}

func (s *documentService) uploadOne(ctx context.Context, doc *model.Document) error {
	if !doc.LeaveOpen {
		if c, ok := doc.Content.(io.Closer); ok {
			defer c.Close()
		}
	}
	if doc.Name == "" {
		return ErrNameRequired
	}
	if doc.Content == nil {
		return ErrReaderNil
	}

	tags := mergeTags(nil, doc.Tags)
	if len(tags) > MaxTags {
		return ErrTooManyTags
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	size := doc.Size
	if size < 0 {
		size = -1
	}

	_, err := s.store.Put(ctx, doc.Name, doc.Content, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    mergeMetadata(nil, doc.Metadata),
		Tags:        tags,
	})
	if err != nil {
		return fmt.Errorf("upload to storage: %w", err)
	}
	return nil
}

func (s *documentService) DownloadDocument(ctx context.Context, name string) (io.ReadCloser, *model.DocumentInfo, error) {
	if name == "" {
		return nil, nil, ErrNameRequired
	}
	ctx, span := tracer.Start(ctx, "DocumentService.DownloadDocument", nameAttr(name))
	defer span.End()

	rc, info, err := s.store.Get(ctx, name)
	if err != nil {
		recordError(span, err)
		return nil, nil, mapStorageError(err)
	}
	di := toDocumentInfo(info)
	return rc, &di, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, name string) error {
	if name == "" {
		return ErrNameRequired
	}
	ctx, span := tracer.Start(ctx, "DocumentService.DeleteDocument", nameAttr(name))
	defer span.End()

	// Delete is idempotent on S3, so existence is checked first to report missing documents.
	if _, err := s.store.Stat(ctx, name); err != nil {
		recordError(span, err)
		return mapStorageError(err)
	}
	if err := s.store.Delete(ctx, name); err != nil {
		recordError(span, err)
		return fmt.Errorf("delete storage: %w", err)
	}
	s.log.InfoContext(ctx, "document deleted", "name", name)
	return nil
}

func (s *documentService) GetDocumentLink(ctx context.Context, name string, expiry time.Duration) (string, error) {
	if name == "" {
		return "", ErrNameRequired
	}
	if expiry <= 0 {
		expiry = DefaultLinkExpiry
	}
	if expiry > MaxLinkExpiry {
		return "", ErrLinkExpiry
	}

	// Presigning does not check that the object exists.
	if _, err := s.store.Stat(ctx, name); err != nil {
		return "", mapStorageError(err)
	}
	u, err := s.store.PresignGet(ctx, name, expiry)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return u, nil
}

func (s *documentService) GetDocumentTags(ctx context.Context, name string) (map[string]string, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	tags, err := s.store.GetTags(ctx, name)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return tags, nil
}

func (s *documentService) GetDocumentMetadata(ctx context.Context, name string) (map[string]string, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	info, err := s.store.Stat(ctx, name)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if info.Metadata == nil {
		return map[string]string{}, nil
	}
	return info.Metadata, nil
}

func (s *documentService) SetDocumentTags(ctx context.Context, name string, updates map[string]string) (map[string]string, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	ctx, span := tracer.Start(ctx, "DocumentService.SetDocumentTags", nameAttr(name))
	defer span.End()

	merged, err := s.setTags(ctx, name, updates)
	if err != nil {
		recordError(span, err)
		logging.Critical(ctx, s.log, "set document tags failed", "name", name, "error", err)
		return nil, err
	}
	return merged, nil
}

func (s *documentService) SetDocumentMetadata(ctx context.Context, name string, updates map[string]string) (map[string]string, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	ctx, span := tracer.Start(ctx, "DocumentService.SetDocumentMetadata", nameAttr(name))
	defer span.End()

	merged, err := s.setMetadata(ctx, name, updates)
	if err != nil {
		recordError(span, err)
		logging.Critical(ctx, s.log, "set document metadata failed", "name", name, "error", err)
		return nil, err
	}
	return merged, nil
}

func (s *documentService) SetDocumentTraits(ctx context.Context, name string, tags, metadata map[string]string) (*Traits, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	ctx, span := tracer.Start(ctx, "DocumentService.SetDocumentTraits", nameAttr(name))
	defer span.End()

	mergedTags, err := s.setTags(ctx, name, tags)
	if err != nil {
		recordError(span, err)
		logging.Critical(ctx, s.log, "set document traits failed", "name", name, "stage", "tags", "error", err)
		return nil, err
	}
	mergedMeta, err := s.setMetadata(ctx, name, metadata)
	if err != nil {
		recordError(span, err)
		logging.Critical(ctx, s.log, "set document traits failed", "name", name, "stage", "metadata", "error", err)
		return nil, err
	}
	return &Traits{Tags: mergedTags, Metadata: mergedMeta}, nil
}

func (s *documentService) setTags(ctx context.Context, name string, updates map[string]string) (map[string]string, error) {
	current, err := s.store.GetTags(ctx, name)
	if err != nil {
		return nil, mapStorageError(err)
	}
	merged := mergeTags(current, updates)
	if len(merged) > MaxTags {
		return nil, ErrTooManyTags
	}
	if err := s.store.SetTags(ctx, name, merged); err != nil {
		return nil, fmt.Errorf("write tags: %w", mapStorageError(err))
	}
	return merged, nil
}

func (s *documentService) setMetadata(ctx context.Context, name string, updates map[string]string) (map[string]string, error) {
	info, err := s.store.Stat(ctx, name)
	if err != nil {
		return nil, mapStorageError(err)
	}
	merged := mergeMetadata(info.Metadata, updates)
	if err := s.store.SetMetadata(ctx, name, merged); err != nil {
		return nil, fmt.Errorf("write metadata: %w", mapStorageError(err))
	}
	return merged, nil
}

func toDocumentInfo(o storage.ObjectInfo) model.DocumentInfo {
	return model.DocumentInfo{
		Name:         o.Key,
		Size:         o.Size,
		ContentType:  o.ContentType,
		ETag:         o.ETag,
		LastModified: o.LastModified,
		Tags:         o.Tags,
		Metadata:     o.Metadata,
	}
}

func mapStorageError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func nameAttr(name string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("document.name", name))
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
