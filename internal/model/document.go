package model

import (
	"io"
	"time"
)

// Document is a single upload unit: an object name, its streamed content and the traits
// (tags and user metadata) to attach to it.
// When LeaveOpen is false the uploader closes Content after the attempt if it is an io.Closer.
type Document struct {
	Name        string            `json:"name"`
	Content     io.Reader         `json:"-"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	Tags        map[string]string `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	LeaveOpen   bool              `json:"-"`
}

// DocumentInfo describes a stored document as reported by the object store.
type DocumentInfo struct {
	Name         string            `json:"name"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	Tags         map[string]string `json:"tags,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// DocumentPage is one page of a document listing.
// ContinuationToken is empty when there are no further pages.
type DocumentPage struct {
	Items             []DocumentInfo `json:"items"`
	ContinuationToken string         `json:"continuation_token,omitempty"`
}
