package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"kmapi/internal/logging"
	"kmapi/internal/model"
	"kmapi/internal/storage"
	storeMocks "kmapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(logging.NewHandler(&buf, slog.LevelDebug, "json")), &buf
}

func TestDocumentService_GetDocuments(t *testing.T) {
	ctx := context.Background()
	modified := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		pageSize   int
		token      string
		setupMocks func(mStore *storeMocks.MockStorage)
		wantErr    error
		checkRes   func(t *testing.T, res *model.DocumentPage)
	}{
		{
			name:     "happy path",
			pageSize: 2,
			token:    "abc",
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("List", mock.Anything, storage.ListOptions{Prefix: "reports/", PageSize: 2, ContinuationToken: "abc"}).
					Return(storage.ListPage{
						Objects: []storage.ObjectInfo{
							{Key: "reports/a.pdf", Size: 10, ContentType: "application/pdf", LastModified: modified},
							{Key: "reports/b.pdf", Size: 20, Tags: map[string]string{"team": "ml"}},
						},
						ContinuationToken: "next",
					}, nil)
			},
			checkRes: func(t *testing.T, res *model.DocumentPage) {
				require.Len(t, res.Items, 2)
				assert.Equal(t, "reports/a.pdf", res.Items[0].Name)
				assert.Equal(t, modified, res.Items[0].LastModified)
				assert.Equal(t, "ml", res.Items[1].Tags["team"])
				assert.Equal(t, "next", res.ContinuationToken)
			},
		},
		{
			name:     "zero page size uses default",
			pageSize: 0,
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("List", mock.Anything, storage.ListOptions{Prefix: "reports/", PageSize: DefaultPageSize}).
					Return(storage.ListPage{}, nil)
			},
			checkRes: func(t *testing.T, res *model.DocumentPage) {
				assert.NotNil(t, res.Items)
				assert.Empty(t, res.ContinuationToken)
			},
		},
		{
			name:     "oversized page is capped",
			pageSize: 5000,
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("List", mock.Anything, storage.ListOptions{Prefix: "reports/", PageSize: MaxPageSize}).
					Return(storage.ListPage{}, nil)
			},
		},
		{
			name:     "invalid token",
			pageSize: 10,
			token:    "???",
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("List", mock.Anything, mock.Anything).Return(storage.ListPage{}, storage.ErrInvalidToken)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:     "storage error",
			pageSize: 10,
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("List", mock.Anything, mock.Anything).Return(storage.ListPage{}, errors.New("list fail"))
			},
			wantErr: errors.New("list documents: list fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			log, _ := newTestLogger()
			svc := NewDocumentService(mStore, log)
			tt.setupMocks(mStore)

			res, err := svc.GetDocuments(ctx, "reports/", tt.pageSize, tt.token)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrInvalidToken) {
					assert.ErrorIs(t, err, ErrInvalidToken)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mStore.AssertExpectations(t)
		})
	}
}

func TestDocumentService_UploadDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads each document and closes content", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		log, _ := newTestLogger()
		svc := NewDocumentService(mStore, log)

		first := &closeTracker{Reader: strings.NewReader("hello")}
		second := &closeTracker{Reader: strings.NewReader("world")}

		mStore.On("Put", mock.Anything, "a.txt", first, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
			return o.Size == 5 && o.ContentType == "text/plain" &&
				o.Metadata["author"] == "kim" && o.Tags["team"] == "ml" && len(o.Tags) == 1
		})).Return(storage.ObjectInfo{Key: "a.txt"}, nil)
		mStore.On("Put", mock.Anything, "b.bin", second, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
			return o.Size == -1 && o.ContentType == "application/octet-stream"
		})).Return(storage.ObjectInfo{Key: "b.bin"}, nil)

		res, err := svc.UploadDocuments(ctx, []model.Document{
			{
				Name:        "a.txt",
				Content:     first,
				ContentType: "text/plain",
				Size:        5,
				Tags:        map[string]string{"team": "ml", "empty": ""},
				Metadata:    map[string]string{"Author": "kim"},
			},
			{Name: "b.bin", Content: second, Size: -1, LeaveOpen: true},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt", "b.bin"}, res.Uploaded)
		assert.Empty(t, res.Failed)
		assert.True(t, first.closed)
		assert.False(t, second.closed)
		mStore.AssertExpectations(t)
	})

	t.Run("failures are logged and skipped", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		log, buf := newTestLogger()
		svc := NewDocumentService(mStore, log)

		broken := &closeTracker{Reader: strings.NewReader("x")}
		mStore.On("Put", mock.Anything, "broken.txt", broken, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))
		mStore.On("Put", mock.Anything, "ok.txt", mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "ok.txt"}, nil)

		tooMany := map[string]string{}
		for i := 0; i <= MaxTags; i++ {
			tooMany[string(rune('a'+i))] = "v"
		}

		res, err := svc.UploadDocuments(ctx, []model.Document{
			{Name: "broken.txt", Content: broken, Size: 1},
			{Name: "", Content: strings.NewReader("nameless")},
			{Name: "nil.txt"},
			{Name: "tagged.txt", Content: strings.NewReader("t"), Tags: tooMany},
			{Name: "ok.txt", Content: strings.NewReader("ok"), Size: 2},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"ok.txt"}, res.Uploaded)
		assert.Equal(t, []string{"broken.txt", "", "nil.txt", "tagged.txt"}, res.Failed)
		assert.True(t, broken.closed)
		assert.Contains(t, buf.String(), "upload to storage: storage fail")
		assert.Contains(t, buf.String(), ErrTooManyTags.Error())
		mStore.AssertExpectations(t)
	})

	t.Run("empty batch", func(t *testing.T) {
		svc := NewDocumentService(new(storeMocks.MockStorage), nil)
		_, err := svc.UploadDocuments(ctx, nil)
		assert.ErrorIs(t, err, ErrNoDocuments)
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		log, _ := newTestLogger()
		svc := NewDocumentService(mStore, log)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := svc.UploadDocuments(cctx, []model.Document{{Name: "a.txt", Content: strings.NewReader("a")}})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, res.Uploaded)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentService_DownloadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, nil)
		body := io.NopCloser(strings.NewReader("content"))
		mStore.On("Get", mock.Anything, "a.txt").
			Return(body, storage.ObjectInfo{Key: "a.txt", Size: 7, ContentType: "text/plain"}, nil)

		rc, info, err := svc.DownloadDocument(ctx, "a.txt")
		require.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, int64(7), info.Size)
		assert.Equal(t, "text/plain", info.ContentType)
	})

	t.Run("not found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, nil)
		mStore.On("Get", mock.Anything, "missing").Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

		_, _, err := svc.DownloadDocument(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("name required", func(t *testing.T) {
		svc := NewDocumentService(new(storeMocks.MockStorage), nil)
		_, _, err := svc.DownloadDocument(ctx, "")
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		docName    string
		setupMocks func(mStore *storeMocks.MockStorage)
		wantErr    error
	}{
		{
			name:    "happy path",
			docName: "a.txt",
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("Stat", mock.Anything, "a.txt").Return(storage.ObjectInfo{Key: "a.txt"}, nil)
				mStore.On("Delete", mock.Anything, "a.txt").Return(nil)
			},
		},
		{
			name:       "validation - empty name",
			setupMocks: func(mStore *storeMocks.MockStorage) {},
			wantErr:    ErrNameRequired,
		},
		{
			name:    "not found",
			docName: "missing",
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("Stat", mock.Anything, "missing").Return(storage.ObjectInfo{}, storage.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "storage delete error",
			docName: "a.txt",
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("Stat", mock.Anything, "a.txt").Return(storage.ObjectInfo{Key: "a.txt"}, nil)
				mStore.On("Delete", mock.Anything, "a.txt").Return(errors.New("storage fail"))
			},
			wantErr: errors.New("delete storage: storage fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			log, _ := newTestLogger()
			svc := NewDocumentService(mStore, log)
			tt.setupMocks(mStore)

			err := svc.DeleteDocument(ctx, tt.docName)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrNameRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
		})
	}
}

func TestDocumentService_GetDocumentLink(t *testing.T) {
	ctx := context.Background()

	t.Run("default expiry", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, nil)
		mStore.On("Stat", mock.Anything, "a.pdf").Return(storage.ObjectInfo{Key: "a.pdf"}, nil)
		mStore.On("PresignGet", mock.Anything, "a.pdf", DefaultLinkExpiry).Return("https://store/a.pdf?sig=1", nil)

		u, err := svc.GetDocumentLink(ctx, "a.pdf", 0)
		require.NoError(t, err)
		assert.Equal(t, "https://store/a.pdf?sig=1", u)
		mStore.AssertExpectations(t)
	})

	t.Run("missing document", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, nil)
		mStore.On("Stat", mock.Anything, "gone.pdf").Return(storage.ObjectInfo{}, storage.ErrNotFound)

		_, err := svc.GetDocumentLink(ctx, "gone.pdf", time.Minute)
		assert.ErrorIs(t, err, ErrNotFound)
		mStore.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expiry too long", func(t *testing.T) {
		svc := NewDocumentService(new(storeMocks.MockStorage), nil)
		_, err := svc.GetDocumentLink(ctx, "a.pdf", 8*24*time.Hour)
		assert.ErrorIs(t, err, ErrLinkExpiry)
	})

	t.Run("presign error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, nil)
		mStore.On("Stat", mock.Anything, "a.pdf").Return(storage.ObjectInfo{Key: "a.pdf"}, nil)
		mStore.On("PresignGet", mock.Anything, "a.pdf", time.Hour).Return("", errors.New("no credentials"))

		_, err := svc.GetDocumentLink(ctx, "a.pdf", time.Hour)
		assert.EqualError(t, err, "presign: no credentials")
	})
}

func TestDocumentService_GetTraits(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	svc := NewDocumentService(mStore, nil)

	mStore.On("GetTags", mock.Anything, "a.txt").Return(map[string]string{"team": "ml"}, nil)
	mStore.On("Stat", mock.Anything, "a.txt").Return(storage.ObjectInfo{Key: "a.txt"}, nil)
	mStore.On("GetTags", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

	tags, err := svc.GetDocumentTags(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "ml", tags["team"])

	meta, err := svc.GetDocumentMetadata(ctx, "a.txt")
	require.NoError(t, err)
	assert.NotNil(t, meta)
	assert.Empty(t, meta)

	_, err = svc.GetDocumentTags(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentService_SetDocumentTags(t *testing.T) {
	ctx := context.Background()

	t.Run("merges and writes back", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		log, _ := newTestLogger()
		svc := NewDocumentService(mStore, log)

		mStore.On("GetTags", mock.Anything, "a.txt").Return(map[string]string{"team": "search", "year": "2023"}, nil)
		want := map[string]string{"team": "search", "year": "2024", "status": "done"}
		mStore.On("SetTags", mock.Anything, "a.txt", want).Return(nil)

		got, err := svc.SetDocumentTags(ctx, "a.txt", map[string]string{"year": "2024", "status": "done", "blank": ""})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		mStore.AssertExpectations(t)
	})

	t.Run("not found is logged critical and returned", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		log, buf := newTestLogger()
		svc := NewDocumentService(mStore, log)

		mStore.On("GetTags", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

		_, err := svc.SetDocumentTags(ctx, "missing", map[string]string{"a": "b"})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, buf.String(), `"level":"CRITICAL"`)
		assert.Contains(t, buf.String(), "set document tags failed")
		mStore.AssertNotCalled(t, "SetTags", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("too many tags after merge", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		log, _ := newTestLogger()
		svc := NewDocumentService(mStore, log)

		current := map[string]string{}
		for i := 0; i < MaxTags; i++ {
			current[string(rune('a'+i))] = "v"
		}
		mStore.On("GetTags", mock.Anything, "a.txt").Return(current, nil)

		_, err := svc.SetDocumentTags(ctx, "a.txt", map[string]string{"extra": "v"})
		assert.ErrorIs(t, err, ErrTooManyTags)
	})

	t.Run("write failure", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		log, buf := newTestLogger()
		svc := NewDocumentService(mStore, log)

		mStore.On("GetTags", mock.Anything, "a.txt").Return(map[string]string{}, nil)
		mStore.On("SetTags", mock.Anything, "a.txt", mock.Anything).Return(errors.New("denied"))

		_, err := svc.SetDocumentTags(ctx, "a.txt", map[string]string{"a": "b"})
		assert.EqualError(t, err, "write tags: denied")
		assert.Contains(t, buf.String(), "CRITICAL")
	})
}

func TestDocumentService_SetDocumentMetadata(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	log, _ := newTestLogger()
	svc := NewDocumentService(mStore, log)

	mStore.On("Stat", mock.Anything, "a.txt").
		Return(storage.ObjectInfo{Key: "a.txt", Metadata: map[string]string{"author": "kim", "source": "upload"}}, nil)
	want := map[string]string{"author": "lee", "source": "upload", "language": "en"}
	mStore.On("SetMetadata", mock.Anything, "a.txt", want).Return(nil)

	got, err := svc.SetDocumentMetadata(ctx, "a.txt", map[string]string{"Author": "lee", "language": "en"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	mStore.AssertExpectations(t)

	_, err = svc.SetDocumentMetadata(ctx, "", nil)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestDocumentService_SetDocumentTraits(t *testing.T) {
	ctx := context.Background()

	t.Run("tags then metadata", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		log, _ := newTestLogger()
		svc := NewDocumentService(mStore, log)

		mStore.On("GetTags", mock.Anything, "a.txt").Return(map[string]string{}, nil)
		mStore.On("SetTags", mock.Anything, "a.txt", map[string]string{"team": "ml"}).Return(nil)
		mStore.On("Stat", mock.Anything, "a.txt").Return(storage.ObjectInfo{Key: "a.txt"}, nil)
		mStore.On("SetMetadata", mock.Anything, "a.txt", map[string]string{"summary": "short"}).Return(nil)

		traits, err := svc.SetDocumentTraits(ctx, "a.txt", map[string]string{"team": "ml"}, map[string]string{"summary": "short"})
		require.NoError(t, err)
		assert.Equal(t, "ml", traits.Tags["team"])
		assert.Equal(t, "short", traits.Metadata["summary"])
		mStore.AssertExpectations(t)
	})

	t.Run("metadata failure", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		log, buf := newTestLogger()
		svc := NewDocumentService(mStore, log)

		mStore.On("GetTags", mock.Anything, "a.txt").Return(map[string]string{}, nil)
		mStore.On("SetTags", mock.Anything, "a.txt", mock.Anything).Return(nil)
		mStore.On("Stat", mock.Anything, "a.txt").Return(storage.ObjectInfo{}, errors.New("stat fail"))

		_, err := svc.SetDocumentTraits(ctx, "a.txt", map[string]string{"a": "b"}, map[string]string{"c": "d"})
		assert.EqualError(t, err, "stat fail")
		assert.Contains(t, buf.String(), `"stage":"metadata"`)
	})
}
