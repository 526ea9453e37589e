package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-cloudlet-service/entity"
	"github.com/tnqbao/gau-cloudlet-service/infra"
	"github.com/tnqbao/gau-cloudlet-service/infra/produce"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	instrumentationName = "github.com/tnqbao/gau-cloudlet-service/service"

	DefaultPresignExpiry      = time.Hour
	DefaultPresignConcurrency = 8
	defaultContentType        = "application/octet-stream"

	// cached download URLs expire this much earlier than the URL itself
	urlCacheMargin = 5 * time.Minute
)

type FolderStore interface {
	Create(ctx context.Context, folder *entity.Folder) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Folder, error)
	ListByOwnerAndParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]entity.Folder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type FileStore interface {
	Create(ctx context.Context, file *entity.File) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error)
	ListByOwnerAndParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]entity.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type URLCache interface {
	GetDownloadURL(ctx context.Context, storageID string) (string, bool, error)
	SetDownloadURL(ctx context.Context, storageID, url string, ttl time.Duration) error
	DeleteDownloadURL(ctx context.Context, storageID string) error
}

type EventPublisher interface {
	PublishFileRegistered(ctx context.Context, msg produce.FileEventMessage) error
	PublishFileDeleted(ctx context.Context, msg produce.FileEventMessage) error
	PublishFolderDeleted(ctx context.Context, msg produce.FolderEventMessage) error
}

type UploadGrant struct {
	UploadURL string    `json:"upload_url"`
	StorageID string    `json:"storage_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileListing is a file row with a time-limited download URL attached.
type FileListing struct {
	entity.File
	URL string `json:"url"`
}

type Listing struct {
	Files   []FileListing   `json:"files"`
	Folders []entity.Folder `json:"folders"`
}

// HierarchyService keeps folder/file metadata and stored blobs in step for a single owner.
type HierarchyService struct {
	folders  FolderStore
	files    FileStore
	storage  infra.ObjectStoreGateway
	identity IdentityResolver

	cache     URLCache
	publisher EventPublisher
	logger    *infra.LoggerClient

	presignExpiry      time.Duration
	presignConcurrency int
	verifyUploads      bool

	tracer     trace.Tracer
	operations metric.Int64Counter
	now        func() time.Time
}

type Option func(*HierarchyService)

func WithLogger(logger *infra.LoggerClient) Option {
	return func(s *HierarchyService) { s.logger = logger }
}

func WithURLCache(cache URLCache) Option {
	return func(s *HierarchyService) { s.cache = cache }
}

func WithPublisher(publisher EventPublisher) Option {
	return func(s *HierarchyService) { s.publisher = publisher }
}

func WithIdentityResolver(resolver IdentityResolver) Option {
	return func(s *HierarchyService) { s.identity = resolver }
}

func WithPresignExpiry(expiry time.Duration) Option {
	return func(s *HierarchyService) {
		if expiry > 0 {
			s.presignExpiry = expiry
		}
	}
}

func WithPresignConcurrency(n int) Option {
	return func(s *HierarchyService) {
		if n > 0 {
			s.presignConcurrency = n
		}
	}
}

// WithUploadVerification makes RegisterFile stat the object before inserting the row.
func WithUploadVerification(enabled bool) Option {
	return func(s *HierarchyService) { s.verifyUploads = enabled }
}

func NewHierarchyService(folders FolderStore, files FileStore, storage infra.ObjectStoreGateway, opts ...Option) *HierarchyService {
	s := &HierarchyService{
		folders:            folders,
		files:              files,
		storage:            storage,
		identity:           ContextIdentity{},
		logger:             infra.NewLoggerClient(slog.New(slog.NewTextHandler(io.Discard, nil))),
		presignExpiry:      DefaultPresignExpiry,
		presignConcurrency: DefaultPresignConcurrency,
		tracer:             otel.Tracer(instrumentationName),
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	operations, err := otel.Meter(instrumentationName).Int64Counter(
		"cloudlet.hierarchy.operations",
		metric.WithDescription("Hierarchy service operations by name and outcome"),
	)
	if err != nil {
		s.logger.WarningWithContextf(context.Background(), "[Hierarchy] Failed to create operations counter: %v", err)
	}
	s.operations = operations

	return s
}

func (s *HierarchyService) startOperation(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "HierarchyService."+name)
}

func (s *HierarchyService) finishOperation(ctx context.Context, span trace.Span, name string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.operations != nil {
		s.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", name),
			attribute.String("outcome", outcome),
		))
	}
	span.End()
}

// IssueUploadGrant returns a presigned PUT for a fresh storage key. Nothing is persisted;
// an abandoned upload leaves at most an orphan blob for the reconciler.
func (s *HierarchyService) IssueUploadGrant(ctx context.Context, name, contentType string) (grant *UploadGrant, err error) {
	ctx, span := s.startOperation(ctx, "IssueUploadGrant")
	defer func() { s.finishOperation(ctx, span, "IssueUploadGrant", err) }()

	ownerID, ok := s.identity.ResolveCaller(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	storageID := NewStorageKey(ownerID, name)
	expiresAt := s.now().Add(s.presignExpiry)

	uploadURL, err := s.storage.PresignPut(ctx, storageID, contentType, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	span.SetAttributes(attribute.String("cloudlet.storage_id", storageID))

	return &UploadGrant{
		UploadURL: uploadURL,
		StorageID: storageID,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *HierarchyService) RegisterFile(ctx context.Context, name string, size int64, storageID string, parentID *uuid.UUID) (fileID uuid.UUID, err error) {
	ctx, span := s.startOperation(ctx, "RegisterFile")
	defer func() { s.finishOperation(ctx, span, "RegisterFile", err) }()

	ownerID, ok := s.identity.ResolveCaller(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthorized
	}
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if storageID == "" {
		return uuid.Nil, fmt.Errorf("%w: storage id is required", ErrInvalidArgument)
	}
	if !strings.HasPrefix(storageID, OwnerPrefix(ownerID)) {
		return uuid.Nil, fmt.Errorf("%w: storage id is outside the caller's namespace", ErrInvalidArgument)
	}
	if size < 0 {
		return uuid.Nil, fmt.Errorf("%w: size must not be negative", ErrInvalidArgument)
	}

	if s.verifyUploads {
		exists, err := s.storage.StatObject(ctx, storageID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to verify upload: %w", err)
		}
		if !exists {
			return uuid.Nil, ErrStorageUploadUnverified
		}
	}

	file := &entity.File{
		ID:        uuid.New(),
		Name:      name,
		Size:      size,
		StorageID: storageID,
		ParentID:  parentID,
		OwnerID:   ownerID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return uuid.Nil, fmt.Errorf("%w: storage id already registered", ErrInvalidArgument)
		}
		return uuid.Nil, fmt.Errorf("failed to create file: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishFileRegistered(ctx, fileEvent(file)); err != nil {
			s.logger.WarningWithContextf(ctx, "[Hierarchy] Failed to publish file.registered for %s: %v", file.ID, err)
		}
	}

	return file.ID, nil
}

// CreateFolder does not check that parentID exists or belongs to the caller, and
// sibling names may repeat.
func (s *HierarchyService) CreateFolder(ctx context.Context, name string, parentID *uuid.UUID) (folderID uuid.UUID, err error) {
	ctx, span := s.startOperation(ctx, "CreateFolder")
	defer func() { s.finishOperation(ctx, span, "CreateFolder", err) }()

	ownerID, ok := s.identity.ResolveCaller(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthorized
	}
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}

	folder := &entity.Folder{
		ID:       uuid.New(),
		Name:     name,
		ParentID: parentID,
		OwnerID:  ownerID,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return folder.ID, nil
}

// ListChildren returns the caller's items directly under parentID (nil is the root).
// Anonymous callers get empty lists. A single failed presign fails the whole listing.
func (s *HierarchyService) ListChildren(ctx context.Context, parentID *uuid.UUID) (listing *Listing, err error) {
	ctx, span := s.startOperation(ctx, "ListChildren")
	defer func() { s.finishOperation(ctx, span, "ListChildren", err) }()

	listing = &Listing{
		Files:   []FileListing{},
		Folders: []entity.Folder{},
	}

	ownerID, ok := s.identity.ResolveCaller(ctx)
	if !ok {
		return listing, nil
	}

	folders, err := s.folders.ListByOwnerAndParent(ctx, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	files, err := s.files.ListByOwnerAndParent(ctx, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	fileListings := make([]FileListing, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.presignConcurrency)
	for i := range files {
		g.Go(func() error {
			url, err := s.downloadURL(gctx, files[i].StorageID)
			if err != nil {
				return fmt.Errorf("failed to presign download for file %s: %w", files[i].ID, err)
			}
			fileListings[i] = FileListing{File: files[i], URL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("cloudlet.files", len(files)),
		attribute.Int("cloudlet.folders", len(folders)),
	)

	listing.Files = fileListings
	if len(folders) > 0 {
		listing.Folders = folders
	}
	return listing, nil
}

func (s *HierarchyService) downloadURL(ctx context.Context, storageID string) (string, error) {
	if s.cache != nil {
		url, found, err := s.cache.GetDownloadURL(ctx, storageID)
		if err != nil {
			s.logger.WarningWithContextf(ctx, "[Hierarchy] Download URL cache read failed for %s: %v", storageID, err)
		} else if found {
			return url, nil
		}
	}

	url, err := s.storage.PresignGet(ctx, storageID, s.presignExpiry)
	if err != nil {
		return "", err
	}

	if ttl := s.presignExpiry - urlCacheMargin; s.cache != nil && ttl > 0 {
		if err := s.cache.SetDownloadURL(ctx, storageID, url, ttl); err != nil {
			s.logger.WarningWithContextf(ctx, "[Hierarchy] Download URL cache write failed for %s: %v", storageID, err)
		}
	}

	return url, nil
}

// DeleteFile removes the blob and then the row. If the blob delete fails the row is kept
// and ErrStorageDeleteFailed is returned, so the file stays listable and retryable.
func (s *HierarchyService) DeleteFile(ctx context.Context, fileID uuid.UUID) (err error) {
	ctx, span := s.startOperation(ctx, "DeleteFile")
	defer func() { s.finishOperation(ctx, span, "DeleteFile", err) }()

	ownerID, ok := s.identity.ResolveCaller(ctx)
	if !ok {
		return ErrUnauthorized
	}

	file, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AccessError{Entity: "file", Kind: ErrNotFound}
		}
		return fmt.Errorf("failed to load file: %w", err)
	}
	if file.OwnerID != ownerID {
		return &AccessError{Entity: "file", Kind: ErrForbidden}
	}

	if err := s.storage.DeleteObject(ctx, file.StorageID); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageDeleteFailed, err)
	}

	if err := s.files.Delete(ctx, fileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AccessError{Entity: "file", Kind: ErrNotFound}
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteDownloadURL(ctx, file.StorageID); err != nil {
			s.logger.WarningWithContextf(ctx, "[Hierarchy] Failed to drop cached URL for %s: %v", file.StorageID, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishFileDeleted(ctx, fileEvent(file)); err != nil {
			s.logger.WarningWithContextf(ctx, "[Hierarchy] Failed to publish file.deleted for %s: %v", file.ID, err)
		}
	}

	return nil
}

// DeleteFolder removes only the folder row. Children keep their parent id and drop out
// of every listing; the reconciler reports them.
func (s *HierarchyService) DeleteFolder(ctx context.Context, folderID uuid.UUID) (err error) {
	ctx, span := s.startOperation(ctx, "DeleteFolder")
	defer func() { s.finishOperation(ctx, span, "DeleteFolder", err) }()

	ownerID, ok := s.identity.ResolveCaller(ctx)
	if !ok {
		return ErrUnauthorized
	}

	folder, err := s.folders.FindByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AccessError{Entity: "folder", Kind: ErrNotFound}
		}
		return fmt.Errorf("failed to load folder: %w", err)
	}
	if folder.OwnerID != ownerID {
		return &AccessError{Entity: "folder", Kind: ErrForbidden}
	}

	if err := s.folders.Delete(ctx, folderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AccessError{Entity: "folder", Kind: ErrNotFound}
		}
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	if s.publisher != nil {
		msg := produce.FolderEventMessage{
			FolderID: folder.ID.String(),
			OwnerID:  folder.OwnerID.String(),
		}
		if err := s.publisher.PublishFolderDeleted(ctx, msg); err != nil {
			s.logger.WarningWithContextf(ctx, "[Hierarchy] Failed to publish folder.deleted for %s: %v", folder.ID, err)
		}
	}

	return nil
}

func fileEvent(file *entity.File) produce.FileEventMessage {
	msg := produce.FileEventMessage{
		FileID:    file.ID.String(),
		OwnerID:   file.OwnerID.String(),
		StorageID: file.StorageID,
		Name:      file.Name,
		Size:      file.Size,
	}
	if file.ParentID != nil {
		msg.ParentID = file.ParentID.String()
	}
	return msg
}
