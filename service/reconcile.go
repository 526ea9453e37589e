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
	"github.com/tnqbao/gau-cloudlet-service/infra"
)

type FileInventory interface {
	ListStorageIDs(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	CountOrphans(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type FolderInventory interface {
	CountOrphans(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type ReconcileReport struct {
	OwnerID            uuid.UUID `json:"owner_id"`
	ObjectsScanned     int       `json:"objects_scanned"`
	OrphanBlobsDeleted int       `json:"orphan_blobs_deleted"`
	// unregistered blobs still inside the grace window
	OrphanBlobsPending int       `json:"orphan_blobs_pending"`
	MissingBlobs       int       `json:"missing_blobs"`
	OrphanFiles        int64     `json:"orphan_files"`
	OrphanFolders      int64     `json:"orphan_folders"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
}

// Reconciler repairs drift between the bucket and the metadata rows. It deletes
// unregistered blobs once they are older than the grace period and only reports
// rows whose blob or parent folder is gone.
type Reconciler struct {
	files   FileInventory
	folders FolderInventory
	storage infra.ObjectStoreGateway
	logger  *infra.LoggerClient
	grace   time.Duration
	now     func() time.Time
}

func NewReconciler(files FileInventory, folders FolderInventory, storage infra.ObjectStoreGateway, logger *infra.LoggerClient, grace time.Duration) *Reconciler {
	if logger == nil {
		logger = infra.NewLoggerClient(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	if grace <= 0 {
		grace = 2 * DefaultPresignExpiry
	}
	return &Reconciler{
		files:   files,
		folders: folders,
		storage: storage,
		logger:  logger,
		grace:   grace,
		now:     time.Now,
	}
}

// Sweep reconciles one owner's prefix, or the whole bucket when ownerID is uuid.Nil.
// Failed blob deletions are joined into the returned error alongside a complete report.
func (r *Reconciler) Sweep(ctx context.Context, ownerID uuid.UUID) (*ReconcileReport, error) {
	report := &ReconcileReport{OwnerID: ownerID, StartedAt: r.now()}
	prefix := OwnerPrefix(ownerID)

	objects, err := r.storage.ListObjects(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	report.ObjectsScanned = len(objects)

	storageIDs, err := r.files.ListStorageIDs(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered storage ids: %w", err)
	}

	registered := make(map[string]struct{}, len(storageIDs))
	for _, id := range storageIDs {
		registered[id] = struct{}{}
	}

	stored := make(map[string]struct{}, len(objects))
	cutoff := report.StartedAt.Add(-r.grace)
	var deleteErrs []error
	for _, obj := range objects {
		stored[obj.Key] = struct{}{}
		if _, ok := registered[obj.Key]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			report.OrphanBlobsPending++
			continue
		}
		if err := r.storage.DeleteObject(ctx, obj.Key); err != nil {
			deleteErrs = append(deleteErrs, fmt.Errorf("delete %s: %w", obj.Key, err))
			continue
		}
		report.OrphanBlobsDeleted++
	}

	for _, id := range storageIDs {
		// keys registered outside the scanned prefix were not listed
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if _, ok := stored[id]; !ok {
			report.MissingBlobs++
		}
	}

	if report.OrphanFiles, err = r.files.CountOrphans(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("failed to count orphaned files: %w", err)
	}
	if report.OrphanFolders, err = r.folders.CountOrphans(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("failed to count orphaned folders: %w", err)
	}

	report.FinishedAt = r.now()

	r.logger.InfoWithContextf(ctx,
		"[Reconcile] owner=%s scanned=%d deleted=%d pending=%d missing=%d orphan_files=%d orphan_folders=%d",
		ownerID, report.ObjectsScanned, report.OrphanBlobsDeleted, report.OrphanBlobsPending,
		report.MissingBlobs, report.OrphanFiles, report.OrphanFolders)

	if len(deleteErrs) > 0 {
		return report, errors.Join(deleteErrs...)
	}
	return report, nil
}
