package controller

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-cloudlet-service/config"
	"github.com/tnqbao/gau-cloudlet-service/infra"
	"github.com/tnqbao/gau-cloudlet-service/repository"
	"github.com/tnqbao/gau-cloudlet-service/service"
)

type ReconcileRequester interface {
	PublishReconcileRequest(ctx context.Context, ownerID uuid.UUID) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Hierarchy  *service.HierarchyService

	// nil when no broker is configured
	Reconcile ReconcileRequester
	// dependencies probed by /health, by name
	HealthChecks map[string]Pinger
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}

	opts := []service.Option{
		service.WithLogger(infra.Logger),
		service.WithPresignExpiry(config.EnvConfig.Storage.PresignExpiry),
		service.WithUploadVerification(config.EnvConfig.Storage.VerifyUploads),
	}
	if infra.Redis != nil {
		opts = append(opts, service.WithURLCache(infra.Redis))
	}

	ctrl := &Controller{
		Config:       config,
		Infra:        infra,
		Repository:   repo,
		HealthChecks: map[string]Pinger{},
	}

	if infra.Produce != nil && infra.Produce.StorageEvents != nil {
		opts = append(opts, service.WithPublisher(infra.Produce.StorageEvents))
		ctrl.Reconcile = infra.Produce.StorageEvents
	}

	if infra.Postgres != nil {
		ctrl.HealthChecks["postgres"] = infra.Postgres
	}
	if infra.Redis != nil {
		ctrl.HealthChecks["redis"] = infra.Redis
	}
	if infra.Storage != nil {
		ctrl.HealthChecks["storage"] = infra.Storage
	}

	ctrl.Hierarchy = service.NewHierarchyService(repo.FolderRepo, repo.FileRepo, infra.Storage, opts...)

	return ctrl
}
