package app

import (
	"context"
	"fmt"

	ingestionRepository "github.com/allisson/docgate/internal/ingestion/repository"
	ingestionUsecase "github.com/allisson/docgate/internal/ingestion/usecase"
)

// UploadRepository returns the upload ledger repository for the configured driver.
func (c *Container) UploadRepository() (ingestionUsecase.UploadRepository, error) {
	c.uploadRepoInit.Do(func() {
		if c.config.DBDriver == memoryDriver {
			c.uploadRepo = ingestionRepository.NewMemoryUploadRepository()
			return
		}

		db, err := c.DB()
		if err != nil {
			c.initErrors["uploadRepo"] = fmt.Errorf("failed to get database for upload repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "postgres":
			c.uploadRepo = ingestionRepository.NewPostgreSQLUploadRepository(db)
		case "mysql":
			c.uploadRepo = ingestionRepository.NewMySQLUploadRepository(db)
		default:
			c.initErrors["uploadRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["uploadRepo"]; exists {
		return nil, storedErr
	}
	return c.uploadRepo, nil
}

// UploadUseCase returns the upload ledger use case, wrapped with metrics when enabled.
func (c *Container) UploadUseCase(ctx context.Context) (ingestionUsecase.UploadUseCase, error) {
	c.uploadUseCaseInit.Do(func() {
		uploadRepo, err := c.UploadRepository()
		if err != nil {
			c.initErrors["uploadUseCase"] = fmt.Errorf("failed to get upload repository: %w", err)
			return
		}

		blobService, err := c.BlobService(ctx)
		if err != nil {
			c.initErrors["uploadUseCase"] = fmt.Errorf("failed to get blob service: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["uploadUseCase"] = fmt.Errorf("failed to get business metrics: %w", err)
			return
		}

		useCase := ingestionUsecase.NewUploadUseCase(uploadRepo, blobService, c.Logger())
		c.uploadUseCase = ingestionUsecase.NewUploadUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["uploadUseCase"]; exists {
		return nil, storedErr
	}
	return c.uploadUseCase, nil
}

// IngestionUseCase returns the ingestion use case, wrapped with metrics when enabled.
// The grant use case serves as its token validator and the audit use case as
// its audit sink.
func (c *Container) IngestionUseCase(ctx context.Context) (ingestionUsecase.IngestionUseCase, error) {
	c.ingestionUseCaseInit.Do(func() {
		grantUC, err := c.GrantUseCase()
		if err != nil {
			c.initErrors["ingestionUseCase"] = fmt.Errorf("failed to get grant use case: %w", err)
			return
		}

		uploadUC, err := c.UploadUseCase(ctx)
		if err != nil {
			c.initErrors["ingestionUseCase"] = fmt.Errorf("failed to get upload use case: %w", err)
			return
		}

		blobService, err := c.BlobService(ctx)
		if err != nil {
			c.initErrors["ingestionUseCase"] = fmt.Errorf("failed to get blob service: %w", err)
			return
		}

		auditUC, err := c.AuditUseCase()
		if err != nil {
			c.initErrors["ingestionUseCase"] = fmt.Errorf("failed to get audit use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["ingestionUseCase"] = fmt.Errorf("failed to get business metrics: %w", err)
			return
		}

		useCase := ingestionUsecase.NewIngestionUseCase(grantUC, uploadUC, blobService, auditUC, c.Logger())
		c.ingestionUseCase = ingestionUsecase.NewIngestionUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["ingestionUseCase"]; exists {
		return nil, storedErr
	}
	return c.ingestionUseCase, nil
}
