package app

import (
	"fmt"

	auditRepository "github.com/allisson/docgate/internal/audit/repository"
	auditService "github.com/allisson/docgate/internal/audit/service"
	auditUsecase "github.com/allisson/docgate/internal/audit/usecase"
)

// AuditEntryRepository returns the audit ledger repository for the configured driver.
func (c *Container) AuditEntryRepository() (auditUsecase.AuditEntryRepository, error) {
	c.auditRepoInit.Do(func() {
		if c.config.DBDriver == memoryDriver {
			c.auditRepo = auditRepository.NewMemoryAuditEntryRepository()
			return
		}

		db, err := c.DB()
		if err != nil {
			c.initErrors["auditRepo"] = fmt.Errorf("failed to get database for audit repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "postgres":
			c.auditRepo = auditRepository.NewPostgreSQLAuditEntryRepository(db)
		case "mysql":
			c.auditRepo = auditRepository.NewMySQLAuditEntryRepository(db)
		default:
			c.initErrors["auditRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the audit use case. It serves as the audit sink for the
// grant and ingestion use cases. Entry signing is enabled when a signing key
// is configured.
func (c *Container) AuditUseCase() (auditUsecase.AuditUseCase, error) {
	c.auditUseCaseInit.Do(func() {
		auditRepo, err := c.AuditEntryRepository()
		if err != nil {
			c.initErrors["auditUseCase"] = fmt.Errorf("failed to get audit repository: %w", err)
			return
		}

		signingKey, err := c.auditSigningKey()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}

		c.auditUseCase = auditUsecase.NewAuditUseCase(auditRepo, auditService.NewEntrySigner(), signingKey)
	})
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}
