package app

import (
	"fmt"

	grantRepository "github.com/allisson/docgate/internal/grant/repository"
	grantService "github.com/allisson/docgate/internal/grant/service"
	grantUsecase "github.com/allisson/docgate/internal/grant/usecase"
)

// GrantRepository returns the grant repository for the configured driver.
func (c *Container) GrantRepository() (grantUsecase.GrantRepository, error) {
	c.grantRepoInit.Do(func() {
		if c.config.DBDriver == memoryDriver {
			c.grantRepo = grantRepository.NewMemoryGrantRepository()
			return
		}

		db, err := c.DB()
		if err != nil {
			c.initErrors["grantRepo"] = fmt.Errorf("failed to get database for grant repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "postgres":
			c.grantRepo = grantRepository.NewPostgreSQLGrantRepository(db)
		case "mysql":
			c.grantRepo = grantRepository.NewMySQLGrantRepository(db)
		default:
			c.initErrors["grantRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["grantRepo"]; exists {
		return nil, storedErr
	}
	return c.grantRepo, nil
}

// GrantUseCase returns the grant use case, wrapped with metrics when enabled.
func (c *Container) GrantUseCase() (grantUsecase.GrantUseCase, error) {
	c.grantUseCaseInit.Do(func() {
		grantRepo, err := c.GrantRepository()
		if err != nil {
			c.initErrors["grantUseCase"] = fmt.Errorf("failed to get grant repository: %w", err)
			return
		}

		auditUC, err := c.AuditUseCase()
		if err != nil {
			c.initErrors["grantUseCase"] = fmt.Errorf("failed to get audit use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["grantUseCase"] = fmt.Errorf("failed to get business metrics: %w", err)
			return
		}

		useCase := grantUsecase.NewGrantUseCase(
			c.config,
			grantRepo,
			grantService.NewTokenService(),
			auditUC,
			c.Logger(),
		)
		c.grantUseCase = grantUsecase.NewGrantUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["grantUseCase"]; exists {
		return nil, storedErr
	}
	return c.grantUseCase, nil
}
