package app

import (
	"fmt"

	secretsHTTP "github.com/jfwood/barbican/internal/secrets/http"
	secretsRepository "github.com/jfwood/barbican/internal/secrets/repository"
	secretsUsecase "github.com/jfwood/barbican/internal/secrets/usecase"
	"github.com/jfwood/barbican/internal/secrets/validator"
)

// Repositories returns the full set of secrets repositories based on the
// database driver. They share one initialization because they are always
// used together.
func (c *Container) Repositories() (
	secretsUsecase.TenantRepository,
	secretsUsecase.SecretRepository,
	secretsUsecase.TenantSecretRepository,
	secretsUsecase.EncryptedDatumRepository,
	secretsUsecase.OrderRepository,
	secretsUsecase.VerificationRepository,
	error,
) {
	c.reposInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["repositories"] = fmt.Errorf("failed to get database for repositories: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.tenantRepo = secretsRepository.NewMySQLTenantRepository(db)
			c.secretRepo = secretsRepository.NewMySQLSecretRepository(db)
			c.tenantSecretRepo = secretsRepository.NewMySQLTenantSecretRepository(db)
			c.datumRepo = secretsRepository.NewMySQLEncryptedDatumRepository(db)
			c.orderRepo = secretsRepository.NewMySQLOrderRepository(db)
			c.verificationRepo = secretsRepository.NewMySQLVerificationRepository(db)
		case "postgres":
			c.tenantRepo = secretsRepository.NewPostgreSQLTenantRepository(db)
			c.secretRepo = secretsRepository.NewPostgreSQLSecretRepository(db)
			c.tenantSecretRepo = secretsRepository.NewPostgreSQLTenantSecretRepository(db)
			c.datumRepo = secretsRepository.NewPostgreSQLEncryptedDatumRepository(db)
			c.orderRepo = secretsRepository.NewPostgreSQLOrderRepository(db)
			c.verificationRepo = secretsRepository.NewPostgreSQLVerificationRepository(db)
		default:
			c.initErrors["repositories"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["repositories"]; exists {
		return nil, nil, nil, nil, nil, nil, storedErr
	}
	return c.tenantRepo, c.secretRepo, c.tenantSecretRepo, c.datumRepo, c.orderRepo, c.verificationRepo, nil
}

// Validators returns the JSON schema validators for secret and order request
// bodies.
func (c *Container) Validators() (*validator.SecretValidator, *validator.OrderValidator, error) {
	c.validatorsInit.Do(func() {
		secretValidator, err := validator.NewSecretValidator(c.config.MaxAllowedSecretInBytes)
		if err != nil {
			c.initErrors["validators"] = fmt.Errorf("failed to create secret validator: %w", err)
			return
		}

		orderValidator, err := validator.NewOrderValidator(secretValidator)
		if err != nil {
			c.initErrors["validators"] = fmt.Errorf("failed to create order validator: %w", err)
			return
		}

		c.secretValidator = secretValidator
		c.orderValidator = orderValidator
	})
	if storedErr, exists := c.initErrors["validators"]; exists {
		return nil, nil, storedErr
	}
	return c.secretValidator, c.orderValidator, nil
}

// SecretUseCase returns the secret use case instance.
func (c *Container) SecretUseCase() (secretsUsecase.SecretUseCase, error) {
	c.secretUseCaseInit.Do(func() {
		useCase, err := c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUseCase"] = err
			return
		}
		c.secretUseCase = useCase
	})
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// OrderUseCase returns the order use case instance.
func (c *Container) OrderUseCase() (secretsUsecase.OrderUseCase, error) {
	c.orderUseCaseInit.Do(func() {
		useCase, err := c.initOrderUseCase()
		if err != nil {
			c.initErrors["orderUseCase"] = err
			return
		}
		c.orderUseCase = useCase
	})
	if storedErr, exists := c.initErrors["orderUseCase"]; exists {
		return nil, storedErr
	}
	return c.orderUseCase, nil
}

// VerificationUseCase returns the verification use case instance.
func (c *Container) VerificationUseCase() (secretsUsecase.VerificationUseCase, error) {
	c.verificationUseCaseInit.Do(func() {
		useCase, err := c.initVerificationUseCase()
		if err != nil {
			c.initErrors["verificationUseCase"] = err
			return
		}
		c.verificationUseCase = useCase
	})
	if storedErr, exists := c.initErrors["verificationUseCase"]; exists {
		return nil, storedErr
	}
	return c.verificationUseCase, nil
}

// initSecretUseCase creates the secret use case with all its dependencies.
func (c *Container) initSecretUseCase() (secretsUsecase.SecretUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret use case: %w", err)
	}

	tenantRepo, secretRepo, tenantSecretRepo, datumRepo, _, _, err := c.Repositories()
	if err != nil {
		return nil, err
	}

	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for secret use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := secretsUsecase.NewSecretUseCase(
		txManager,
		tenantRepo,
		secretRepo,
		tenantSecretRepo,
		datumRepo,
		cipher,
		c.config.MaxAllowedSecretInBytes,
	)

	return secretsUsecase.NewSecretUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initOrderUseCase creates the order use case with all its dependencies.
func (c *Container) initOrderUseCase() (secretsUsecase.OrderUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for order use case: %w", err)
	}

	tenantRepo, secretRepo, tenantSecretRepo, datumRepo, orderRepo, _, err := c.Repositories()
	if err != nil {
		return nil, err
	}

	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for order use case: %w", err)
	}

	dispatcher, err := c.TaskDispatcher()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := secretsUsecase.NewOrderUseCase(
		txManager,
		tenantRepo,
		orderRepo,
		secretRepo,
		tenantSecretRepo,
		datumRepo,
		cipher,
		dispatcher,
	)

	return secretsUsecase.NewOrderUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initVerificationUseCase creates the verification use case with all its
// dependencies.
func (c *Container) initVerificationUseCase() (secretsUsecase.VerificationUseCase, error) {
	tenantRepo, _, _, _, _, verificationRepo, err := c.Repositories()
	if err != nil {
		return nil, err
	}

	dispatcher, err := c.TaskDispatcher()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := secretsUsecase.NewVerificationUseCase(tenantRepo, verificationRepo, dispatcher)

	return secretsUsecase.NewVerificationUseCaseWithMetrics(useCase, businessMetrics), nil
}

// handlers creates the API request handlers.
func (c *Container) handlers() (*secretsHTTP.SecretHandler, *secretsHTTP.OrderHandler, *secretsHTTP.VerificationHandler, error) {
	logger := c.Logger()

	secretValidator, orderValidator, err := c.Validators()
	if err != nil {
		return nil, nil, nil, err
	}

	secretUseCase, err := c.SecretUseCase()
	if err != nil {
		return nil, nil, nil, err
	}

	orderUseCase, err := c.OrderUseCase()
	if err != nil {
		return nil, nil, nil, err
	}

	verificationUseCase, err := c.VerificationUseCase()
	if err != nil {
		return nil, nil, nil, err
	}

	secretHandler := secretsHTTP.NewSecretHandler(secretUseCase, secretValidator, c.config.HostHref, logger)
	orderHandler := secretsHTTP.NewOrderHandler(orderUseCase, orderValidator, c.config.HostHref, logger)
	verificationHandler := secretsHTTP.NewVerificationHandler(verificationUseCase, c.config.HostHref, logger)

	return secretHandler, orderHandler, verificationHandler, nil
}
