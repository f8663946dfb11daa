package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/metrics"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
	"github.com/jfwood/barbican/internal/secrets/validator"
)

// recordMetrics reports one operation outcome with its duration.
func recordMetrics(
	ctx context.Context,
	m metrics.BusinessMetrics,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RecordOperation(ctx, "secrets", operation, status)
	m.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}

// secretUseCaseWithMetrics decorates SecretUseCase with metrics
// instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{next: useCase, metrics: m}
}

func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context, keystoneID string, payload *validator.SecretPayload,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, keystoneID, payload)
	recordMetrics(ctx, s.metrics, "secret_create", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) Get(
	ctx context.Context, keystoneID string, secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Get(ctx, keystoneID, secretID)
	recordMetrics(ctx, s.metrics, "secret_get", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) GetPayload(
	ctx context.Context, keystoneID string, secretID uuid.UUID, mimeType string,
) ([]byte, error) {
	start := time.Now()
	payload, err := s.next.GetPayload(ctx, keystoneID, secretID, mimeType)
	recordMetrics(ctx, s.metrics, "secret_get_payload", start, err)
	return payload, err
}

func (s *secretUseCaseWithMetrics) PutPayload(
	ctx context.Context, keystoneID string, secretID uuid.UUID, mimeType string, payload []byte,
) error {
	start := time.Now()
	err := s.next.PutPayload(ctx, keystoneID, secretID, mimeType, payload)
	recordMetrics(ctx, s.metrics, "secret_put_payload", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) List(
	ctx context.Context, keystoneID string, limit, offset int,
) ([]*secretsDomain.Secret, int, error) {
	start := time.Now()
	secrets, total, err := s.next.List(ctx, keystoneID, limit, offset)
	recordMetrics(ctx, s.metrics, "secret_list", start, err)
	return secrets, total, err
}

func (s *secretUseCaseWithMetrics) Delete(
	ctx context.Context, keystoneID string, secretID uuid.UUID,
) error {
	start := time.Now()
	err := s.next.Delete(ctx, keystoneID, secretID)
	recordMetrics(ctx, s.metrics, "secret_delete", start, err)
	return err
}

// orderUseCaseWithMetrics decorates OrderUseCase with metrics
// instrumentation.
type orderUseCaseWithMetrics struct {
	next    OrderUseCase
	metrics metrics.BusinessMetrics
}

// NewOrderUseCaseWithMetrics wraps an OrderUseCase with metrics recording.
func NewOrderUseCaseWithMetrics(useCase OrderUseCase, m metrics.BusinessMetrics) OrderUseCase {
	return &orderUseCaseWithMetrics{next: useCase, metrics: m}
}

func (o *orderUseCaseWithMetrics) Create(
	ctx context.Context, keystoneID string, payload *validator.OrderPayload,
) (*secretsDomain.Order, error) {
	start := time.Now()
	order, err := o.next.Create(ctx, keystoneID, payload)
	recordMetrics(ctx, o.metrics, "order_create", start, err)
	return order, err
}

func (o *orderUseCaseWithMetrics) Get(
	ctx context.Context, keystoneID string, orderID uuid.UUID,
) (*secretsDomain.Order, error) {
	start := time.Now()
	order, err := o.next.Get(ctx, keystoneID, orderID)
	recordMetrics(ctx, o.metrics, "order_get", start, err)
	return order, err
}

func (o *orderUseCaseWithMetrics) List(
	ctx context.Context, keystoneID string, limit, offset int,
) ([]*secretsDomain.Order, int, error) {
	start := time.Now()
	orders, total, err := o.next.List(ctx, keystoneID, limit, offset)
	recordMetrics(ctx, o.metrics, "order_list", start, err)
	return orders, total, err
}

func (o *orderUseCaseWithMetrics) Delete(
	ctx context.Context, keystoneID string, orderID uuid.UUID,
) error {
	start := time.Now()
	err := o.next.Delete(ctx, keystoneID, orderID)
	recordMetrics(ctx, o.metrics, "order_delete", start, err)
	return err
}

func (o *orderUseCaseWithMetrics) Process(
	ctx context.Context, orderID uuid.UUID, keystoneID string,
) error {
	start := time.Now()
	err := o.next.Process(ctx, orderID, keystoneID)
	recordMetrics(ctx, o.metrics, "order_process", start, err)
	return err
}

// verificationUseCaseWithMetrics decorates VerificationUseCase with metrics
// instrumentation.
type verificationUseCaseWithMetrics struct {
	next    VerificationUseCase
	metrics metrics.BusinessMetrics
}

// NewVerificationUseCaseWithMetrics wraps a VerificationUseCase with metrics
// recording.
func NewVerificationUseCaseWithMetrics(useCase VerificationUseCase, m metrics.BusinessMetrics) VerificationUseCase {
	return &verificationUseCaseWithMetrics{next: useCase, metrics: m}
}

func (v *verificationUseCaseWithMetrics) Create(
	ctx context.Context, keystoneID string, verification *secretsDomain.Verification,
) (*secretsDomain.Verification, error) {
	start := time.Now()
	created, err := v.next.Create(ctx, keystoneID, verification)
	recordMetrics(ctx, v.metrics, "verification_create", start, err)
	return created, err
}

func (v *verificationUseCaseWithMetrics) Get(
	ctx context.Context, keystoneID string, verificationID uuid.UUID,
) (*secretsDomain.Verification, error) {
	start := time.Now()
	verification, err := v.next.Get(ctx, keystoneID, verificationID)
	recordMetrics(ctx, v.metrics, "verification_get", start, err)
	return verification, err
}

func (v *verificationUseCaseWithMetrics) Process(
	ctx context.Context, verificationID uuid.UUID, keystoneID string,
) error {
	start := time.Now()
	err := v.next.Process(ctx, verificationID, keystoneID)
	recordMetrics(ctx, v.metrics, "verification_process", start, err)
	return err
}
