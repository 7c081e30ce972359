package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

// mockClient is a testify mock of ports.LexofficeClient.
type mockClient struct {
	mock.Mock
}

func newMockClient(t *testing.T) *mockClient {
	t.Helper()

	m := &mockClient{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// value returns the i-th mocked return value as T, or T's zero value when
// the mock returned nil.
func value[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

func (m *mockClient) Name() string {
	args := m.Called()

	return args.String(0)
}

func (m *mockClient) Check(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *mockClient) GetProfile(ctx context.Context) (*domain.Profile, error) {
	args := m.Called(ctx)

	return value[*domain.Profile](args, 0), args.Error(1)
}

func (m *mockClient) CreateContact(ctx context.Context, c *domain.Contact) (*domain.Acknowledgment, error) {
	args := m.Called(ctx, c)

	return value[*domain.Acknowledgment](args, 0), args.Error(1)
}

func (m *mockClient) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, bool, error) {
	args := m.Called(ctx, id)

	return value[*domain.Contact](args, 0), args.Bool(1), args.Error(2)
}

func (m *mockClient) ListContacts(ctx context.Context, f domain.ContactFilter) (*domain.Page[domain.Contact], error) {
	args := m.Called(ctx, f)

	return value[*domain.Page[domain.Contact]](args, 0), args.Error(1)
}

func (m *mockClient) UpdateContact(ctx context.Context, id uuid.UUID, c *domain.Contact) (*domain.Acknowledgment, error) {
	args := m.Called(ctx, id, c)

	return value[*domain.Acknowledgment](args, 0), args.Error(1)
}

func (m *mockClient) ListVouchers(ctx context.Context, f domain.VoucherFilter) (*domain.Page[domain.VoucherSummary], error) {
	args := m.Called(ctx, f)

	return value[*domain.Page[domain.VoucherSummary]](args, 0), args.Error(1)
}

func (m *mockClient) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, bool, error) {
	args := m.Called(ctx, id)

	return value[*domain.Invoice](args, 0), args.Bool(1), args.Error(2)
}

func (m *mockClient) CreateInvoice(ctx context.Context, inv *domain.Invoice, finalize bool) (*domain.Acknowledgment, error) {
	args := m.Called(ctx, inv, finalize)

	return value[*domain.Acknowledgment](args, 0), args.Error(1)
}

func (m *mockClient) CreateInvoicePayment(ctx context.Context, invoiceID uuid.UUID, p domain.Payment) error {
	args := m.Called(ctx, invoiceID, p)

	return args.Error(0)
}

func (m *mockClient) UpdateInvoice(ctx context.Context, id uuid.UUID, inv *domain.Invoice) (*domain.Acknowledgment, error) {
	args := m.Called(ctx, id, inv)

	return value[*domain.Acknowledgment](args, 0), args.Error(1)
}

func (m *mockClient) GetPaymentStatus(ctx context.Context, voucherID uuid.UUID) (*domain.PaymentStatus, bool, error) {
	args := m.Called(ctx, voucherID)

	return value[*domain.PaymentStatus](args, 0), args.Bool(1), args.Error(2)
}

func (m *mockClient) GetQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, bool, error) {
	args := m.Called(ctx, id)

	return value[*domain.Quotation](args, 0), args.Bool(1), args.Error(2)
}

func (m *mockClient) CreateQuotation(ctx context.Context, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error) {
	args := m.Called(ctx, q, finalize)

	return value[*domain.Acknowledgment](args, 0), args.Error(1)
}

func (m *mockClient) UpdateQuotation(ctx context.Context, id uuid.UUID, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error) {
	args := m.Called(ctx, id, q, finalize)

	return value[*domain.Acknowledgment](args, 0), args.Error(1)
}

func (m *mockClient) ListArticles(ctx context.Context, f domain.ArticleFilter) (*domain.Page[domain.Article], error) {
	args := m.Called(ctx, f)

	return value[*domain.Page[domain.Article]](args, 0), args.Error(1)
}

func (m *mockClient) CreateArticle(ctx context.Context, a *domain.Article) (*domain.Acknowledgment, error) {
	args := m.Called(ctx, a)

	return value[*domain.Acknowledgment](args, 0), args.Error(1)
}

func (m *mockClient) ListPaymentConditions(ctx context.Context) ([]domain.PaymentCondition, error) {
	args := m.Called(ctx)

	return value[[]domain.PaymentCondition](args, 0), args.Error(1)
}

func (m *mockClient) ListPrintLayouts(ctx context.Context) ([]domain.PrintLayout, error) {
	args := m.Called(ctx)

	return value[[]domain.PrintLayout](args, 0), args.Error(1)
}

func (m *mockClient) DownloadFile(ctx context.Context, id uuid.UUID) (*domain.File, bool, error) {
	args := m.Called(ctx, id)

	return value[*domain.File](args, 0), args.Bool(1), args.Error(2)
}

func (m *mockClient) AttachFile(ctx context.Context, voucherID uuid.UUID, filename string, content []byte) (*domain.FileReference, error) {
	args := m.Called(ctx, voucherID, filename, content)

	return value[*domain.FileReference](args, 0), args.Error(1)
}
