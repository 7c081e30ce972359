package acl

import (
	"context"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

const (
	articlesPath          = "/articles"
	paymentConditionsPath = "/payment-conditions"
	printLayoutsPath      = "/print-layouts"
)

// ListArticles reads one page of articles matching f.
func (l *Lexoffice) ListArticles(ctx context.Context, f domain.ArticleFilter) (*domain.Page[domain.Article], error) {
	query, err := ArticlesQuery(f)
	if err != nil {
		return nil, err
	}

	return getPage[domain.Article](ctx, l, articlesPath, query)
}

// CreateArticle adds an article to the catalog.
func (l *Lexoffice) CreateArticle(ctx context.Context, a *domain.Article) (*domain.Acknowledgment, error) {
	return l.create(ctx, articlesPath, "", a)
}

// ListPaymentConditions reads the configured payment conditions.
func (l *Lexoffice) ListPaymentConditions(ctx context.Context) ([]domain.PaymentCondition, error) {
	return getList[domain.PaymentCondition](ctx, l, paymentConditionsPath)
}

// ListPrintLayouts reads the configured print layouts.
func (l *Lexoffice) ListPrintLayouts(ctx context.Context) ([]domain.PrintLayout, error) {
	return getList[domain.PrintLayout](ctx, l, printLayoutsPath)
}
