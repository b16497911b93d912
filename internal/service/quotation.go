package service

import (
	"context"
	"strings"

	"github.com/tempizhere/shorty/internal/metrics"
	"github.com/tempizhere/shorty/internal/models"
	"github.com/tempizhere/shorty/internal/repository"
	"go.uber.org/zap"
)

// QuotationPicker выбирает случайную цитату и никогда не возвращает ошибку:
// любой сбой хранилища заменяется запасной цитатой
type QuotationPicker struct {
	repo    repository.QuotationRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewQuotationPicker создаёт новый экземпляр QuotationPicker
func NewQuotationPicker(repo repository.QuotationRepository, logger *zap.Logger, m *metrics.Metrics) *QuotationPicker {
	return &QuotationPicker{repo: repo, logger: logger, metrics: m}
}

// PickRandom возвращает случайную цитату или FallbackQuotation
func (p *QuotationPicker) PickRandom(ctx context.Context) (q models.Quotation) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("Recovered from panic while picking quotation", zap.Any("panic", rec))
			p.metrics.ObserveQuotationFallback("panic")
			q = models.FallbackQuotation()
		}
	}()

	if p.repo == nil {
		p.metrics.ObserveQuotationFallback("unconfigured")
		return models.FallbackQuotation()
	}

	q, found, err := p.repo.RandomQuotation(ctx)
	switch {
	case err != nil:
		p.logger.Warn("Failed to pick random quotation", zap.Error(err))
		p.metrics.ObserveQuotationFallback("error")
		return models.FallbackQuotation()
	case !found:
		p.metrics.ObserveQuotationFallback("empty")
		return models.FallbackQuotation()
	case strings.TrimSpace(q.Quote) == "":
		p.metrics.ObserveQuotationFallback("blank")
		return models.FallbackQuotation()
	}
	return q
}
