package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/tempizhere/shorty/internal/metrics"
	"github.com/tempizhere/shorty/internal/models"
	"github.com/tempizhere/shorty/internal/repository"
	"go.uber.org/zap"
)

type panickingQuotations struct{}

func (panickingQuotations) RandomQuotation(context.Context) (models.Quotation, bool, error) {
	panic("driver bug")
}

func TestQuotationPicker_PickRandom(t *testing.T) {
	stored := models.Quotation{Collection: "hhgttg", Quote: "Time is an illusion.", Source: "Ford Prefect"}

	tests := []struct {
		name           string
		setup          func(m *repository.MockQuotationRepository)
		expected       models.Quotation
		fallbackReason string
	}{
		{
			name: "Stored quotation",
			setup: func(m *repository.MockQuotationRepository) {
				m.EXPECT().RandomQuotation(gomock.Any()).Return(stored, true, nil)
			},
			expected: stored,
		},
		{
			name: "Empty table",
			setup: func(m *repository.MockQuotationRepository) {
				m.EXPECT().RandomQuotation(gomock.Any()).Return(models.Quotation{}, false, nil)
			},
			expected:       models.FallbackQuotation(),
			fallbackReason: "empty",
		},
		{
			name: "Storage unreachable",
			setup: func(m *repository.MockQuotationRepository) {
				m.EXPECT().RandomQuotation(gomock.Any()).
					Return(models.Quotation{}, false, &repository.StorageError{Op: "connect", Err: errors.New("refused")})
			},
			expected:       models.FallbackQuotation(),
			fallbackReason: "error",
		},
		{
			name: "Blank quote",
			setup: func(m *repository.MockQuotationRepository) {
				m.EXPECT().RandomQuotation(gomock.Any()).Return(models.Quotation{Collection: "x", Quote: "  "}, true, nil)
			},
			expected:       models.FallbackQuotation(),
			fallbackReason: "blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repository.NewMockQuotationRepository(ctrl)
			tt.setup(repo)
			m := metrics.New(prometheus.NewRegistry())

			picker := NewQuotationPicker(repo, zap.NewNop(), m)
			q := picker.PickRandom(context.Background())

			assert.Equal(t, tt.expected, q)
			assert.NotEmpty(t, q.Quote)
			if tt.fallbackReason != "" {
				assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotationFallbacks.WithLabelValues(tt.fallbackReason)))
			}
		})
	}
}

func TestQuotationPicker_RecoversFromPanic(t *testing.T) {
	picker := NewQuotationPicker(panickingQuotations{}, zap.NewNop(), nil)

	var q models.Quotation
	assert.NotPanics(t, func() {
		q = picker.PickRandom(context.Background())
	})
	assert.Equal(t, "Don't panic", q.Quote)
	assert.Equal(t, "–Douglas Adams", q.Source)
}

func TestQuotationPicker_NoRepository(t *testing.T) {
	picker := NewQuotationPicker(nil, zap.NewNop(), nil)

	assert.Equal(t, models.FallbackQuotation(), picker.PickRandom(context.Background()))
}
