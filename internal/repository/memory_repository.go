package repository

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/tempizhere/shorty/internal/models"
)

// MemoryRepository реализует LinkRepository и QuotationRepository с использованием map
type MemoryRepository struct {
	links      map[string]string // short code в нижнем регистре -> url
	quotations []models.Quotation
	mutex      sync.RWMutex
}

// NewMemoryRepository создаёт новый экземпляр MemoryRepository с заданным содержимым
func NewMemoryRepository(links []models.ShortLink, quotations []models.Quotation) *MemoryRepository {
	repo := &MemoryRepository{
		links:      make(map[string]string, len(links)),
		quotations: append([]models.Quotation(nil), quotations...),
	}
	for _, l := range links {
		repo.links[strings.ToLower(l.Code)] = l.DestinationURL
	}
	return repo
}

// Resolve возвращает URL по коду без учёта регистра
func (r *MemoryRepository) Resolve(_ context.Context, code string) (string, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	url, exists := r.links[strings.ToLower(code)]
	return url, exists, nil
}

// RandomQuotation возвращает случайную цитату или found=false для пустого набора
func (r *MemoryRepository) RandomQuotation(_ context.Context) (models.Quotation, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if len(r.quotations) == 0 {
		return models.Quotation{}, false, nil
	}
	return r.quotations[rand.IntN(len(r.quotations))], true, nil
}

var (
	_ LinkRepository      = (*MemoryRepository)(nil)
	_ QuotationRepository = (*MemoryRepository)(nil)
)
