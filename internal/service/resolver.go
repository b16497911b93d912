// Package service реализует логику выбора ответа на запрос к короткой ссылке:
// поиск кода, решение о редиректе, выбор цитаты и построение QR-кода.
package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/tempizhere/shorty/internal/metrics"
	"github.com/tempizhere/shorty/internal/models"
	"github.com/tempizhere/shorty/internal/qrcode"
	"github.com/tempizhere/shorty/internal/repository"
	"go.uber.org/zap"
)

// ReservedPrefix задаёт префикс путей, которые никогда не ищутся в хранилище
const ReservedPrefix = "-/"

// Outcome определяет вариант ответа на запрос
type Outcome int

const (
	// OutcomeEmpty означает, что путь не задан и показывается цитата
	OutcomeEmpty Outcome = iota
	// OutcomeBlocked означает путь в зарезервированном пространстве имён
	OutcomeBlocked
	// OutcomeFound означает, что код найден
	OutcomeFound
	// OutcomeNotFound означает, что код не найден
	OutcomeNotFound
	// OutcomeFaulted означает, что хранилище вернуло ошибку
	OutcomeFaulted
)

// String возвращает имя исхода для логов и метрик
func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// RequestContext содержит всё, что резолверу нужно знать о запросе
type RequestContext struct {
	Path       string
	RequestURI string
	Host       string
	Secure     bool
	QueryFlag  string
	CookieFlag string
}

// NewRequestContext создаёт RequestContext и нормализует путь из URI запроса
func NewRequestContext(requestURI, host string, secure bool, queryFlag, cookieFlag string) RequestContext {
	return RequestContext{
		Path:       NormalizePath(requestURI),
		RequestURI: requestURI,
		Host:       host,
		Secure:     secure,
		QueryFlag:  queryFlag,
		CookieFlag: cookieFlag,
	}
}

// NormalizePath берёт из URI только путь и отрезает ровно один ведущий "/".
// Процентные последовательности не декодируются: код ищется в том виде, в каком пришёл.
func NormalizePath(requestURI string) string {
	path, _, _ := strings.Cut(requestURI, "#")
	if u, err := url.ParseRequestURI(path); err == nil {
		path = u.EscapedPath()
	} else if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return strings.TrimSpace(strings.TrimPrefix(path, "/"))
}

// Decision описывает результат обработки одного запроса
type Decision struct {
	Outcome      Outcome
	Path         string
	URL          string
	AutoRedirect bool
	Persist      *CookieDirective
	Quotation    models.Quotation
	QRImage      string
	Err          error
}

// Resolver объединяет хранилище ссылок, выбор цитаты и построение QR-кода
type Resolver struct {
	links      repository.LinkRepository
	quotations *QuotationPicker
	qr         *qrcode.Adapter
	cookieName string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewResolver создаёт новый экземпляр Resolver
func NewResolver(
	links repository.LinkRepository,
	quotations *QuotationPicker,
	qr *qrcode.Adapter,
	cookieName string,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Resolver {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Resolver{
		links:      links,
		quotations: quotations,
		qr:         qr,
		cookieName: cookieName,
		logger:     logger,
		metrics:    m,
	}
}

// CookieName возвращает имя куки с флагом редиректа
func (r *Resolver) CookieName() string {
	return r.cookieName
}

// Resolve принимает решение по запросу
func (r *Resolver) Resolve(ctx context.Context, rc RequestContext) Decision {
	d := r.resolve(ctx, rc)

	label := d.Outcome.String()
	if d.AutoRedirect {
		label = "redirect"
	}
	r.metrics.ObserveOutcome(label)
	return d
}

func (r *Resolver) resolve(ctx context.Context, rc RequestContext) Decision {
	path := rc.Path

	if path == "" {
		return Decision{Outcome: OutcomeEmpty, Quotation: r.quotations.PickRandom(ctx)}
	}

	if strings.HasPrefix(path, ReservedPrefix) {
		return Decision{Outcome: OutcomeBlocked, Path: path, Quotation: models.FallbackQuotation()}
	}

	dest, found, err := r.links.Resolve(ctx, path)
	if err != nil {
		r.logger.Error("Failed to resolve short URL", zap.String("path", path), zap.Error(err))
		return Decision{Outcome: OutcomeFaulted, Path: path, Err: err}
	}
	if !found {
		return Decision{Outcome: OutcomeNotFound, Path: path}
	}

	d := Decision{Outcome: OutcomeFound, Path: path, URL: dest}
	if ShouldAutoRedirect(rc.QueryFlag, rc.CookieFlag) {
		d.AutoRedirect = true
		if rc.QueryFlag == AlwaysRedirect {
			directive := PersistAlways(r.cookieName)
			d.Persist = &directive
		}
		return d
	}

	d.QRImage = r.buildQRImage(rc)
	return d
}

// buildQRImage возвращает пустую строку, если изображение построить не удалось
func (r *Resolver) buildQRImage(rc RequestContext) string {
	if r.qr == nil {
		return ""
	}
	canonical := qrcode.CanonicalURL(rc.Secure, rc.Host, rc.RequestURI)
	image, err := r.qr.BuildImage(canonical)
	if err != nil {
		r.logger.Warn("Failed to build QR code", zap.String("url", canonical), zap.Error(err))
		r.metrics.ObserveQRFailure()
		return ""
	}
	return image
}
