// Package app содержит HTTP-обработчики редиректора и сборку маршрутизатора.
package app

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/tempizhere/shorty/internal/metrics"
	"github.com/tempizhere/shorty/internal/middleware"
	"github.com/tempizhere/shorty/internal/models"
	"github.com/tempizhere/shorty/internal/repository"
	"github.com/tempizhere/shorty/internal/service"
	"go.uber.org/zap"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Виды страниц
const (
	pageQuotation = "quotation"
	pageConfirm   = "confirm"
	pageNotFound  = "notfound"
	pageFault     = "fault"
)

// pageView содержит данные для шаблона страницы
type pageView struct {
	Kind         string
	Path         string
	URL          string
	FormAction   string
	QRImage      template.URL
	Quotation    models.Quotation
	StorageFault bool
	Detail       string
}

// App содержит хендлеры и зависимости
type App struct {
	resolver *service.Resolver
	db       repository.Database
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewApp создаёт новое приложение
func NewApp(resolver *service.Resolver, db repository.Database, logger *zap.Logger, m *metrics.Metrics) *App {
	return &App{resolver: resolver, db: db, logger: logger, metrics: m}
}

// HandleRoot обрабатывает любой запрос, кроме служебных маршрутов "/-/..."
func (a *App) HandleRoot(w http.ResponseWriter, r *http.Request) {
	requestURI := requestTarget(r)

	var cookieFlag string
	if c, err := r.Cookie(a.resolver.CookieName()); err == nil {
		cookieFlag = c.Value
	}

	rc := service.NewRequestContext(
		requestURI,
		r.Host,
		r.TLS != nil,
		r.URL.Query().Get(service.RedirectParam),
		cookieFlag,
	)
	d := a.resolver.Resolve(r.Context(), rc)

	switch d.Outcome {
	case service.OutcomeFound:
		if d.AutoRedirect {
			a.redirect(w, d)
			return
		}
		a.render(w, http.StatusOK, pageView{
			Kind:       pageConfirm,
			Path:       d.Path,
			URL:        d.URL,
			FormAction: requestURI,
			// значение построено кодировщиком, а не пришло от клиента
			QRImage: template.URL(d.QRImage),
		})
	case service.OutcomeNotFound:
		a.render(w, http.StatusNotFound, pageView{Kind: pageNotFound, Path: d.Path})
	case service.OutcomeFaulted:
		var storageErr *repository.StorageError
		view := pageView{Kind: pageFault, StorageFault: errors.As(d.Err, &storageErr)}
		if middleware.IsDevMode(r) && d.Err != nil {
			view.Detail = d.Err.Error()
		}
		a.render(w, http.StatusInternalServerError, view)
	default:
		a.render(w, http.StatusOK, pageView{Kind: pageQuotation, Quotation: d.Quotation})
	}
}

// requestTarget возвращает цель запроса в форме "путь?запрос".
// Для absolute-form ("GET http://host/abc") схема и хост отбрасываются.
func requestTarget(r *http.Request) string {
	if r.RequestURI == "" || r.URL.IsAbs() {
		return r.URL.RequestURI()
	}
	return r.RequestURI
}

// redirect отправляет 302 и при необходимости запоминает выбор пользователя
func (a *App) redirect(w http.ResponseWriter, d service.Decision) {
	if d.Persist != nil {
		http.SetCookie(w, &http.Cookie{
			Name:   d.Persist.Name,
			Value:  d.Persist.Value,
			Path:   d.Persist.Path,
			MaxAge: int(d.Persist.MaxAge.Seconds()),
		})
	}
	w.Header().Set("Location", d.URL)
	w.WriteHeader(http.StatusFound)
}

// render сначала выполняет шаблон в буфер, чтобы ошибка шаблона не испортила статус
func (a *App) render(w http.ResponseWriter, status int, view pageView) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		a.logger.Error("Failed to render page", zap.String("kind", view.Kind), zap.Error(err))
		http.Error(w, "Something went horribly wrong!", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		a.logger.Warn("Failed to write response", zap.Error(err))
	}
}

// HandlePing обрабатывает GET-запросы на "/-/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		http.Error(w, "Database not configured", http.StatusInternalServerError)
		return
	}
	if err := a.db.Ping(r.Context()); err != nil {
		a.logger.Error("Database ping failed", zap.Error(err))
		http.Error(w, "Database connection failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
