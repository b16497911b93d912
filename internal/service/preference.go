package service

import "time"

const (
	// AlwaysRedirect задаёт значение флага, включающее немедленный редирект
	AlwaysRedirect = "always"
	// RedirectParam задаёт имя параметра запроса с флагом редиректа
	RedirectParam = "redirect"
	// DefaultCookieName задаёт имя куки, хранящей флаг между визитами
	DefaultCookieName = "shorty_redirect"

	preferenceMaxAge = 10 * 365 * 24 * time.Hour
)

// CookieDirective описывает куку, которую нужно установить клиенту
type CookieDirective struct {
	Name   string
	Value  string
	MaxAge time.Duration
	Path   string
}

// ShouldAutoRedirect возвращает true, если флаг из запроса или из куки равен "always"
func ShouldAutoRedirect(queryFlag, cookieFlag string) bool {
	return queryFlag == AlwaysRedirect || cookieFlag == AlwaysRedirect
}

// PersistAlways возвращает директиву сохранить флаг на 10 лет для всего сайта
func PersistAlways(name string) CookieDirective {
	return CookieDirective{
		Name:   name,
		Value:  AlwaysRedirect,
		MaxAge: preferenceMaxAge,
		Path:   "/",
	}
}
