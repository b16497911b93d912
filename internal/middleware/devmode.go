package middleware

import (
	"context"
	"net"
	"net/http"

	"go.uber.org/zap"
)

// devModeKey для хранения признака режима разработки в контексте
type devModeKey struct{}

// DevModeMiddleware помечает запросы клиентов из доверенной подсети.
// Таким клиентам страница ошибки показывает текст исходной ошибки.
// Пустая подсеть отключает режим разработки для всех.
func DevModeMiddleware(subnet string, logger *zap.Logger) func(http.Handler) http.Handler {
	var network *net.IPNet
	if subnet != "" {
		_, n, err := net.ParseCIDR(subnet)
		if err != nil {
			logger.Error("Invalid dev subnet CIDR, dev mode disabled",
				zap.String("dev_subnet", subnet),
				zap.Error(err))
		} else {
			network = n
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if network == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if ip == nil || !network.Contains(ip) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), devModeKey{}, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsDevMode сообщает, что запрос пришёл из доверенной подсети
func IsDevMode(r *http.Request) bool {
	dev, _ := r.Context().Value(devModeKey{}).(bool)
	return dev
}

// clientIP берёт адрес из RemoteAddr; заголовки клиента не учитываются
func clientIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
