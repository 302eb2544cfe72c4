// Package metrics содержит prometheus-счетчики сервиса.
// Сами метрики отдаются через /metrics (promhttp в маршрутах приложения).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginSuccess считает успешные входы.
	LoginSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modelshare_login_success_total",
		Help: "Number of successful logins.",
	})
	// LoginFailure считает неуспешные попытки входа.
	LoginFailure = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modelshare_login_failure_total",
		Help: "Number of failed login attempts.",
	})
)
