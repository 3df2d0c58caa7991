// Package httpapi exposes the notification service over HTTP.
//
// Routes:
//
//	POST /Emails   notification.Email
//	POST /SMS      notification.SMS
//	POST /Android  notification.Android
//	POST /iOS      notification.IOS
//	GET  /healthz  readiness probe
//	GET  /metrics  Prometheus exposition, when a handler is configured
//
// Accepted notifications answer 202. Invalid payloads and notifications
// without recipients answer 400, kinds the active strategy cannot deliver
// answer 501 and transport failures answer 502.
package httpapi
