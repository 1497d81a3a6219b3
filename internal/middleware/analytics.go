package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolworks/fee_billing_app/internal/utils/analytics"
)

// untrackedPaths lists paths excluded from event tracking.
var untrackedPaths = map[string]bool{
	"/health": true,
}

// AnalyticsMiddleware tracks successful API calls as events keyed by the
// authenticated user. Failed requests and unauthenticated paths produce no
// event.
func AnalyticsMiddleware(client *analytics.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !client.IsEnabled() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// Route template to event name, e.g. "/vouchers/:voucherID/cancel"
		// becomes "vouchers_:voucherID_cancel".
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		client.Enqueue(userID, eventName, props)
	}
}
