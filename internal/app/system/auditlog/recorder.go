// internal/app/system/auditlog/recorder.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/rollcallhq/rollcall/internal/app/store/audit"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Recorder appends audit entries around mutating operations. An audit
// write failure is a degraded-observability condition, not a correctness
// failure of the primary action: Record logs the failure and returns,
// it never propagates an error to the caller.
type Recorder struct {
	store  *audit.Store
	zapLog *zap.Logger
}

// New creates a Recorder.
func New(store *audit.Store, zapLog *zap.Logger) *Recorder {
	return &Recorder{store: store, zapLog: zapLog}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// Record appends one entry attributed to the request's caller. A nil
// Recorder is a no-op, so handler tests may leave it unset.
func (rec *Recorder) Record(ctx context.Context, r *http.Request, who *auth.Identity, action, resourceType, resourceID string, oldValue, newValue map[string]interface{}) {
	if rec == nil || who == nil {
		return
	}

	entry := audit.Entry{
		UserID:       who.ID,
		UserEmail:    who.Email,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValue:     oldValue,
		NewValue:     newValue,
	}
	if r != nil {
		entry.IPAddress = getClientIP(r)
		entry.UserAgent = r.UserAgent()
	}

	logCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	if err := rec.store.Log(logCtx, entry); err != nil {
		rec.zapLog.Error("audit write failed",
			zap.String("action", action),
			zap.String("resource_type", resourceType),
			zap.String("resource_id", resourceID),
			zap.Error(err))
	}
}
