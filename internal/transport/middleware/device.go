package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/pkg/ctxutil"
)

// DeviceIdentity resolves guests by their X-Device-Id header. A request that
// carries no valid bearer token but sends a device UUID gets that UUID as its
// user identity, so guests keep per-device recipes and sessions without an
// account. Must run after Auth so a real login always wins.
func DeviceIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			deviceID, err := uuid.Parse(r.Header.Get("X-Device-Id"))
			if err != nil || deviceID == uuid.Nil {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), deviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
