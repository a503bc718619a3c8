package httpapi

import "time"

// maxBodyBytes controls the maximum allowed request body size for manifest endpoints.
// Default is 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// planTimeout bounds a single /plan or /compare request.
// Zero means no additional timeout beyond server/connection timeouts.
var planTimeout time.Duration

// SetPlanTimeout sets the per-request planning timeout (0 disables).
func SetPlanTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	planTimeout = d
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
