// internal/app/system/limits/limits.go
package limits

// Request body size limits for the JSON API.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxGroupBodySize is the maximum size of a create-group request.
	MaxGroupBodySize = 64 << 10 // 64 KB

	// MaxSessionBodySize is the maximum size of a create or update session request.
	MaxSessionBodySize = 32 << 10 // 32 KB
)
