package api

const (
	// MaxBodyBytes is the largest tip request body accepted
	MaxBodyBytes = int64(65536) //revive:disable:unexported-naming

	// idempotencyKeyHeader carries the optional client nonce used to derive
	// the provider idempotency key
	idempotencyKeyHeader = "Idempotency-Key"

	// logPrefix marks every step logged by the tip payment handler
	logPrefix = "[create-tip-payment] "
)

// corsAllowedHeaders are the request headers browsers may send cross-origin.
var corsAllowedHeaders = []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type", idempotencyKeyHeader}
