package middleware

// Keys under which pipeline stages stash per-request values in the gin
// context.
const (
	ctxConsumer      = "consumer"
	ctxHealthRequest = "health_request"

	// CtxInstance carries the resolved upstream address from
	// Authenticate to the forwarder.
	CtxInstance = "instance"
)
