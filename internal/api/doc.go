// Package api provides the HTTP transport for the self-check portal. It
// handles the raw Authorization header, the browser-like headers the portal
// expects, JSON serialization and retry with exponential backoff for
// transient failures.
//
// # Client Creation
//
// The package provides two ways to create a client:
//
//   - [NewClient]: Struct-based configuration for explicit setup.
//   - [New]: Functional options pattern for flexible configuration.
//
// Both require an authorization token. The token is sent unmodified in the
// Authorization header on every request; the portal does not use a scheme
// prefix.
//
// # Retry Behavior
//
// Idempotent calls ([Client.HasPassword], [Client.GetKeypadSession]) are
// retried for network failures and for these HTTP status codes:
//
//   - 408 Request Timeout
//   - 429 Too Many Requests
//   - 500 Internal Server Error
//   - 502 Bad Gateway
//   - 503 Service Unavailable
//   - 504 Gateway Timeout
//
// [Client.ValidatePassword] is never retried here. The portal counts every
// submission against the account, so repeating one is the caller's decision.
//
// # Responses
//
// The validation endpoint answers with one of several shapes. They are
// parsed into a [ValidateResult] whose Kind is either [ResultAuthorized] or
// [ResultRejected]; any other shape yields [apierrors.ErrUnexpectedResponse].
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package api
