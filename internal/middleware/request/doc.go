// Package request provides the HTTP middleware that frames each inbound
// request.
//
// It includes middleware for:
//   - Establishing the per-request scope (request ID generation and
//     propagation through the request context)
//   - Wall-clock request timing
//   - Request timeout management
//
// The middleware in this package is designed to be used with standard
// http.Handler interfaces and can be easily chained together.
//
// Example usage:
//
//	handler := request.WithRequestScope(
//		request.WithTiming(logger)(
//			yourHandler,
//		),
//	)
//
// WithTiming must sit after WithRequestScope in the chain so its log line
// carries the request identifier.
package request
