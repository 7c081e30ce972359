// Package acl is the Anti-Corruption Layer between the gateway and the
// Lexoffice REST API.
//
// It keeps Lexoffice wire details out of the domain:
//
//   - [Query] and the *Query helpers encode list filters into canonical query strings
//   - [Coordinator] runs a request through the rate limiter and transport,
//     retrying transient failures and resolving optimistic-lock conflicts
//   - [KindForStatus] and [MapStatusError] translate HTTP statuses and error
//     bodies into [domain.Error] values
//   - [Lexoffice] exposes one method per remote operation
//
// # Error Handling Strategy
//
// Every failure leaving this package is a *[domain.Error]:
//   - 400 → InvalidRequest, 401 → Unauthenticated, 402 → AccountRestricted
//   - 403 → Forbidden, 404 → NotFound, 405 → MethodNotAllowed
//   - 406 → NotAcceptable, 409 → Conflict, 415 → UnsupportedMediaType
//   - 429 → RateLimited, 5xx → Transient, anything else → Unexpected
//
// 5xx responses and transport failures are retried with exponential backoff
// before they surface. A 409 on an update triggers a read of the resource and a
// resubmit carrying its current version. Everything else is returned at once;
// a 429 is reported rather than retried so the gateway does not add to the
// remote side's backpressure.
//
// Reads that hit a 404 return found == false instead of an error.
package acl
