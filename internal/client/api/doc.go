// Package api is the terminal client's authenticated HTTP client for the
// Diarify REST backend.
//
// # Requests
//
// FetchWithAuth attaches the stored bearer credential, FetchWithoutAuth does
// not, and FetchUploadWithAuth sends a multipart body. Every response body
// is decoded into a models.Envelope. A non-2xx status other than 401 is not
// an error here: callers inspect Envelope.Error.
//
// # Session expiry
//
// A 401 on an authenticated request clears the stored credential and
// session, asks the Navigator to go to the sign-in route and returns
// ErrSessionExpired. The body of such a response is never read.
//
// # Errors
//
//   - ErrUnavailable: the server could not be reached.
//   - ErrSessionExpired: the server rejected the credential.
//   - *models.ServerError: returned by the endpoint wrappers when the
//     envelope carries an error.
package api
