// Package connection provides the HTTP client csrfctl uses to talk to
// csrfd.
//
// The server binds tokens to a cookie-backed session, so the client
// persists the session cookie in a file between invocations; without it
// every csrfctl call would land in a fresh session and never see the
// tokens it issued before.
package connection
