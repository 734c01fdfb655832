// Package httpserver provides the HTTP/HTTPS server for the CSRF token
// service: the server wrapper, the middleware chain, and the router
// tying the handlers to sessions, metrics, and rate limiting.
package httpserver
