// Package handler provides the HTTP request handlers for the CSRF
// token service.
//
// This package implements the JSON API for issuing, validating, and
// deleting anti-forgery tokens, along with health endpoints and a demo
// HTML form exercising the render-then-submit flow.
package handler
