// Package csrf issues and validates anti-forgery tokens bound to a
// server-side session.
//
// A Manager keeps, per caller-chosen token name, up to two values in the
// session: the most recently generated value ("new") and the value that
// was current before the last rotation ("old"). A protected page is
// typically invoked twice per round trip: once to render a form (token
// created) and once to receive the submission, where common handler
// ordering re-creates the token before validation runs. Validating
// against the old slot therefore checks the submission against the value
// the user actually saw at render time. Hosts that create the token only
// once per round trip should validate against the new slot instead.
//
// The Manager owns no state of its own beyond configuration; all token
// state lives in the injected SessionStore under a single namespace key.
// One Manager instance can be shared across the whole process.
//
// Concurrent requests racing within the same session are not serialized
// here: rotation is last-writer-wins, and a host wanting stronger
// guarantees must serialize session access itself.
package csrf
