// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - rayid: assigns every request a UUID ray id (X-Ray-ID), stored in Locals
//     for log correlation.
//   - auth: verifies HS256 bearer tokens issued at login, exposes the caller's
//     email and role, and guards admin routes with RequireAdmin.
//
// Public routes (catalog browsing, register, login, swagger) are mounted before
// the auth middleware; everything after it requires a client identity.
package middleware
