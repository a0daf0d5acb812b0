// Package account manages store users: registration, login, wishlist, order history
// and order notifications.
//
// Emails are the identity and are stored trimmed and lower-cased. Passwords are kept
// only as bcrypt hashes and must be at least eight characters long with one special
// character. Login compares against a fixed dummy hash when the email is unknown, so
// both failure modes take the same time and return the same AUTHENTICATION error.
// A successful login returns an HS256 bearer token carrying the email and role.
//
// The Registry is the in-memory source of truth; a Store mirrors it to the users
// table when a database is configured.
//
// # HTTP Endpoints
//
//   - POST /user/register, POST /user/login : Public.
//   - GET|PUT /user/profile : Caller's profile.
//   - GET|POST|DELETE /user/wishlist : Caller's wishlist.
//   - GET /user/orders : Caller's order history, oldest first.
//   - GET /user/notifications : Order status changes.
//   - GET|PUT|DELETE /admin/manage_users : Admin user management.
package account
