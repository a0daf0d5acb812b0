// Package integrity checks the infrastructure the store depends on.
//
// # Checks Provided
//
//   - Structure: the storage bucket exists and holds the carts/ and orders/ folders.
//     Missing folders can be created with ?fix=true.
//   - Server: every persisted model (furniture, orders, order_lines, users) has a
//     table whose columns and declared types match the model's gorm tags.
//   - Carts: every saved cart under carts/ belongs to a registered account.
//
// # HTTP Endpoints (admin)
//
//   - GET /admin/integrity : Runs all checks.
//   - GET /admin/integrity/structure : Structure check (supports ?fix=true).
//   - GET /admin/integrity/server : Schema check.
//   - GET /admin/integrity/carts : Saved carts without an owner.
package integrity
