// Package inventory is the source of truth for stock.
//
// Items are indexed by kind, then by name; a name is unique within its kind. Every
// mutation (add, remove, set quantity, delete, reserve) notifies the subscribed
// observers synchronously, in subscription order, after the lock is released. An
// observer that fails or panics is logged and does not affect the mutation or the
// observers after it.
//
// # Zero Stock
//
// An entry whose quantity drops to zero is purged. Sold-out items disappear from
// listings and lookups; restocking recreates them from the snapshot carried by the
// order or the admin request.
//
// # Checkout
//
// Reserve validates every requested line under the write lock before decrementing
// anything, so two concurrent checkouts can never oversell and a failed checkout
// leaves stock untouched.
//
// # HTTP Endpoints
//
//   - GET /furniture : Lists the catalog.
//   - GET /furniture/search?type=&name=&material=&color= : Filters the catalog.
//   - GET /furniture/:type/:name : Single item.
//   - GET|POST|PUT|DELETE /admin/inventory/manage : List, add, set quantity, remove (admin).
//   - GET /admin/inventory/low-stock?threshold= : Low stock report (admin).
//
// # Persistence
//
// Store mirrors the inventory into the "furniture" table through an observer, and
// LoadAll hydrates the inventory at startup.
package inventory
