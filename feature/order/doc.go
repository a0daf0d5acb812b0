// Package order records purchases and their lifecycle.
//
// An Order is created only by a successful checkout. Its id, owner, lines and total
// never change; the status moves once, from Pending to Completed or Cancelled:
//
//	Pending ──MarkCompleted──▶ Completed
//	   └──────Cancel─────────▶ Cancelled
//
// Any other transition fails with an INVALID_TRANSITION error.
//
// Observers are plain callbacks run synchronously after each transition. The Book,
// the ledger of all orders, attaches its own observers to every order it records
// (persistence, restocking on cancel, owner notification).
//
// # HTTP Endpoints (admin)
//
//   - GET /admin/orders?status=&user= : List orders.
//   - GET /admin/orders/:id : Single order.
//   - POST /admin/orders/:id/complete : Mark completed.
//   - POST /admin/orders/:id/cancel : Cancel and restock.
//   - POST /admin/orders/export : Upload a CSV export to object storage.
package order
