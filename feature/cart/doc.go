// Package cart implements the per-user shopping cart and checkout.
//
// A cart maps item keys ("Kind/Name") to positive quantities in insertion order and
// keeps a snapshot of each item for pricing. Totals:
//
//   - CalculateTotal: list price times quantity.
//   - ApplyDiscount: discounted price times quantity, less the cart promotion.
//   - TotalWithTax: ApplyDiscount plus the configured tax rate.
//
// Checkout is all-or-nothing. The inventory reserves every line under one lock; a
// shortage on any line aborts the whole checkout with an INSUFFICIENT_STOCK error
// whose details list each short line, and stock is left untouched.
//
// # Saved carts
//
// Carts are saved to object storage as carts/<email>.csv with the columns
// user_email,item_type,item_name,quantity,price.
//
// # HTTP Endpoints
//
// All routes require a bearer token.
//
//   - GET /cart/view
//   - POST /cart/update, /cart/remove : {"type","name","quantity"}
//   - POST /cart/checkout
//   - POST /cart/save, /cart/load
package cart
