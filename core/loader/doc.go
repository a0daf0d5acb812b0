// Package loader provides the plugin-like feature loading system.
//
// Each feature package (inventory, account, cart, order, integrity) exposes a
// NewFeature constructor returning a type that satisfies Feature. The start command
// registers them with a Manager and calls LoadAll once the shared middleware is in
// place.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
//   - Register keeps features in registration order.
//   - LoadAll mounts every enabled feature and aborts on the first error.
package loader
