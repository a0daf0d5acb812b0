// Package server holds the HTTP server configuration.
//
// The start command owns the fiber application lifecycle; this package only
// describes how it should be built: listen port, application name, request
// timeouts and body size limit.
//
// # Usage
//
//	app := fiber.New(cfg.Server.FiberConfig())
//	go app.Listen(cfg.Server.Address())
package server
