package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"furniture-store/core/config"
	"furniture-store/core/loader"
	"furniture-store/core/logger"
	"furniture-store/core/middleware/auth"
	"furniture-store/core/middleware/rayid"

	"furniture-store/feature/account"
	"furniture-store/feature/cart"
	"furniture-store/feature/integrity"
	"furniture-store/feature/inventory"
	"furniture-store/feature/order"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "furniture-store/docs/swagger"
)

// @title Furniture Store API
// @version 1.0
// @description Storefront API for furniture inventory, carts, checkout and orders.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the furniture store server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 3. Auth and accounts
		issuer := auth.NewIssuer(cfg.Auth)
		users := account.NewRegistry(cfg.Auth, issuer, logg)
		guard := auth.New(issuer, auth.WithRoleLookup(users.Role))

		// 4. Database (optional) and in-memory state
		db := openDatabase(cfg, logg)
		rt, err := loadState(ctx, cfg, logg, db, users, cfg.Inventory.SeedDemo)
		if err != nil {
			return err
		}

		// 5. Storage
		client, err := openStorage(ctx, cfg, logg)
		if err != nil {
			return err
		}

		carts := cart.NewCarts(cfg.Cart.Promotion())
		cartService := cart.NewService(carts, rt.inventory, rt.book, users,
			cart.NewStore(client, cfg.Storage.Bucket), cfg.Cart, logg)

		// 6. Register Features
		mgr := loader.NewManager(logg)
		mgr.Register(inventory.NewFeature(rt.inventory, logg, cfg.Inventory, guard))
		mgr.Register(order.NewFeature(rt.book, order.NewExporter(client, cfg.Storage.Bucket), logg, guard))
		mgr.Register(account.NewFeature(users, logg, guard))
		mgr.Register(cart.NewFeature(cartService, guard))
		mgr.Register(integrity.NewFeature(client, cfg.Storage.Bucket, logg, db, users, guard))

		app := fiber.New(cfg.Server.FiberConfig())

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(requestLogger(logg))

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("name", cfg.Server.Name), zap.String("port", cfg.Server.Port))
			errCh <- app.Listen(cfg.Server.Address())
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

// requestLogger logs every request with its ray id, status and latency.
func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := logger.WithRayID(logg, c)
		err := c.Next()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			l.Error("Request error", append(fields, zap.Error(err))...)
			return err
		}
		l.Info("Request completed", fields...)
		return nil
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
