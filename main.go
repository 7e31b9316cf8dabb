package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"classroom_backend/internals/configs"
	database "classroom_backend/internals/databases"
	paymentService "classroom_backend/internals/features/finance/payments/service"
	authDto "classroom_backend/internals/features/users/auth/dto"
	scheduler "classroom_backend/internals/features/users/auth/scheduler"
	authService "classroom_backend/internals/features/users/auth/service"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/mailer"
	"classroom_backend/internals/helpers/oss"
	middlewares "classroom_backend/internals/middlewares"
	"classroom_backend/internals/middlewares/logger"
	routes "classroom_backend/internals/route"
)

var rootCmd = &cobra.Command{
	Use:           "classroom",
	Short:         "Classroom management backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := configs.InitLogger(!strings.EqualFold(os.Getenv("APP_ENV"), "production")); err != nil {
			return err
		}
		configs.LoadEnv()
		return nil
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.ConnectDB(); err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(database.DB); err != nil {
			return err
		}
		configs.Log().Info("✅ migration finished")
		return nil
	},
}

var adminReq authDto.CreateAdminAccountRequest

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a login account with an admin profile",
	RunE:  runCreateAdmin,
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminReq.UserName, "username", "", "login user name (required)")
	f.StringVar(&adminReq.Password, "password", "", "password, letters and digits (required)")
	f.StringVar(&adminReq.FullName, "full-name", "", "full name (required)")
	f.StringVar(&adminReq.Email, "email", "", "email (required)")
	f.StringVar(&adminReq.DOB, "dob", "1990-01-01", "date of birth YYYY-MM-DD")
	f.StringVar(&adminReq.PhoneNumber, "phone", "0000000000", "phone number")
	f.StringVar(&adminReq.Address, "address", "-", "address")
	f.StringVar(&adminReq.Position, "position", "Administrator", "position")
	for _, name := range []string{"username", "password", "full-name", "email"} {
		_ = createAdminCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		configs.Log().Error("command failed", zap.Error(err))
		_ = configs.Log().Sync()
		os.Exit(1)
	}
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	adminReq.Normalize()
	if err := helper.NewValidator().Struct(&adminReq); err != nil {
		return fmt.Errorf("invalid input: %v", helper.ValidationErrors(err))
	}
	if err := database.ConnectDB(); err != nil {
		return err
	}
	defer database.Close()

	admin, res, err := authService.CreateAdminAccount(cmd.Context(), database.DB, adminReq)
	if err != nil {
		return err
	}
	if !res.OK() {
		return errors.New(res.Message)
	}
	configs.Log().Info(res.Message, zap.String("admin_id", admin.AdminID.String()), zap.String("user_name", adminReq.UserName))
	return nil
}

func newMailer() mailer.Mailer {
	from := mail.Address{Name: configs.MailFromName, Address: configs.MailFrom}
	if configs.SendgridAPIKey == "" {
		configs.Log().Info("SENDGRID_API_KEY is not set, emails are written to the log")
		return mailer.NewConsoleMailer(from, configs.Log())
	}
	return mailer.NewSendgridMailer(configs.SendgridAPIKey, from, configs.MailFromName)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := configs.Log()
	configs.InitRollbar()
	defer configs.CloseRollbar()

	// 🔌 DB connect + pool
	if err := database.ConnectDB(); err != nil {
		return err
	}
	database.TunePool()
	defer database.Close()

	// service bersama
	dispatcher := mailer.NewDispatcher(newMailer(), log)
	tokens := authService.NewTokenIssuer(configs.JWTSecret, configs.JWTRefreshSecret)
	google := authService.NewGoogleVerifier(configs.GoogleClientID)
	deps := routes.Deps{
		DB:       database.DB,
		Auth:     authService.NewAuthService(database.DB, tokens, google, dispatcher),
		Payments: paymentService.NewPaymentService(database.DB, paymentService.NewMidtransGateway(configs.MidtransServerKey, configs.MidtransUseProd), configs.MidtransServerKey),
		Mail:     dispatcher,
		Blob:     oss.NewLocalBlobService(configs.MediaRoot, configs.MediaURL),
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		BodyLimit:             20 * 1024 * 1024,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ErrorHandler:          middlewares.ErrorHandler,
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.GlobalRateLimiter())

	routes.SetupRoutes(app, deps)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ⏱ scheduler setelah DB siap
	cleanupDone := scheduler.StartBlacklistCleanupScheduler(ctx, database.DB, configs.BlacklistTTLDays, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		log.Info("✅ listening", zap.String("port", configs.Port))
		errCh <- app.Listen("0.0.0.0:" + configs.Port)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}
	stop()

	// graceful shutdown: HTTP dulu, lalu scheduler & email yang masih jalan
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	<-cleanupDone
	dispatcher.Wait()
	_ = log.Sync()
	return serveErr
}
