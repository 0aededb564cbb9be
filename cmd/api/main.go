package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inout-app/inout-backend-go/internal/config"
	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	appHTTP "github.com/inout-app/inout-backend-go/internal/handler/http"
	"github.com/inout-app/inout-backend-go/internal/pkg/cron"
	"github.com/inout-app/inout-backend-go/internal/pkg/database"
	"github.com/inout-app/inout-backend-go/internal/pkg/jwt"
	"github.com/inout-app/inout-backend-go/internal/pkg/oauth"
	"github.com/inout-app/inout-backend-go/internal/pkg/secure"
	"github.com/inout-app/inout-backend-go/internal/pkg/sse"
	"github.com/inout-app/inout-backend-go/internal/pkg/storage"
	firestoreRepo "github.com/inout-app/inout-backend-go/internal/repository/firestore"
	"github.com/inout-app/inout-backend-go/internal/repository/memory"
	"github.com/inout-app/inout-backend-go/internal/repository/postgresql"
	attendanceService "github.com/inout-app/inout-backend-go/internal/service/attendance"
	authService "github.com/inout-app/inout-backend-go/internal/service/auth"
	employeeService "github.com/inout-app/inout-backend-go/internal/service/employee"
	"github.com/inout-app/inout-backend-go/internal/service/file"
	locationService "github.com/inout-app/inout-backend-go/internal/service/location"
	profileService "github.com/inout-app/inout-backend-go/internal/service/profile"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users      user.UserRepository
	locations  location.LocationRepository
	attendance attendance.AttendanceRepository
	close      func()
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return &repositories{
			users:      postgresql.NewUserRepository(db),
			locations:  postgresql.NewLocationRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			close:      db.Close,
		}, nil

	case config.StoreDriverFirestore:
		client, err := database.NewFirestoreClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to firestore: %w", err)
		}
		return &repositories{
			users:      firestoreRepo.NewUserRepository(client),
			locations:  firestoreRepo.NewLocationRepository(client),
			attendance: firestoreRepo.NewAttendanceRepository(client),
			close: func() {
				if err := client.Close(); err != nil {
					slog.Error("Failed to close firestore client", "error", err)
				}
			},
		}, nil

	default:
		slog.Warn("Using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:      memory.NewUserRepository(store),
			locations:  memory.NewLocationRepository(store),
			attendance: memory.NewAttendanceRepository(store),
			close:      func() {},
		}, nil
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	cipher, err := secure.NewPayloadCipher(cfg.QR.Passphrase)
	if err != nil {
		return fmt.Errorf("failed to initialize QR cipher: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.IsProduction())
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	idTokenVerifier := oauth.NewIDTokenVerifier(cfg.Audiences())
	hub := sse.NewHub()
	defer hub.Close()

	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendance,
		repos.users,
		repos.locations,
		hub,
		attendanceService.Config{
			Timezone:        cfg.Location(),
			LocationTimeout: cfg.Attendance.LocationTimeout,
		},
	)
	authSvc := authService.NewAuthService(repos.users, JWTService, idTokenVerifier, cfg.Admin.Emails)
	fileSvc := file.NewFileService(fileStorage)
	profileSvc := profileService.NewProfileService(repos.users, fileSvc)
	employeeSvc := employeeService.NewEmployeeService(repos.users, repos.locations, attendanceSvc)
	locationSvc := locationService.NewLocationService(repos.locations, repos.users, cipher, attendanceSvc)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		appHTTP.NewAuthHandler(JWTService, authSvc, GoogleService, cfg.App.FrontendURL, cfg.IsProduction()),
		appHTTP.NewProfileHandler(profileSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc, JWTService),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewLocationHandler(locationSvc),
	)

	scheduler := cron.NewScheduler(ctx)
	if err := cron.NewAttendanceJobs(attendanceSvc, JWTService).Register(scheduler, cfg.Jobs.OpenShiftReportInterval, cfg.Jobs.TokenPurgeInterval); err != nil {
		return fmt.Errorf("failed to register cron jobs: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Store.Driver, "env", cfg.App.Env)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	// Streams hold their connections open; end them before draining.
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
