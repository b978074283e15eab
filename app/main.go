package main

import (
	"attendance/config"
	"attendance/domain"
	"attendance/middleware"
	"attendance/services/attendance/delivery"
	"attendance/services/attendance/repository"
	inmemdb "attendance/services/attendance/repository/inmem"
	"attendance/services/attendance/usecase"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log *logrus.Logger
var wg sync.WaitGroup

type qrFlags struct {
	size int
	out  string
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, reading configuration from the environment")
	}

	log = config.GetLogrusInstance()

	root := &cobra.Command{
		Use:          "attendance",
		Short:        "School attendance tracking backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startHTTP()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startHTTP()
		},
	}

	var flags qrFlags
	qrCmd := &cobra.Command{
		Use:   "qr <dni>",
		Short: "Write a student's badge QR code as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQR(cmd.Context(), args[0], flags)
		},
	}
	f := qrCmd.Flags()
	f.IntVar(&flags.size, "size", usecase.DefaultQRSize, "Image size in pixels")
	f.StringVar(&flags.out, "out", "", "Output file (default qr-<dni>.png)")

	root.AddCommand(serveCmd, qrCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type repositories struct {
	attendance domain.AttendanceRepo
	student    domain.StudentRepo
}

func bootStorage() (*repositories, error) {
	switch driver := config.GetStorageDriver(); driver {
	case config.StorageDriverPostgres:
		db, err := config.BootDB()
		if err != nil {
			return nil, err
		}
		return &repositories{
			attendance: repository.NewAttendanceRepository(db),
			student:    repository.NewStudentRepository(db),
		}, nil

	case config.StorageDriverMemory:
		db := inmemdb.NewDB()
		if seed := config.GetStudentsSeedFile(); seed != "" {
			file, err := os.Open(seed)
			if err != nil {
				return nil, fmt.Errorf("failed to open students seed file: %w", err)
			}
			defer file.Close()

			n, err := db.LoadStudentsCSV(file)
			if err != nil {
				return nil, err
			}
			log.Infof("Loaded %d students from %s", n, seed)
		}
		log.Warn("Using in-memory storage, records are lost on shutdown")
		return &repositories{
			attendance: inmemdb.NewAttendanceRepository(db),
			student:    inmemdb.NewStudentRepository(db),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func startHTTP() error {
	log.Info("Starting HTTP")

	schedule := usecase.Schedule{
		Start:     config.GetStartTime(),
		Tolerance: config.GetToleranceTime(),
	}
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("invalid attendance schedule: %w", err)
	}

	loc, err := config.GetSchoolLocation()
	if err != nil {
		return err
	}

	repos, err := bootStorage()
	if err != nil {
		log.WithError(err).Error("Failed to boot storage")
		return err
	}

	timeout := config.GetUseCaseTimeout()

	// Regis repo and Usecase Here
	attendanceUC := usecase.NewAttendanceUseCase(repos.attendance, repos.student, schedule, loc, timeout)
	studentUC := usecase.NewStudentUseCase(repos.student, timeout)
	reportUC := usecase.NewReportUseCase(attendanceUC, loc, time.Now)

	app := fiber.New(config.GetFiberConfig())

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetCORSAllowOrigins(),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", middleware.Health)

	// delivery here
	api := app.Group(config.GetAPIBasePath())
	delivery.NewAttendanceDelivery(api, attendanceUC, reportUC)
	delivery.NewStudentDelivery(api, studentUC)
	delivery.NewReportDelivery(api, reportUC)

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server on %s, API under %s", config.GetFiberListenAddress(), config.GetAPIBasePath())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	<-signalChan

	log.Info("Shutting down the server...")

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
	return nil
}

func runQR(ctx context.Context, dni string, flags qrFlags) error {
	repos, err := bootStorage()
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	png, err := usecase.NewStudentUseCase(repos.student, config.GetUseCaseTimeout()).GetStudentQR(ctx, dni, flags.size)
	if err != nil {
		return err
	}

	out := flags.out
	if out == "" {
		out = fmt.Sprintf("qr-%s.png", dni)
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	log.Infof("QR code for %s written to %s", dni, out)
	return nil
}
