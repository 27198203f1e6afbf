package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"projectflow/config"
	"projectflow/controller"
	"projectflow/controller/attachments"
	"projectflow/controller/auth"
	"projectflow/controller/board"
	"projectflow/controller/comment"
	"projectflow/controller/dashboard"
	"projectflow/controller/notification"
	"projectflow/controller/project"
	"projectflow/controller/task"
	"projectflow/controller/user"
	"projectflow/middleware"
	"projectflow/notify"
	"projectflow/scheduler"
	"projectflow/services"
	"projectflow/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "projectflow"

// NewRouter registers every route on a fresh engine.
func NewRouter(s *controller.Services, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(otelgin.Middleware(serviceName))
	router.Use(cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth.AuthController(router, s, log)
	dashboard.DashboardController(router, s)

	project.ProjectController(router, s)
	board.BoardController(router, s)

	task.TaskController(router, s)
	task.AllTasksController(router, s)
	task.CreateTaskController(router, s)
	task.UpdateTaskController(router, s)
	task.DeleteTaskController(router, s)
	task.AssignTaskController(router, s)

	comment.CommentController(router, s)
	attachments.AttachmentsController(router, s)

	user.UserController(router, s)
	notification.NotificationController(router, s)

	return router
}

// NewServices wires the service layer over db. notifier may be nil, in
// which case nothing is sent.
func NewServices(cfg *config.Config, db *gorm.DB, store storage.ObjectStorage, notifier services.Notifier, inbox *notify.PushTransport, log *zap.Logger) *controller.Services {
	wf := services.NewWorkflow(db, log)
	secret := []byte(cfg.JWTSecret)
	return &controller.Services{
		Workflow:    wf,
		Projects:    services.NewProjectService(db, wf, store, log),
		Tasks:       services.NewTaskService(db, wf, store, notifier, cfg.AppURL, log),
		Comments:    services.NewCommentService(db, store, notifier, cfg.AppURL, log),
		Attachments: services.NewAttachmentService(db, store, cfg.MaxUploadBytes, log),
		Users:       services.NewUserService(db, log),
		Query:       services.NewQueryService(db, log),
		Inbox:       inbox,
		Auth:        middleware.AccessTokenMiddleware(secret),
		Secret:      secret,
		TokenTTL:    cfg.TokenTTL,
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, func(), error) {
	switch cfg.StorageDriver {
	case "gcs":
		g, err := storage.NewGCS(ctx, cfg.GCSBucket, cfg.FirebaseCredentials)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { g.Close() }, nil
	default:
		l, err := storage.NewLocal(cfg.StorageDir, cfg.PublicURL)
		if err != nil {
			return nil, nil, err
		}
		return l, func() {}, nil
	}
}

// StartServer connects every backend, serves HTTP until SIGINT/SIGTERM and
// then drains the notification workers.
func StartServer(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := DBConnection(cfg.DatabaseDSN, log)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}

	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStore()

	mailer := &notify.SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}
	var transport notify.Transport = mailer
	var inbox *notify.PushTransport
	if cfg.FirebaseCredentials != "" {
		fb, err := FBConnection(ctx, cfg.FirebaseCredentials)
		if err != nil {
			return fmt.Errorf("failed to initialize Firebase: %w", err)
		}
		defer fb.Close()
		inbox = &notify.PushTransport{Firestore: fb.Firestore, Messaging: fb.Messaging}
		transport = notify.Chain(log, mailer, inbox)
	}

	dispatcher := notify.NewDispatcher(db, transport, log, notify.Options{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
		Rate:      cfg.NotifyRate,
		Backoff:   2 * time.Second,
	})
	dispatcher.Start()
	defer dispatcher.Stop()

	sweeper, err := scheduler.StartScheduler(cfg.SweepSpec, dispatcher, log)
	if err != nil {
		return err
	}
	defer sweeper.Stop()

	router := NewRouter(NewServices(cfg, db, store, dispatcher, inbox, log), log)
	if cfg.StorageDriver == "local" {
		router.Static("/storage", cfg.StorageDir)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
