package app

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pitchside/fieldbook-gateway/internal/api"
	"github.com/pitchside/fieldbook-gateway/internal/auth"
	"github.com/pitchside/fieldbook-gateway/internal/expiry"
	"github.com/pitchside/fieldbook-gateway/internal/notify"
	"github.com/pitchside/fieldbook-gateway/internal/pkg/qrimage"
	"github.com/pitchside/fieldbook-gateway/internal/reconcile"
	"github.com/pitchside/fieldbook-gateway/internal/upstream"
	"github.com/pitchside/fieldbook-gateway/internal/view"
	viewHttp "github.com/pitchside/fieldbook-gateway/internal/view/http"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	Upstream upstream.Client
	Events   notify.Publisher

	JWTSecret string
	JWTTTL    time.Duration

	PaymentDeadline      time.Duration
	ExpiryTick           time.Duration
	ReloadDebounce       time.Duration
	ReloadGrace          time.Duration
	MatchRequestPageSize int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router      *gin.Engine
	JWTManager  *auth.JWTManager
	ViewService *view.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	events := cfg.Events
	if events == nil {
		events = notify.NewNoopPublisher()
	}

	// Reconciler
	reconciler := reconcile.New(cfg.Upstream, cfg.MatchRequestPageSize)

	// View Module (owns the expiry monitor)
	viewService := view.NewService(cfg.Upstream, reconciler, expiry.Config{
		Deadline: cfg.PaymentDeadline,
		Tick:     cfg.ExpiryTick,
		Debounce: cfg.ReloadDebounce,
		Grace:    cfg.ReloadGrace,
	}, events)

	viewHandler := viewHttp.NewHandler(viewService, qrimage.NewProcessor())

	// Router
	router := api.NewRouter(api.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		ViewHandler:  viewHandler,
		JWTManager:   jwtManager,
	})

	return &Container{
		Router:      router,
		JWTManager:  jwtManager,
		ViewService: viewService,
	}
}
