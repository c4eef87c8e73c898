package api

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	db "github.com/NexaPay/NexaPay-Backend/db/sqlc"
	"github.com/NexaPay/NexaPay-Backend/models"
	"github.com/NexaPay/NexaPay-Backend/providers"
	"github.com/NexaPay/NexaPay-Backend/providers/payscribe"
	"github.com/NexaPay/NexaPay-Backend/services/cache"
	"github.com/NexaPay/NexaPay-Backend/services/events"
	"github.com/NexaPay/NexaPay-Backend/services/logging"
	"github.com/NexaPay/NexaPay-Backend/services/vas"
	"github.com/NexaPay/NexaPay-Backend/services/wallet"
	"github.com/NexaPay/NexaPay-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	gocache "github.com/patrickmn/go-cache"
)

type Server struct {
	router    *gin.Engine
	store     db.Store
	config    *utils.Config
	logger    *logging.Logger
	provider  *providers.ProviderService
	gateway   *payscribe.PayscribeProvider
	verifier  *payscribe.WebhookVerifier
	publisher *events.Publisher
	plans     vas.PlanCache
	seenRefs  *gocache.Cache
}

func NewServer(envPath string) *Server {
	c, err := utils.LoadConfig(envPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	conn, err := sql.Open(c.DBDriver, utils.GetDBSource(c, c.DBName))
	if err != nil {
		panic(fmt.Sprintf("Could not load DB: %v", err))
	}

	m, err := migrate.New(
		"file://db/migrations",
		utils.GetDBSource(c, c.DBName),
	)
	if err != nil {
		log.Fatalf("Unable to instantiate the database schema migrator - %v", err)
	}

	if err := m.Up(); err != nil {
		if err != migrate.ErrNoChange {
			log.Fatalf("Unable to migrate up to the latest database schema - %v", err)
		}
	}

	g := gin.Default()
	l := logging.NewLogger()
	p := providers.NewProviderService()

	// Set up the payment gateway
	ps := payscribe.New(c.PayscribeBaseURL, c.PayscribeKey, l)
	p.AddProvider(ps)

	var publisher *events.Publisher
	if c.KafkaBrokers != "" {
		publisher = events.NewPublisher(strings.Split(c.KafkaBrokers, ","))
	}

	var plans vas.PlanCache
	if c.RedisHost != "" {
		r, err := cache.NewRedisService(&cache.RedisConfig{
			Host:     c.RedisHost,
			Port:     c.RedisPort,
			Password: c.RedisPassword,
		})
		if err != nil {
			l.Error("Redis unavailable, data plans will not be cached", err)
		} else {
			plans = r
		}
	}

	g.Use(CORSMiddleware())
	g.Use(l.LoggingMiddleWare())

	return &Server{
		router:    g,
		store:     db.NewStore(conn),
		config:    c,
		logger:    l,
		provider:  p,
		gateway:   ps,
		verifier:  payscribe.NewWebhookVerifier(c.PayscribeWebhookSecret),
		publisher: publisher,
		plans:     plans,
		seenRefs:  gocache.New(10*time.Minute, 15*time.Minute),
	}
}

// virtualAccounts hands the gateway to the wallet service. The nil check
// happens here on the concrete pointer: a typed-nil provider inside the
// interface would defeat the service's own guard.
func (s *Server) virtualAccounts() wallet.VirtualAccountCreator {
	if s.gateway == nil {
		return nil
	}
	return s.gateway
}

func (s *Server) Start() {

	dr := models.SuccessResponse{
		Status:  "success",
		Message: "Welcome to NexaPay!",
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})

	/// Register Object Routers Below
	Wallet{}.router(s)
	Transaction{}.router(s)
	Webhook{}.router(s)
	VAS{}.router(s)

	s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}
