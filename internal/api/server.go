package api

import (
	"context"
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/basenft/marketplace-royalties/docs"
	"github.com/basenft/marketplace-royalties/internal/analytics"
	v1 "github.com/basenft/marketplace-royalties/internal/api/handler/v1"
	"github.com/basenft/marketplace-royalties/internal/api/middleware"
	"github.com/basenft/marketplace-royalties/internal/config"
	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/event"
	"github.com/basenft/marketplace-royalties/internal/repository"
	"github.com/basenft/marketplace-royalties/internal/repository/dao"
	"github.com/basenft/marketplace-royalties/internal/royalty"
	"github.com/basenft/marketplace-royalties/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	events *event.Manager
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		events: event.NewManager(),
	}

	settingsRepo := repository.NewSettingsRepository(dao.NewSettingsDAO(db))
	if err := seedSettings(settingsRepo, conf.Marketplace); err != nil {
		return nil, fmt.Errorf("api.NewServer -> seedSettings -> %w", err)
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	marketplaceHandler := s.initMarketplaceHandler(db)
	ledgerHandler := s.initLedgerHandler(db)
	adminHandler := s.initAdminHandler(db)
	statsHandler := v1.NewStatsHandler(analytics.NewCollector(s.events))
	s.MountHandlers(authHandler, marketplaceHandler, ledgerHandler, adminHandler, statsHandler)

	return s, nil
}

type settingsSeeder interface {
	Seed(ctx context.Context, settings domain.Settings) error
}

// seedSettings writes the initial administrator, platform account and fee
// configuration on first boot. An existing settings row wins over the file.
// The seeded bounds pass the same validation Configure enforces, so a bad
// deploy config fails the boot instead of entering the database.
func seedSettings(seeder settingsSeeder, mkt *config.MarketplaceConfig) error {
	cfg := domain.FeeConfig{
		PlatformFeeBp: mkt.PlatformFeeBp,
		MinRoyaltyBp:  mkt.MinRoyaltyBp,
		MaxRoyaltyBp:  mkt.MaxRoyaltyBp,
	}
	if err := royalty.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("royalty.ValidateConfig -> %w", err)
	}

	return seeder.Seed(context.Background(), domain.Settings{
		FeeConfig:       cfg,
		Administrator:   mkt.Administrator,
		PlatformAccount: mkt.PlatformAccount,
	})
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initMarketplaceHandler(db *gorm.DB) *v1.MarketplaceHandler {
	listingRepo := repository.NewListingRepository(dao.NewListingDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewAssetDAO(db))
	settingsRepo := repository.NewSettingsRepository(dao.NewSettingsDAO(db))
	settlementRepo := repository.NewSettlementRepository(dao.NewSettlementDAO(db))

	listingSvc := service.NewListingService(listingRepo, ledgerRepo, settingsRepo, s.events)
	settlementSvc := service.NewSettlementService(listingRepo, settingsRepo, settlementRepo, s.events)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewMarketplaceHandler(listingSvc, settlementSvc, uSvc)

	return handler
}

func (s *Server) initLedgerHandler(db *gorm.DB) *v1.LedgerHandler {
	ledgerRepo := repository.NewLedgerRepository(dao.NewAssetDAO(db))
	svc := service.NewLedgerService(ledgerRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewLedgerHandler(svc, uSvc)

	return handler
}

func (s *Server) initAdminHandler(db *gorm.DB) *v1.AdminHandler {
	settingsRepo := repository.NewSettingsRepository(dao.NewSettingsDAO(db))
	svc := service.NewAdminService(settingsRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewAdminHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, marketplaceHandler *v1.MarketplaceHandler, ledgerHandler *v1.LedgerHandler, adminHandler *v1.AdminHandler, statsHandler *v1.StatsHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	public := s.Router.Group(basePath)
	{
		public.GET("/listings/:tokenID", marketplaceHandler.HandleGetListing)
		public.GET("/listings/:tokenID/royalty", marketplaceHandler.HandleRoyaltyInfo)
		public.GET("/assets/:tokenID", ledgerHandler.HandleGetAsset)
		public.GET("/stats", statsHandler.HandleGetStats)
		public.GET("/stats/royalties/:recipient", statsHandler.HandleGetRecipientStats)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.POST("/listings", marketplaceHandler.HandleCreateListing)
		authed.DELETE("/listings/:tokenID", marketplaceHandler.HandleCancelListing)
		authed.POST("/listings/:tokenID/purchase", marketplaceHandler.HandlePurchase)

		authed.POST("/assets", ledgerHandler.HandleRegisterAsset)
		authed.POST("/assets/:tokenID/approval", ledgerHandler.HandleSetApproval)
		authed.POST("/accounts/deposit", ledgerHandler.HandleDeposit)
		authed.GET("/accounts/me", ledgerHandler.HandleGetAccount)
	}

	admin := s.Router.Group(basePath+"/admin", middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.GET("/settings", adminHandler.HandleGetSettings)
		admin.PUT("/config", adminHandler.HandleConfigure)
		admin.POST("/transfer", adminHandler.HandleTransferAdministrator)
		admin.POST("/pause", adminHandler.HandlePause)
		admin.POST("/unpause", adminHandler.HandleUnpause)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "NFT Marketplace Royalties API"
	docs.SwaggerInfo.Description = "Listing, royalty and settlement engine for a fixed-price NFT marketplace."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
