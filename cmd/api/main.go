package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/lottery-rounds/api/routes"
	"github.com/ArowuTest/lottery-rounds/internal/config"
	"github.com/ArowuTest/lottery-rounds/internal/database"
	"github.com/ArowuTest/lottery-rounds/internal/eventbus"
	"github.com/ArowuTest/lottery-rounds/internal/handlers"
	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/scheduler"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/ArowuTest/lottery-rounds/pkg/jwt"
	"github.com/ArowuTest/lottery-rounds/pkg/oracleapi"
	"github.com/ArowuTest/lottery-rounds/pkg/payout"
	"github.com/ArowuTest/lottery-rounds/pkg/vrf"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.SetFormatter(&log.JSONFormatter{})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	if level < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := database.NewStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("Error closing store")
		}
	}()

	bus := eventbus.NewBus()
	defer func() {
		//nolint:errcheck
		bus.Close()
	}()

	var (
		oracle    services.RandomnessOracle
		localVRF  *vrf.Oracle
		transport services.FundsTransport
	)
	switch cfg.Oracle.Type {
	case config.OracleHTTP:
		oracle = oracleapi.NewClient(cfg.Oracle.BaseURL, cfg.Oracle.APIKey, models.Address(cfg.Oracle.Address))
	default:
		localVRF = vrf.New(models.Address(cfg.Oracle.Address), cfg.Oracle.Delay)
		defer localVRF.Close()
		oracle = localVRF
	}
	switch cfg.Payout.Type {
	case config.PayoutHTTP:
		transport = payout.NewGateway(cfg.Payout.BaseURL, cfg.Payout.APIKey)
	default:
		transport = payout.NewLedger()
	}

	lottery := services.NewLotteryService(services.Dependencies{
		Store:     store,
		Access:    services.NewAdminList(cfg.Admin.Addresses),
		Oracle:    oracle,
		Transport: transport,
		Publisher: bus,
	})

	var proofs handlers.ProofSource
	if localVRF != nil {
		localVRF.SetFulfiller(func(ctx context.Context, requestID string, value uint64) error {
			return lottery.FulfillRandomness(ctx, localVRF.Address(), requestID, value)
		})
		proofs = localVRF
		if key, err := localVRF.PublicKey(); err == nil {
			log.WithField("publicKey", key).Info("local oracle ready")
		}
	}

	if cfg.Scheduler.AutoDraw {
		keeper := scheduler.NewKeeper(lottery, nil)
		events, err := bus.Subscribe(ctx)
		if err != nil {
			log.Fatalf("Failed to subscribe keeper: %v", err)
		}
		if err := keeper.Start(ctx, events); err != nil {
			log.Fatalf("Failed to start keeper: %v", err)
		}
		defer keeper.Stop()
	}

	issuer := jwt.NewTokenIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		RoundHandler:    handlers.NewRoundHandler(lottery),
		DrawHandler:     handlers.NewDrawHandler(lottery, oracle.Address(), proofs),
		ClaimHandler:    handlers.NewClaimHandler(lottery),
		SettingsHandler: handlers.NewSystemSettingsHandler(lottery),
		EventHandler:    handlers.NewEventHandler(lottery, bus),
	}, issuer)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.WithFields(log.Fields{
		"port":    cfg.Server.Port,
		"storage": cfg.Storage.Type,
		"oracle":  cfg.Oracle.Type,
		"payout":  cfg.Payout.Type,
	}).Info("Server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	cancel()

	log.Info("Server exiting")
}
