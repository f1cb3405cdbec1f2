package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	hedgeapp "github.com/wyfcoding/optionhedge/internal/hedge/application"
	"github.com/wyfcoding/optionhedge/internal/hedge/domain"
	"github.com/wyfcoding/optionhedge/internal/hedge/infrastructure/messaging"
	hedgegrpc "github.com/wyfcoding/optionhedge/internal/hedge/interfaces/grpc"
	hedgehttp "github.com/wyfcoding/optionhedge/internal/hedge/interfaces/http"
	pricingapp "github.com/wyfcoding/optionhedge/internal/pricing/application"
	pricinghttp "github.com/wyfcoding/optionhedge/internal/pricing/interfaces/http"
	"github.com/wyfcoding/optionhedge/pkg/cache"
	"github.com/wyfcoding/optionhedge/pkg/config"
	"github.com/wyfcoding/optionhedge/pkg/logger"
	"github.com/wyfcoding/optionhedge/pkg/metrics"
	"github.com/wyfcoding/optionhedge/pkg/middleware"
	"github.com/wyfcoding/optionhedge/pkg/mq"
	"github.com/wyfcoding/optionhedge/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	var (
		configPath string
		serve      bool
		sweep      bool
		spot       float64
		months     int
	)
	flag.StringVar(&configPath, "config", "configs/hedgesim.toml", "path to config file")
	flag.BoolVar(&serve, "serve", false, "run HTTP and gRPC servers")
	flag.BoolVar(&sweep, "sweep", false, "print the default scenario grid")
	flag.Float64Var(&spot, "spot", 24000, "underlying spot for the scenario")
	flag.IntVar(&months, "months", 0, "months remaining to expiry, 0 means at expiry")
	flag.Parse()

	// 1. Config
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	// 2. Logger
	if err := logger.Init(loggerConfig(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}

	// 3. Domain
	position, err := domain.NewPosition(positionConfig(cfg.Hedge))
	if err != nil {
		logger.Fatal(context.Background(), "invalid hedge position", "error", err)
	}

	if !serve {
		if err := runOnce(os.Stdout, position, spot, months, sweep); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(cfg, position); err != nil {
		logger.Error(context.Background(), "server exited with error", "error", err)
		os.Exit(1)
	}
}

// runOnce 单次评估并打印结果，不启动任何服务
func runOnce(w io.Writer, position *domain.Position, spot float64, months int, sweep bool) error {
	ctx := context.Background()
	svc := hedgeapp.NewHedgeService(position, nil, nil)

	pos, err := svc.GetPosition(ctx)
	if err != nil {
		return err
	}
	for _, leg := range pos.Legs {
		if leg.Instrument == "FUTURE" {
			continue
		}
		fmt.Fprintf(w, "%s %s entry price: %s\n", leg.Side, leg.Instrument, leg.EntryPrice)
	}

	if sweep {
		res, err := svc.Sweep(ctx, hedgeapp.SweepCommand{})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%10s %8s %14s %14s %14s %14s\n", "spot", "T", "future", "put", "call", "total")
		for _, r := range res.Reports {
			fmt.Fprintf(w, "%10.2f %8.4f %14s %14s %14s %14s\n", r.Spot, r.TimeRemaining, r.FuturePnL, r.PutPnL, r.CallPnL, r.TotalPnL)
		}
		return nil
	}

	if months < 0 {
		return fmt.Errorf("months must be >= 0, got %d", months)
	}
	cmd := hedgeapp.EvaluateScenarioCommand{Spot: spot, AtExpiry: months == 0}
	if months > 0 {
		cmd.TimeRemaining = domain.MonthsToYears(months)
	}
	r, err := svc.EvaluateScenario(ctx, cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "scenario: spot=%.2f time_remaining=%.4f\n", r.Spot, r.TimeRemaining)
	fmt.Fprintf(w, "future P&L: %s\n", r.FuturePnL)
	fmt.Fprintf(w, "put P&L:    %s\n", r.PutPnL)
	fmt.Fprintf(w, "call P&L:   %s\n", r.CallPnL)
	fmt.Fprintf(w, "total P&L:  %s\n", r.TotalPnL)
	return nil
}

func runServer(cfg *config.Config, position *domain.Position) error {
	ctx := context.Background()

	// 4. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.ServiceName)
	if err := m.Register(reg); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	collector := metrics.NewDefaultMetricsCollector(m)

	// 5. Infrastructure
	var limiter ratelimit.RateLimiter = ratelimit.NewLocalRateLimiter()
	if cfg.Redis.Enabled {
		rc, err := cache.New(ctx, cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return err
		}
		defer rc.Close()
		limiter = ratelimit.NewRedisRateLimiter(rc.GetClient())
	}

	var publisher *messaging.KafkaEventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{Brokers: cfg.Kafka.Brokers})
		if err != nil {
			return err
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
		logger.Info(ctx, "event publishing enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	// 6. Application
	var pricingSvc *pricingapp.PricingService
	var hedgeSvc *hedgeapp.HedgeService
	if publisher != nil {
		pricingSvc = pricingapp.NewPricingService(publisher, collector)
		hedgeSvc = hedgeapp.NewHedgeService(position, publisher, collector)
	} else {
		pricingSvc = pricingapp.NewPricingService(nil, collector)
		hedgeSvc = hedgeapp.NewHedgeService(position, nil, collector)
	}

	// 7. Interfaces
	grpcSrv := grpc.NewServer(
		grpc.MaxConcurrentStreams(uint32(cfg.GRPC.MaxConcurrentStreams)),
		grpc.ChainUnaryInterceptor(
			middleware.GRPCRecoveryInterceptor(),
			middleware.GRPCLoggingInterceptor(),
			middleware.GRPCMetricsInterceptor(collector),
			middleware.GRPCRateLimitInterceptor(limiter, cfg.RateLimit),
		),
	)
	hedgegrpc.RegisterHedgeServiceServer(grpcSrv, hedgegrpc.NewGRPCHandler(pricingSvc, hedgeSvc))
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(hedgegrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(collector),
		middleware.RateLimitMiddleware(limiter, cfg.RateLimit),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
	r.GET("/ready", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "READY"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	pp := r.Group("/debug/pprof")
	{
		pp.GET("/", gin.WrapF(pprof.Index))
		pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pp.GET("/profile", gin.WrapF(pprof.Profile))
		pp.GET("/symbol", gin.WrapF(pprof.Symbol))
		pp.GET("/trace", gin.WrapF(pprof.Trace))
	}
	pricinghttp.NewPricingHandler(pricingSvc).RegisterRoutes(&r.RouterGroup)
	hedgehttp.NewHedgeHandler(hedgeSvc).RegisterRoutes(&r.RouterGroup)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path, reg)
	}

	// 8. Start
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		logger.Info(gctx, "gRPC server starting", "addr", addr)
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if metricsSrv != nil {
		g.Go(func() error {
			logger.Info(gctx, "metrics server starting", "addr", metricsSrv.Addr, "path", cfg.Metrics.Path)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	// 9. Graceful Shutdown
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(gctx, "shutting down servers...")
		case <-gctx.Done():
			logger.Info(gctx, "context cancelled, shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		healthSrv.Shutdown()
		grpcSrv.GracefulStop()
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func loggerConfig(cfg *config.Config) logger.Config {
	l := cfg.Logger
	return logger.Config{
		Level:      l.Level,
		Format:     l.Format,
		Output:     l.Output,
		FilePath:   l.FilePath,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
		WithCaller: l.WithCaller,
	}
}

func positionConfig(h config.HedgeConfig) domain.PositionConfig {
	return domain.PositionConfig{
		StrikePut:           h.StrikePut,
		StrikeCall:          h.StrikeCall,
		Rate:                h.Rate,
		IVPut:               h.IVPut,
		IVCall:              h.IVCall,
		Qty:                 h.Qty,
		FutureEntryPrice:    h.FutureEntryPrice,
		InitialTimeToExpiry: h.InitialTimeToExpiry,
		InitialSpot:         h.InitialSpot,
	}
}
