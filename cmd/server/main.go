package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"os/signal"
	"syscall"

	"github.com/cwrk-planet/creator-hub/internal/config"
	"github.com/cwrk-planet/creator-hub/internal/pg"
	"github.com/cwrk-planet/creator-hub/internal/repository"
	"github.com/cwrk-planet/creator-hub/internal/repository/memory"
	"github.com/cwrk-planet/creator-hub/internal/repository/postgres"
	"github.com/cwrk-planet/creator-hub/internal/security"
	"github.com/cwrk-planet/creator-hub/internal/service"
	"github.com/cwrk-planet/creator-hub/internal/storage"
	httpserver "github.com/cwrk-planet/creator-hub/internal/server/http"
	grpcx "github.com/cwrk-planet/creator-hub/internal/transport/grpc"
	httpx "github.com/cwrk-planet/creator-hub/internal/transport/http"
	"github.com/cwrk-planet/creator-hub/internal/transport/ws"
	"github.com/cwrk-planet/creator-hub/pkg/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type repos struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	rooms    repository.RoomMessageRepository
	dms      repository.DirectMessageRepository
	ping     func(ctx context.Context) error
	close    func()
}

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.ParseEnv(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting creator-hub",
		slog.String("env", cfg.Logging.Env),
		slog.String("version", cfg.Logging.Version),
		slog.String("storage", cfg.Storage.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- storage ---
	st, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer st.close()

	// --- security ---
	tokens, err := security.NewTokenService(cfg.Security.JWT.Secret, cfg.Security.JWT.TTL,
		security.WithIssuer(cfg.Security.JWT.Issuer),
		security.WithLeeway(cfg.Security.JWT.ClockSkew),
	)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	passPolicy := security.BcryptConfig{
		Cost:      cfg.Security.Password.BcryptCost,
		MinLength: cfg.Security.Password.MinLength,
	}

	// --- uploads ---
	uploader, err := openUploader(ctx, cfg.Upload)
	if err != nil {
		log.Fatalf("uploader: %v", err)
	}

	// --- services ---
	authSvc := service.NewAuthService(st.users, tokens, passPolicy, nil)
	profileSvc := service.NewProfileService(st.users, st.profiles, uploader, cfg.Upload.Folder, cfg.Upload.MaxBytes, nil)
	creatorSvc := service.NewCreatorService(st.users)
	messageSvc := service.NewMessageService(st.users, st.rooms, st.dms, cfg.Realtime.MaxTextLength, nil)

	// --- realtime ---
	registry := ws.NewRegistry()
	fanout, closeFanout, err := openFanout(ctx, cfg, registry)
	if err != nil {
		log.Fatalf("fanout: %v", err)
	}
	defer closeFanout()

	wsServer := ws.NewServer(registry, ws.NewBroadcaster(messageSvc, fanout), tokens, ws.Options{
		ReadLimit:      cfg.Realtime.MaxMessageBytes,
		PingInterval:   cfg.Realtime.PingInterval,
		RequireAuth:    cfg.Realtime.RequireAuth,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	// --- HTTP ---
	handler := httpx.NewHandler(authSvc, profileSvc, creatorSvc, messageSvc, cfg.Upload.MaxBytes)
	router := httpx.NewRouter(httpx.Deps{
		Handler:        handler,
		Verifier:       tokens,
		WS:             wsServer,
		Ready:          st.ping,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	httpSrv := httpserver.New(httpserver.Config{
		Addr:            cfg.Server.HTTPAddr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router)

	// --- gRPC health ---
	grpcServer, healthSrv := grpcx.NewServer()
	monitor := grpcx.NewHealthMonitor(healthSrv, pingerFunc(st.ping), 0)
	go monitor.Run(ctx)

	// --- run both servers ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpSrv.Run(gctx) })

	if cfg.Server.GRPCAddr != "" {
		g.Go(func() error {
			lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
			if err != nil {
				return err
			}
			go func() {
				<-gctx.Done()
				grpcServer.GracefulStop()
			}()
			slog.Info("grpc listen", slog.String("addr", cfg.Server.GRPCAddr))
			return grpcServer.Serve(lis)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("server error", slog.Any("err", err))
	}
	slog.Info("stopped")
}

func openStorage(ctx context.Context, cfg *config.Config) (*repos, error) {
	if cfg.Storage.Driver == "memory" {
		slog.Warn("using in-memory storage, data is lost on restart")
		db := memory.NewDB()
		return &repos{
			users:    memory.NewUsers(db),
			profiles: memory.NewProfiles(db),
			rooms:    memory.NewRoomMessages(db),
			dms:      memory.NewDirectMessages(db),
			ping:     func(context.Context) error { return nil },
			close:    func() {},
		}, nil
	}

	pool, err := pg.NewPool(ctx, cfg.Postgres.ToPGConfig())
	if err != nil {
		return nil, err
	}

	return &repos{
		users:    postgres.NewUserRepoFromPool(pool),
		profiles: postgres.NewProfileRepoFromPool(pool),
		rooms:    postgres.NewRoomMessageRepo(pool),
		dms:      postgres.NewDirectMessageRepo(pool),
		ping:     func(ctx context.Context) error { return pg.Ping(ctx, pool) },
		close:    pool.Close,
	}, nil
}

func openUploader(ctx context.Context, cfg config.Upload) (storage.Uploader, error) {
	if cfg.Driver == "inline" {
		return storage.InlineUploader{}, nil
	}

	return storage.NewS3Uploader(ctx, storage.S3Config{
		Endpoint:        cfg.Endpoint,
		Region:          cfg.Region,
		Bucket:          cfg.Bucket,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UsePathStyle:    cfg.UsePathStyle,
		PublicURL:       cfg.PublicURL,
	})
}

func openFanout(ctx context.Context, cfg *config.Config, reg *ws.Registry) (ws.Fanout, func(), error) {
	if cfg.Realtime.Fanout != "redis" {
		return ws.NewLocalFanout(reg), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	f := ws.NewRedisFanout(client, cfg.Redis.ChannelPrefix, reg)
	if err := f.Start(ctx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return f, func() { _ = client.Close() }, nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
