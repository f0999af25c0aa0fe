package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/pkg/nacos"
	"tavolo/internal/pkg/tracing"
)

type AppCtx struct {
	Mux   *http.ServeMux
	Nacos *nacos.Client
}

// AppInfo 包含了启动一个服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx) // 每个服务在这里注册自己的 HTTP 路由并组装依赖
	OnShutdown       func(ctx context.Context)
}

// StartService 封装了所有服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	ctx := context.Background()
	logger.Init(info.ServiceName)
	cfg := GetCurrentConfig()

	// 1. Tracer
	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		logger.Ctx(ctx).Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	// 2. 服务注册（本地调试可不配 Nacos，直连各服务端口）
	var namingClient *nacos.Client
	var registeredIP string
	if cfg.Infra.Nacos.ServerAddrs != "" {
		namingClient, err = nacos.NewNacosClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			logger.Ctx(ctx).Fatal().Err(err).Msg("failed to initialize nacos client")
		}

		registeredIP, err = outboundIP()
		if err != nil {
			logger.Ctx(ctx).Fatal().Err(err).Msg("failed to get outbound IP address")
		}

		if err := namingClient.RegisterServiceInstance(info.ServiceName, registeredIP, info.Port); err != nil {
			logger.Ctx(ctx).Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	// 3. HTTP Server
	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Nacos: namingClient})
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(info.Port), Handler: mux}
	go func() {
		logger.Ctx(ctx).Printf("%s listening on :%d", info.ServiceName, info.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Ctx(ctx).Fatal().Err(err).Msgf("could not listen on %s", server.Addr)
		}
	}()

	// 4. 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Ctx(ctx).Printf("Shutting down service %s...", info.ServiceName)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// 清理顺序与启动相反
	if namingClient != nil {
		if err := namingClient.DeregisterServiceInstance(info.ServiceName, registeredIP, info.Port); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("error deregistering from nacos")
		}
	}

	if info.OnShutdown != nil {
		info.OnShutdown(shutdownCtx)
	}

	// 关闭 TracerProvider，确保缓冲中的 span 全部送出
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("error shutting down tracer provider")
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("error shutting down http server")
	}

	logger.Ctx(ctx).Printf("Service %s gracefully shut down.", info.ServiceName)
}

// outboundIP 返回本机对外通信使用的 IP，用于服务注册。
func outboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
