package bootstrap

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JoeShih716/go-k8s-pong-server/internal/config"
)

// App 封裝了應用程式的基礎組件
type App struct {
	Name   string
	Config *config.Config
	Logger *slog.Logger
}

// NewApp 建立一個新的應用程式實例
//
// 1. 初始化 Default Logger
// 2. 載入 Config (config.yaml + Env Override)
// 3. 依環境切換 Logger 格式
func NewApp(appName string, configDir string) *App {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(configDir)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger = NewLogger(cfg)
	slog.SetDefault(logger)

	return &App{
		Name:   appName,
		Config: cfg,
		Logger: logger,
	}
}

// NewLogger Production 使用 JSON，其餘環境使用 Text
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.App.LogLevel)}
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("app", cfg.App.Name)
}

// ParseLevel 無法辨識時回傳 Info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Run 啟動應用程式並等待停止信號
//
// startFunc: 啟動服務的邏輯 (Blocking operation like http.ListenAndServe or grpc.Serve)
// cleanupFunc: 收到停止信號後的清理邏輯
func (a *App) Run(startFunc func() error, cleanupFunc func()) {
	errChan := make(chan error, 1)
	go func() {
		a.Logger.Info("Starting service", "env", a.Config.App.Env)
		errChan <- startFunc()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-quit:
		a.Logger.Info("Shutting down service...")
	case err := <-errChan:
		if err != nil {
			a.Logger.Error("Service stopped unexpectedly", "error", err)
			exitCode = 1
		}
	}

	if cleanupFunc != nil {
		cleanupFunc()
	}
	a.Logger.Info("Service exited")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
