package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/config"
	"github.com/weibaohui/startupnavigator/internal/eventbus"
	"github.com/weibaohui/startupnavigator/internal/handler"
	"github.com/weibaohui/startupnavigator/internal/pkg/advisor"
	"github.com/weibaohui/startupnavigator/internal/pkg/database"
	"github.com/weibaohui/startupnavigator/internal/pkg/i18n"
	"github.com/weibaohui/startupnavigator/internal/repository"
	"github.com/weibaohui/startupnavigator/internal/router"
	"github.com/weibaohui/startupnavigator/internal/service"
	"github.com/weibaohui/startupnavigator/internal/service/orchestrator"
	"github.com/weibaohui/startupnavigator/internal/session"
	"github.com/weibaohui/startupnavigator/internal/subscriber"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化回复规则表
	table := advisor.DefaultTable()
	if cfg.Advisor.ResponsesFile != "" {
		table, err = advisor.LoadTable(cfg.Advisor.ResponsesFile)
		if err != nil {
			log.Fatalf("Failed to load responses file %s: %v", cfg.Advisor.ResponsesFile, err)
		}
	}

	catalog, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		log.Fatalf("Failed to load messages: %v", err)
	}

	// 延迟执行器，模拟顾问思考时间
	runner, err := orchestrator.NewRunner(cfg.Advisor.Workers)
	if err != nil {
		log.Fatalf("Failed to create runner: %v", err)
	}
	defer runner.Stop()

	// 初始化 Repository 与事件
	consultationRepo := repository.NewConsultationRepository(db)
	sessionBus := eventbus.NewSessionEventBus()
	subscriber.NewSessionEventSubscriber(consultationRepo).Register(sessionBus)

	// 初始化 Service
	store := session.NewMemoryStore()
	resolver := advisor.NewResolver(table, advisor.WithSeed(cfg.Advisor.Seed))
	if cfg.Advisor.ResponsesFile != "" && cfg.Advisor.ReloadPeriod > 0 {
		watcher := advisor.NewTableWatcher(cfg.Advisor.ResponsesFile, cfg.Advisor.ReloadPeriod, resolver)
		watcher.Start()
		defer watcher.Stop()
	}
	chat, err := advisor.NewChatModel(context.Background(), cfg, resolver)
	if err != nil {
		log.Fatalf("Failed to create chat model: %v", err)
	}
	teamService := service.NewTeamService(cfg, store, runner, sessionBus)
	consultationService := service.NewConsultationService(cfg, store, chat, runner, consultationRepo, sessionBus)

	// 初始化 Handler
	apiHandler := handler.NewAPIHandler(teamService, consultationService, catalog)
	viewHandler := handler.NewViewHandler(teamService, consultationService, catalog)

	// 设置路由
	r, err := router.Setup(cfg, catalog, apiHandler, viewHandler)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, teamService, cfg.Session.SweepInterval, cfg.Session.MaxIdle)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}
	go func() {
		log.Printf("Server starting on port %s...", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	klog.V(6).Info("服务关闭中...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		klog.Errorf("服务关闭失败: %v", err)
	}
}

// sweepSessions 定期清理空闲会话
func sweepSessions(ctx context.Context, teamService service.TeamService, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := teamService.SweepIdle(ctx, maxIdle); removed > 0 {
				klog.V(6).Infof("清理了 %d 个空闲会话", removed)
			}
		}
	}
}
