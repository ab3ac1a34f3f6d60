package svc

import (
	"context"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"dexspread/internal/application/port"
	"dexspread/internal/application/service"
	"dexspread/internal/domain"
	domainservice "dexspread/internal/domain/service"
	"dexspread/internal/infrastructure/config"
	"dexspread/internal/infrastructure/publish"
	compositejournal "dexspread/internal/infrastructure/storage/composite"
	memoryjournal "dexspread/internal/infrastructure/storage/memory"
	postgresjournal "dexspread/internal/infrastructure/storage/postgres"
	sqlitejournal "dexspread/internal/infrastructure/storage/sqlite"
	"dexspread/internal/infrastructure/venue"
	"dexspread/internal/interfaces/telegram"
)

type ServiceContext struct {
	Ctx    context.Context
	Config *config.Config

	// 基础设施层（第一层初始化）
	redisClient *redisclient.Client
	journal     port.AlertJournal
	publishers  []port.AlertPublisher

	// 应用业务组件（依赖基础设施）
	sources []port.PriceSource
	fetcher *service.Fetcher
	calc    *domainservice.Calculator
	prefs   *domain.PrefStore
	scanner *service.Scanner
	alerts  *service.AlertService

	// 资源管理
	closerChain []func() error
}

// New 创建并初始化 ServiceContext
// 这是应用启动的唯一入口点，所有依赖初始化都在这里完成
func New(ctx context.Context, cfg *config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{
		Ctx:         ctx,
		Config:      cfg,
		closerChain: make([]func() error, 0),
	}

	// 初始化所有组件，按依赖顺序
	if err := sc.initializeComponents(); err != nil {
		// 清理已初始化的资源
		_ = sc.Close()
		return nil, err
	}
	return sc, nil
}

// initializeComponents 初始化所有应用组件
// 按照依赖关系有序初始化，确保不会有循环依赖
func (sc *ServiceContext) initializeComponents() error {
	// 0. 初始化存储层 (最基础，最后被其他依赖使用)
	if err := sc.initializeStorage(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageInitFailed, err)
	}

	// 1. 交易所价格源
	if err := sc.initializeVenues(); err != nil {
		return err
	}

	// 2. 业务组件
	fees := make(map[string]float64, len(sc.sources))
	for _, src := range sc.sources {
		fees[src.Name()] = src.Fee()
	}

	fetchTimeout := time.Duration(sc.Config.App.FetchTimeoutSec) * time.Second
	sc.fetcher = service.NewFetcher(sc.sources, fetchTimeout)
	sc.calc = domainservice.NewCalculator(sc.Config.App.Notional, fees)
	sc.prefs = domain.NewPrefStore(sc.Config.App.DefaultMinProfit)
	sc.scanner = service.NewScanner(sc.fetcher, sc.calc, sc.prefs, sc.Config.Instruments.List)
	sc.alerts = service.NewAlertService(sc.journal, sc.publishers...)

	log.Info().
		Int("venues", len(sc.sources)).
		Int("instruments", len(sc.Config.Instruments.List)).
		Float64("notional", sc.Config.App.Notional).
		Float64("default_min_profit", sc.Config.App.DefaultMinProfit).
		Msg("✓ All components initialized")

	return nil
}

// initializeVenues 按配置构建启用的价格源
func (sc *ServiceContext) initializeVenues() error {
	for _, name := range sc.Config.EnabledVenues() {
		vc := sc.Config.Venues[name]
		src, err := venue.Build(name, vc.BaseURL, vc.Fee)
		if err != nil {
			return err
		}
		sc.sources = append(sc.sources, src)
		log.Info().
			Str("venue", src.Name()).
			Float64("fee", src.Fee()).
			Msg("✓ Venue initialized")
	}
	if len(sc.sources) == 0 {
		return ErrNoVenuesEnabled
	}
	return nil
}

// initializeStorage 初始化存储层 (SQLite / Postgres / Redis)
func (sc *ServiceContext) initializeStorage() error {
	var journals []port.AlertJournal

	// SQLite 初始化
	if sc.Config.Storage.SQLite.Enabled {
		j, err := sqlitejournal.New(sc.Config.Storage.SQLite.Path)
		if err != nil {
			return fmt.Errorf("sqlite initialization failed: %w", err)
		}
		journals = append(journals, j)

		// 注册关闭回调
		sc.closerChain = append(sc.closerChain, func() error {
			log.Info().Msg("closing sqlite journal")
			return j.Close()
		})

		log.Info().
			Str("path", sc.Config.Storage.SQLite.Path).
			Msg("✓ SQLite initialized")
	}

	// Postgres 初始化
	if sc.Config.Storage.Postgres.Enabled {
		j, err := postgresjournal.New(sc.Config.Storage.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("postgres initialization failed: %w", err)
		}
		journals = append(journals, j)

		sc.closerChain = append(sc.closerChain, func() error {
			log.Info().Msg("closing postgres journal")
			return j.Close()
		})

		log.Info().Msg("✓ Postgres initialized")
	}

	// Redis 初始化
	if sc.Config.Redis.Enabled {
		if err := sc.initRedis(); err != nil {
			return fmt.Errorf("redis initialization failed: %w", err)
		}
	}

	// 没有任何持久化后端时退化为内存日志，保证告警链路始终可用
	switch len(journals) {
	case 0:
		sc.journal = memoryjournal.New(0)
		log.Info().Msg("no persistent journal enabled, using in-memory journal")
	case 1:
		sc.journal = journals[0]
	default:
		sc.journal = compositejournal.New(journals...)
	}

	return nil
}

// initRedis 初始化 Redis 连接与告警广播
func (sc *ServiceContext) initRedis() error {
	rdb := redisclient.NewClient(&redisclient.Options{
		Addr:     sc.Config.Redis.Addr,
		Password: sc.Config.Redis.Password,
		DB:       sc.Config.Redis.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(sc.Ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	sc.redisClient = rdb
	sc.publishers = append(sc.publishers, publish.NewRedis(rdb, sc.Config.Redis.Stream, sc.Config.Redis.Channel))

	// 注册关闭回调
	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", sc.Config.Redis.Addr).
		Int("db", sc.Config.Redis.DB).
		Msg("✓ Redis initialized")

	return nil
}

// BuildBotDeps 构建 Telegram Bot 所需的全部依赖
// 这个方法由接口层调用，返回一个完整的、经过验证的依赖集合
func (sc *ServiceContext) BuildBotDeps() telegram.Deps {
	venues := make([]string, 0, len(sc.sources))
	for _, src := range sc.sources {
		venues = append(venues, src.Name())
	}

	return telegram.Deps{
		Scanner:        sc.scanner,
		Prefs:          sc.prefs,
		Alerts:         sc.alerts,
		Journal:        sc.journal,
		Instruments:    sc.Config.Instruments.List,
		Venues:         venues,
		Notional:       sc.Config.App.Notional,
		Leverage:       sc.Config.App.Leverage,
		PollTimeoutSec: sc.Config.Telegram.PollTimeoutSec,
	}
}

// GetScanner 获取价差扫描服务
func (sc *ServiceContext) GetScanner() *service.Scanner {
	return sc.scanner
}

// GetPrefs 获取阈值偏好存储
func (sc *ServiceContext) GetPrefs() *domain.PrefStore {
	return sc.prefs
}

// GetAlerts 获取告警服务
func (sc *ServiceContext) GetAlerts() *service.AlertService {
	return sc.alerts
}

// GetJournal 获取告警日志存储
func (sc *ServiceContext) GetJournal() port.AlertJournal {
	return sc.journal
}

// Close 关闭 ServiceContext 中的所有资源
// 应该在应用退出时调用
func (sc *ServiceContext) Close() error {
	// 按照相反的顺序关闭所有资源
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}
	return nil
}
