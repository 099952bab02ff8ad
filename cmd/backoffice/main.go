// Точка входа Back Office — административной панели маркетплейса.
// Загружает конфигурацию и переводы, подключается к PostgreSQL, применяет
// миграции, создаёт сервисный слой и REST API, коллекции админ-страниц
// и запускает HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/backoffice/internal/adminclient"
	"github.com/bigkaa/backoffice/internal/api/contract"
	"github.com/bigkaa/backoffice/internal/api/handlers"
	"github.com/bigkaa/backoffice/internal/api/middleware"
	"github.com/bigkaa/backoffice/internal/collection"
	"github.com/bigkaa/backoffice/internal/config"
	"github.com/bigkaa/backoffice/internal/database"
	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/domain/rbac"
	"github.com/bigkaa/backoffice/internal/i18n"
	"github.com/bigkaa/backoffice/internal/repository"
	"github.com/bigkaa/backoffice/internal/sampledata"
	"github.com/bigkaa/backoffice/internal/server"
	"github.com/bigkaa/backoffice/internal/service"
	uihandlers "github.com/bigkaa/backoffice/internal/ui/handlers"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Back Office запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("BO_DEPHEALTH_GROUP") == "" {
		logger.Warn("BO_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Каталоги переводов (en, ru)
	bundle, err := i18n.Load(logger)
	if err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	i18n.SetDefault(bundle)

	// 4. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 6. Repositories и services
	cache := service.NewSnapshotCache(cfg.SnapshotCacheSize, cfg.SnapshotCacheTTL, logger)
	internalUsersSvc := service.NewInternalUserService(repository.NewInternalUserRepository(pool), logger)
	plansSvc := service.NewPlanService(repository.NewPlanRepository(pool), cache, logger)
	suppliersSvc := service.NewSupplierService(repository.NewSupplierRepository(pool), logger)

	// 7. topologymetrics — мониторинг PostgreSQL
	var deps handlers.DependencyHealth
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"backoffice",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL("postgres"),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
	} else {
		deps = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 8. Аутентификация: JWT через JWKS или роль по умолчанию
	var auth func(http.Handler) http.Handler
	if cfg.AuthEnabled() {
		jwtAuth, err := middleware.NewJWTAuth(
			cfg.JWTJWKSURL,
			cfg.JWTIssuer,
			rbac.GroupMapping{
				Admin:    cfg.RoleAdminGroups,
				Support:  cfg.RoleSupportGroups,
				Readonly: cfg.RoleReadonlyGroups,
			},
			cfg.JWTLeeway,
			logger,
		)
		if err != nil {
			logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
			os.Exit(1)
		}
		auth = jwtAuth.Middleware()
		logger.Info("JWT middleware инициализирован",
			slog.String("jwks_url", cfg.JWTJWKSURL),
			slog.String("issuer", cfg.JWTIssuer),
		)
	} else {
		auth = middleware.StaticRole(cfg.UIDefaultRole)
		logger.Warn("BO_JWT_JWKS_URL не задан, аутентификация отключена",
			slog.String("role", cfg.UIDefaultRole),
		)
	}

	// 9. Проверка запросов API по OpenAPI-контракту
	var validator func(http.Handler) http.Handler
	if cfg.OpenAPIValidation {
		doc, err := contract.Load()
		if err != nil {
			logger.Error("Ошибка загрузки OpenAPI-контракта", slog.String("error", err.Error()))
			os.Exit(1)
		}
		validator, err = middleware.OpenAPIValidator(doc, logger)
		if err != nil {
			logger.Error("Ошибка создания OpenAPI-валидатора", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 10. Клиент REST API для страниц внутренних пользователей, тарифов и поставщиков
	var clientOpts []adminclient.Option
	if cfg.APICACert != "" {
		clientOpts = append(clientOpts, adminclient.WithCACert(cfg.APICACert))
	}
	apiClient, err := adminclient.New(cfg.APIURL, cfg.APITimeout, adminclient.StaticToken(cfg.APIToken), logger, clientOpts...)
	if err != nil {
		logger.Error("Ошибка создания клиента API", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Коллекции админ-страниц
	notifier := collection.NotifierFunc(func(n collection.Notification) {
		attrs := []any{
			slog.String("domain", n.Domain),
			slog.String("action", n.Action),
			slog.String("id", n.ID),
		}
		if n.Success {
			logger.Info("Действие выполнено", attrs...)
			return
		}
		logger.Warn("Действие не выполнено", append(attrs, slog.String("message", n.Message))...)
	})
	common := []collection.Option{collection.WithNotifier(notifier), collection.WithLogger(logger)}
	sim := []collection.SimOption{
		collection.SimLatency(cfg.SampleLatency),
		collection.SimFailureRate(cfg.SampleFailureRate),
	}

	storesSeed, err := sampledata.Stores()
	if err != nil {
		logger.Error("Ошибка загрузки образцов магазинов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	usersSeed, err := sampledata.ExternalUsers()
	if err != nil {
		logger.Error("Ошибка загрузки образцов пользователей", slog.String("error", err.Error()))
		os.Exit(1)
	}
	ordersSeed, err := sampledata.Orders()
	if err != nil {
		logger.Error("Ошибка загрузки образцов заказов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	stores := collection.NewStore[model.CompetitorStore]("stores",
		collection.NewSimulatedBackend("store", storesSeed, sim...),
		append(common, collection.WithIDPrefix("store"))...)
	users := collection.NewStore[model.ExternalUser]("users",
		collection.NewSimulatedBackend("user", usersSeed, sim...),
		collection.WithNotifier(cache.ForgetUsersOn(notifier)),
		collection.WithLogger(logger),
		collection.WithIDPrefix("user"))
	orders := collection.NewStore[model.Order]("orders",
		collection.NewSimulatedBackend("order", ordersSeed, sim...),
		append(common, collection.WithIDPrefix("order"))...)
	internalUsers := collection.NewStore[model.InternalUser]("internal-users",
		adminclient.InternalUsers(apiClient), append(common, collection.WithRefetch())...)
	plans := collection.NewStore[model.Plan]("plans",
		adminclient.Plans(apiClient), append(common, collection.WithRefetch())...)
	suppliers := collection.NewStore[model.Supplier]("suppliers",
		adminclient.Suppliers(apiClient), append(common, collection.WithRefetch())...)

	// Снимки пользователя и тарифа в заказах
	planLookup := func(ctx context.Context, id string) (model.PlanSnapshot, error) {
		p, err := plansSvc.Get(ctx, id)
		if err != nil {
			return model.PlanSnapshot{}, err
		}
		return p.Snapshot(), nil
	}
	enrichOrders := func(ctx context.Context, items []model.Order) []model.Order {
		return cache.Enrich(ctx, items, service.StoreUsers(users), planLookup)
	}

	// 12. Админ-страницы
	tracker := collection.NewActionTracker(256, cfg.ConfirmTTL)
	shell := uihandlers.NewShell(uihandlers.Navigation, logger)
	pages := []server.Page{
		uihandlers.NewPage(shell, uihandlers.StoresDomain(), stores, tracker, cfg.PageSize, logger),
		uihandlers.NewPage(shell, uihandlers.ExternalUsersDomain(), users, tracker, cfg.PageSize, logger),
		uihandlers.NewPage(shell, uihandlers.InternalUsersDomain(), internalUsers, tracker, cfg.PageSize, logger),
		uihandlers.NewPage(shell, uihandlers.OrdersDomain(enrichOrders), orders, tracker, cfg.PageSize, logger),
		uihandlers.NewPage(shell, uihandlers.PlansDomain(), plans, tracker, cfg.PageSize, logger),
		uihandlers.NewPage(shell, uihandlers.SuppliersDomain(), suppliers, tracker, cfg.PageSize, logger),
	}

	// 13. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, server.Handlers{
		Health:        handlers.NewHealthHandler(database.NewReadinessChecker(pool), deps),
		InternalUsers: handlers.NewInternalUsersHandler(internalUsersSvc, logger),
		Plans:         handlers.NewPlansHandler(plansSvc, logger),
		Suppliers:     handlers.NewSuppliersHandler(suppliersSvc, logger),
		Shell:         shell,
		Pages:         pages,
	}, auth, validator)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 14. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Back Office остановлен")
}
