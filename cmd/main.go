package main

import (
	stdlog "log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yusurko/freak/config"
	"github.com/yusurko/freak/internal/cache"
	"github.com/yusurko/freak/internal/handlers"
	"github.com/yusurko/freak/internal/middlewares"
	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/internal/routers"
	"github.com/yusurko/freak/internal/services"
	"github.com/yusurko/freak/internal/storage"
	"github.com/yusurko/freak/middleware/jwt"
	logger "github.com/yusurko/freak/middleware/log"
	"github.com/yusurko/freak/pkg/mq"
	"github.com/yusurko/freak/utils/snowflake"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		stdlog.Fatalf("配置初始化失败: %v", err)
	}

	appLog, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		stdlog.Fatalf("日志初始化失败: %v", err)
	}
	defer appLog.Close()

	jwt.SetJWTSecret(cfg.JWT.Secret)

	// 标识符生成器；多实例部署靠 machine_id/process_id 区分
	idGen, err := snowflake.NewGenerator(snowflake.Config{
		MachineID: cfg.Snowflake.MachineID,
		ProcessID: cfg.Snowflake.ProcessID,
	})
	if err != nil {
		stdlog.Fatalf("标识符生成器初始化失败: %v", err)
	}

	// 初始化 PostgreSQL
	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	postgres, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		stdlog.Fatalf("postgres 初始化失败: %v", err)
	}

	// 初始化 Redis（计数缓存）
	redisClient, err := storage.InitRedis(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.MinIdleConns)
	if err != nil {
		stdlog.Fatalf("redis 初始化失败: %v", err)
	}
	counterCache := cache.NewCounterCache(redisClient, time.Duration(cfg.Cache.CounterTTL)*time.Second)

	// 仓储层
	userRepo := repositories.NewUserRepository(postgres)
	guildRepo := repositories.NewGuildRepository(postgres)
	blockRepo := repositories.NewBlockRepository(postgres)
	postRepo := repositories.NewPostRepository(postgres)
	voteRepo := repositories.NewVoteRepository(postgres)
	reportRepo := repositories.NewReportRepository(postgres)

	// Kafka 审计事件；不可用时降级为不发事件
	var audit services.AuditEmitter
	kafkaProducer, err := mq.NewKafkaAuditProducer(&cfg.Kafka)
	if err != nil {
		stdlog.Printf("Kafka 生产者初始化失败: %v。审计事件将不投递。", err)
	} else {
		audit = kafkaProducer
		defer kafkaProducer.Close()
	}

	// 服务层
	blockService := services.NewBlockService(blockRepo, userRepo)
	membership := services.NewMembershipService(guildRepo, userRepo, blockRepo)
	userService := services.NewUserService(userRepo, idGen)
	guildService := services.NewGuildService(guildRepo, membership, idGen)
	postService := services.NewPostService(postRepo, guildRepo, userRepo, blockService, membership, idGen)
	voteService := services.NewVoteService(voteRepo, userRepo, postRepo)
	siteService := services.NewSiteService(userRepo, postRepo, counterCache)
	reportService := services.NewReportService(reportRepo, postRepo, userRepo, guildRepo, membership, audit, idGen, appLog)

	// 处理器
	userHandler := handlers.NewUserHandler(userService, voteService, userRepo)
	guildHandler := handlers.NewGuildHandler(guildService, membership, userService, userRepo)
	postHandler := handlers.NewPostHandler(postService, voteService, guildService, userService, userRepo)
	blockHandler := handlers.NewBlockHandler(blockService, userService)
	reportHandler := handlers.NewReportHandler(reportService, reportRepo, userRepo)
	siteHandler := handlers.NewSiteHandler(siteService)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(middlewares.TraceMiddleware(appLog))

	routers.SetupRoutes(r, userHandler, guildHandler, postHandler, blockHandler, reportHandler, siteHandler)

	stdlog.Printf("正在启动服务器，监听端口 :%d\n", cfg.Server.Port)
	if err := r.Run(":" + strconv.FormatInt(int64(cfg.Server.Port), 10)); err != nil {
		stdlog.Fatalf("启动服务器失败: %v", err)
	}
}
