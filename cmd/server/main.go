package main

import (
	"context"
	"log"
	"time"

	"commerce-service/internal/config"
	httpctl "commerce-service/internal/controllers/http"
	"commerce-service/internal/gateway"
	mmysql "commerce-service/internal/infra/mysql"
	"commerce-service/internal/infra/rabbitmq"
	mysqlrepo "commerce-service/internal/repository/mysql"
	"commerce-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.Load()

	db, err := mmysql.New(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1000)
	sqlDB.SetMaxIdleConns(200)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	productRepo := mysqlrepo.NewProductRepository(db)
	orderRepo := mysqlrepo.NewOrderRepository(db)
	paymentRepo := mysqlrepo.NewPaymentRepository(db)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	gw := gateway.NewSimulator()

	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, publisher)
	paymentService := services.NewPaymentService(paymentRepo, orderRepo, gw, publisher)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	productService.SetRedisClient(redisClient)
	orderService.SetRedisClient(redisClient)

	ctx := context.Background()
	go func() {
		time.Sleep(5 * time.Second)
		if err := productService.WarmupProductCache(ctx, []uint64{1, 2}); err != nil {
			log.Printf("failed to warm up cache: %v", err)
		}
	}()

	handler := httpctl.NewHandler(productService, orderService, paymentService, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	log.Printf("starting commerce service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
