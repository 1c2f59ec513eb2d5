package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDatabase(configs)
	redisClient := mustConnectRedis(configs)

	attachments, err := cmd.NewCloudinaryAttachmentStore(configs)
	if err != nil {
		log.Fatalf("Error connecting to cloudinary: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, attachments, logger)

	jobManager := jobs.NewJobManager(
		app.CreateDispatchIdleOrderCommandHandler(),
		app.CreateReconcileDriversCommandHandler(),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, redisClient, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:              goDotEnvVariable("HTTP_PORT"),
		DBHost:                goDotEnvVariable("DB_HOST"),
		DBPort:                goDotEnvVariable("DB_PORT"),
		DBUser:                goDotEnvVariable("DB_USER"),
		DBPassword:            goDotEnvVariable("DB_PASSWORD"),
		DBName:                goDotEnvVariable("DB_NAME"),
		DBSslMode:             goDotEnvVariable("DB_SSLMODE"),
		RedisHost:             goDotEnvVariable("REDIS_HOST"),
		RedisPort:             goDotEnvVariable("REDIS_PORT"),
		RedisPassword:         goDotEnvVariable("REDIS_PASSWORD"),
		CloudinaryCloudName:   goDotEnvVariable("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:      goDotEnvVariable("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:   goDotEnvVariable("CLOUDINARY_API_SECRET"),
		PointsPerCurrencyUnit: goDotEnvVariable("POINTS_PER_CURRENCY_UNIT"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func mustConnectRedis(configs cmd.Config) redis.UniversalClient {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", configs.RedisHost, configs.RedisPort),
		Password: configs.RedisPassword,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}
	return client
}

func startWebServer(app cmd.CompositionRoot, redisClient redis.UniversalClient, port string) {
	e := echo.New()

	server := httpin.NewServer(
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateMarkOrderReadyCommandHandler(),
		app.CreateJoinShiftCommandHandler(),
		app.CreateLeaveShiftCommandHandler(),
		app.CreateTakeOrderCommandHandler(),
		app.CreateMarkOrderDeliveredCommandHandler(),
		app.CreateCancelOrderByDriverCommandHandler(),
		app.CreateCancelOrderByInventoryCommandHandler(),
		app.CreateAssignOrderManuallyCommandHandler(),
		app.CreateCheckDriverStatusQueryHandler(),
		redisClient,
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
