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

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"go.uber.org/zap"

	"github.com/VitaminP8/goddit/graph"
	"github.com/VitaminP8/goddit/graph/generated"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/config"
	"github.com/VitaminP8/goddit/internal/loader"
	"github.com/VitaminP8/goddit/internal/logger"
	"github.com/VitaminP8/goddit/internal/post"
	"github.com/VitaminP8/goddit/internal/storage/memory"
	mongostore "github.com/VitaminP8/goddit/internal/storage/mongo"
	"github.com/VitaminP8/goddit/internal/storage/postgres"
	"github.com/VitaminP8/goddit/internal/token"
	"github.com/VitaminP8/goddit/internal/user"
	"github.com/VitaminP8/goddit/internal/vote"
	"github.com/VitaminP8/goddit/models"
	gomongo "go.mongodb.org/mongo-driver/mongo"
)

func main() {
	storageType := flag.String("storage", "memory", "Тип хранилища: memory или postgres")
	flag.Parse()

	// загружаем .env из нашего config.go
	config.LoadEnv()

	if err := logger.Init(config.GetEnvOrDefault("APP_ENV", "development")); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	var postStore post.PostStorage
	var voteStore vote.VoteStorage
	var userStore user.UserStorage
	var tokenStore token.TokenStorage

	switch *storageType {
	case "postgres":
		if err := postgres.InitDB(); err != nil {
			logger.L.Fatal("failed to connect to database", zap.Error(err))
		}
		err := postgres.DB.AutoMigrate(&models.User{}, &models.Post{}, &models.Upvote{}).Error
		if err != nil {
			logger.L.Fatal("failed to migrate database", zap.Error(err))
		}

		logger.L.Info("используется PostgreSQL хранилище")
		postStore = postgres.NewPostPostgresStorage()
		voteStore = postgres.NewVotePostgresStorage()
		userStore = postgres.NewUserPostgresStorage()

	case "memory":
		logger.L.Info("используется in-memory хранилище")
		postMem := memory.NewPostMemoryStorage()
		postStore = postMem
		voteStore = memory.NewVoteMemoryStorage(postMem)
		userStore = memory.NewUserMemoryStorage()

	default:
		logger.L.Fatal("неизвестный тип хранилища", zap.String("storage", *storageType))
	}

	// токены сброса пароля живут в Mongo; без MONGO_URI — in-memory fallback
	var mongoClient *gomongo.Client
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongostore.Connect(ctx, uri)
		cancel()
		if err != nil {
			logger.L.Fatal("failed to connect to mongo", zap.Error(err))
		}
		mongoClient = client

		dbName := config.GetEnvOrDefault("MONGO_DB", "goddit")
		tokenStore = mongostore.NewTokenMongoStorage(client, dbName)
		logger.L.Info("токены сброса пароля хранятся в MongoDB", zap.String("database", dbName))
	} else {
		tokenStore = memory.NewTokenMemoryStorage()
		logger.L.Info("MONGO_URI не задан: токены сброса пароля хранятся в памяти")
	}

	// Инициализация резолвера
	resolver := &graph.Resolver{
		PostStore:  postStore,
		VoteStore:  voteStore,
		UserStore:  userStore,
		TokenStore: tokenStore,
	}

	// Создаем новый сервер GraphQL с резолверами
	srv := handler.NewDefaultServer(generated.NewExecutableSchema(generated.Config{
		Resolvers: resolver,
	}))

	// auth.Middleware валидирует токен сессии (cookie или Bearer) и кладет
	// userID в context; loader.Middleware дает каждому запросу свой батч-кеш
	http.Handle("/query", auth.Middleware(loader.Middleware(userStore, voteStore, srv)))
	// Страница с тестовым интерфейсом Playground
	http.Handle("/", playground.Handler("GraphQL Playground", "/query"))

	addr := ":" + config.GetEnvOrDefault("PORT", "8080")
	server := &http.Server{
		Addr: addr,
	}

	// запуск HTTP сервера
	go func() {
		logger.L.Info("сервер запущен", zap.String("addr", addr))
		// строка не возвращается (блокирует поток) пока не выполнится server.Shutdown() или не произойдет фатальная ошибка
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Fatal("ошибка сервера", zap.Error(err))
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // ждет сигнал

	logger.L.Info("завершение...")

	if *storageType == "postgres" {
		postgres.CloseDB()
	}

	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.L.Warn("ошибка при отключении от mongo", zap.Error(err))
		}
		cancel()
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.L.Fatal("ошибка при завершении сервера", zap.Error(err))
	}

	logger.L.Info("сервер остановлен корректно")
}
