package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "github.com/faha1999/team-to-do-app-sub000/internal/adapter/db"
	httpadapter "github.com/faha1999/team-to-do-app-sub000/internal/adapter/http"
	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/handlers"
	httpmiddleware "github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/middleware"
	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/storage"
	"github.com/faha1999/team-to-do-app-sub000/internal/app/service"
	"github.com/faha1999/team-to-do-app-sub000/internal/config"
	"github.com/faha1999/team-to-do-app-sub000/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	if cfg.SeedFile != "" {
		seed, err := dbadapter.LoadSeed(cfg.SeedFile)
		if err != nil {
			logger.Fatal("failed to load seed file", zap.String("file", cfg.SeedFile), zap.Error(err))
		}
		if err := seed.Apply(context.Background(), db); err != nil {
			logger.Fatal("failed to apply seed", zap.Error(err))
		}
		logger.Info("applied seed fixture", zap.String("file", cfg.SeedFile))
	}

	fileStore, err := storage.NewDiskStore(cfg.AttachmentDir)
	if err != nil {
		logger.Fatal("failed to prepare attachment store", zap.Error(err))
	}

	taskRepository := dbadapter.NewTaskRepository(db)
	editorService := service.NewEditorService(taskRepository, fileStore)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	healthHandler := handlers.NewHealthHandler(db, cfg.AttachmentDir)
	editorHandler := handlers.NewTaskEditorHandler(editorService)
	httpadapter.RegisterRoutes(r, healthHandler, editorHandler, cfg.JWTSecret)

	addr := ":" + cfg.AppPort
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
