package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coursedesk/course-api/internal/auth"
	"github.com/coursedesk/course-api/internal/common/config"
	commoncrypto "github.com/coursedesk/course-api/internal/common/crypto"
	"github.com/coursedesk/course-api/internal/common/db"
	commonhttp "github.com/coursedesk/course-api/internal/common/http"
	"github.com/coursedesk/course-api/internal/common/logger"
	srv "github.com/coursedesk/course-api/internal/common/server"
	coursehttp "github.com/coursedesk/course-api/internal/course/http"
	courserepo "github.com/coursedesk/course-api/internal/course/repository"
	courseservice "github.com/coursedesk/course-api/internal/course/service"
	userhttp "github.com/coursedesk/course-api/internal/user/http"
	userrepo "github.com/coursedesk/course-api/internal/user/repository"
	userservice "github.com/coursedesk/course-api/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(context.Background(), log, cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	hasher := &commoncrypto.BcryptHasher{}

	usersRepo := userrepo.NewPgRepository(pool)
	coursesRepo := courserepo.NewPgRepository(pool)

	authenticator := auth.NewAuthenticator(usersRepo, hasher, log)
	usersService := userservice.NewUserService(usersRepo, hasher, log)
	coursesService := courseservice.NewCourseService(coursesRepo, log)

	coursesHandler := coursehttp.NewHandler(coursesService, authenticator, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/users", userhttp.NewHandler(usersService, authenticator, cfg.RequestTimeout, log))
	mux.Handle("/courses", coursesHandler)
	mux.Handle("/courses/", coursesHandler)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	handler := commonhttp.BuildBaseHandler(log, mux)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, handler)

	srv.StartWithGracefulShutdown(server, log, "api")
}
