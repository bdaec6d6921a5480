package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"rentalapp/internal/models"
	"rentalapp/internal/storage"
)

type Server struct {
	port      int
	db        *models.DB
	s3Service *storage.S3Service
	logger    *zap.Logger
}

func (s *Server) GetDB() *models.DB {
	return s.db
}

func (s *Server) GetStorage() *storage.S3Service {
	return s.s3Service
}

func (s *Server) GetLogger() *zap.Logger {
	return s.logger
}

func NewServer(logger *zap.Logger) (*http.Server, error) {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := models.NewDB()
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	s3Service, err := storage.NewS3Service()
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}

	srv := &Server{
		port:      port,
		db:        db,
		s3Service: s3Service,
		logger:    logger,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
