package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server seedbreed-data 的 HTTP 服务
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			// 导入大文件、OCR 识别与 AI 请求都可能较慢
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  90 * time.Second,
		},
		logger: logger,
	}
}

// Start 阻塞直到服务停止；正常 Shutdown 返回 nil
func (s *Server) Start() error {
	s.logger.Info("seedbreed-data listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 等待进行中的请求完成，超过 ctx 期限后强制关闭
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("seedbreed-data shutting down")
	return s.httpServer.Shutdown(ctx)
}
