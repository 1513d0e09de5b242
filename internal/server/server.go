package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foody/internal/config"
	"foody/internal/static"
	"foody/internal/storage"

	"github.com/gin-gonic/gin"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	store      *storage.Store
	engine     *gin.Engine
	httpServer *http.Server
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, store *storage.Store) *Server {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), corsMiddleware(cfg.CORS))

	s := &Server{
		config: cfg,
		store:  store,
		engine: engine,
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	s.setupRoutes()
	return s
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes() {
	// ヘルスチェックとルートリダイレクトは静的ファイルより優先する
	// ルート配下に health というファイルが置かれても挙動が変わらないようにするため
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/", s.handleRoot)

	// 公開API
	api := s.engine.Group("/api/v1")
	api.GET("/offers", s.handlePublicOffers)

	// マーチャントAPI
	merchant := api.Group("/merchant")
	merchant.POST("/register_public", s.handleRegister)
	merchant.GET("/offers", s.handleListOffers)
	merchant.POST("/offers", s.handleCreateOffer)
	merchant.DELETE("/offers/:id", s.handleArchiveOffer)
	merchant.POST("/offers/:id/restore", s.handleRestoreOffer)

	// どのルートにも一致しないパスは静的ファイル解決にフォールバックする
	resolver := static.NewResolver(s.config.Static.WebDir(), s.config.Static.BaseDir)
	s.engine.NoRoute(resolver.Handler())
}

// Start はサーバーを起動する
// コンテキストのキャンセルかシグナルの受信でグレースフルに停止する
func (s *Server) Start(ctx context.Context) error {
	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s", s.config.ServerAddress())
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			shutdownCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-shutdownCh:
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	// 5秒のタイムアウトを設定
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
