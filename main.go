package main

import (
	"context"
	"log"

	"foody/internal/config"
	"foody/internal/server"
	"foody/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// .env があれば読み込む（なくても起動は続行する）
	if err := godotenv.Load(".env"); err != nil {
		log.Printf(".envファイルは読み込まれませんでした: %v", err)
	}

	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// データベースを開く
	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("データベースのオープンに失敗しました: %v", err)
	}
	defer store.Close()

	// サーバーを作成
	srv := server.New(cfg, store)

	// コンテキストを作成
	ctx := context.Background()

	// サーバーを起動
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
