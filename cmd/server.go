// Package main はFoodyサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"foody/internal/config"
	"foody/internal/server"
	"foody/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// コマンドラインオプション
	var (
		host = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port = flag.Int("port", 0, "サーバーのポート (デフォルト: 8080)")
		db   = flag.String("db", "", "SQLiteファイルのパス (デフォルト: data.db)")
		root = flag.String("root", "", "静的ファイルのベースディレクトリ")
		help = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("Foody")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// .env があれば読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Printf(".envファイルは読み込まれませんでした: %v", err)
	}

	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *db != "" {
		cfg.Database.Path = *db
	}
	if *root != "" {
		cfg.Static.BaseDir = *root
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
	log.Printf("Foody サーバーを起動します: %s", cfg.ServerAddress())
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
