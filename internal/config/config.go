package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を保持する構造体
// Load() で一度だけ構築され、以降は変更されない
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Static   StaticConfig   `yaml:"static"`
	Database DatabaseConfig `yaml:"database"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout"` // 書き込みタイムアウト
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	// BaseDir は配信のベースディレクトリ
	// buyer/ や merchant/ がリポジトリ直下に置かれるレイアウトに対応する
	BaseDir string `yaml:"base_dir"`
}

// WebDir はベースディレクトリ配下の web サブディレクトリを返す
func (s StaticConfig) WebDir() string {
	return filepath.Join(s.BaseDir, "web")
}

// Roots は静的ファイルの探索ルートを優先順で返す
// (a) web サブディレクトリ (b) ベースディレクトリ自身
func (s StaticConfig) Roots() []string {
	return []string{s.WebDir(), s.BaseDir}
}

// DatabaseConfig はデータベースの設定
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLiteファイルのパス
}

// CORSConfig はCORSの設定
type CORSConfig struct {
	// Origins は "*" またはカンマ区切りのオリジンリスト
	Origins string `yaml:"origins"`
}

// AllowedOrigins は許可するオリジンの一覧を返す
// "*" の場合は全オリジンを許可する
func (c CORSConfig) AllowedOrigins() []string {
	if c.Origins == "*" || c.Origins == "" {
		return []string{"*"}
	}
	parts := strings.Split(c.Origins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Load は設定を読み込む
// 環境変数からデフォルト設定を組み立て、FOODY_CONFIG が指す
// YAMLファイルがあればその内容で上書きする
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsIntOrDefault("PORT", 8080),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Static: StaticConfig{
			BaseDir: getEnvOrDefault("FOODY_ROOT", defaultBaseDir()),
		},
		Database: DatabaseConfig{
			Path: getEnvOrDefault("FOODY_DB", "data.db"),
		},
		CORS: CORSConfig{
			Origins: getEnvOrDefault("CORS_ORIGINS", "*"),
		},
	}

	// YAMLファイルによる上書き（任意）
	if path := os.Getenv("FOODY_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// mergeFile はYAMLファイルの内容で設定を上書きする
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	if c.Static.BaseDir == "" {
		return fmt.Errorf("静的ファイルのベースディレクトリが設定されていません")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("データベースのパスが設定されていません")
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// defaultBaseDir は実行ファイルの置かれたディレクトリを返す
// 取得できない場合はカレントディレクトリにフォールバックする
func defaultBaseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
