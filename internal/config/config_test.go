package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg == nil {
		t.Fatal("設定がnilです")
	}

	// サーバー設定の検証
	if cfg.Server.Host == "" {
		t.Error("サーバーホストが設定されていません")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		t.Errorf("無効なポート番号: %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		t.Error("読み込みタイムアウトが設定されていません")
	}

	// 静的ファイル設定の検証
	if cfg.Static.BaseDir == "" {
		t.Error("静的ファイルのベースディレクトリが設定されていません")
	}
	if cfg.Static.WebDir() != filepath.Join(cfg.Static.BaseDir, "web") {
		t.Errorf("webディレクトリのパスが不正です: %s", cfg.Static.WebDir())
	}

	// 探索ルートは web → ベースディレクトリの順
	roots := cfg.Static.Roots()
	if len(roots) != 2 {
		t.Fatalf("探索ルートの数が不正です: %d", len(roots))
	}
	if roots[0] != cfg.Static.WebDir() || roots[1] != cfg.Static.BaseDir {
		t.Errorf("探索ルートの順序が不正です: %v", roots)
	}

	// データベース設定の検証
	if cfg.Database.Path == "" {
		t.Error("データベースのパスが設定されていません")
	}
}

// TestConfigLoadPortEnv はPORT環境変数による上書きをテストする
func TestConfigLoadPortEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("PORTによる上書きが反映されていません: %d", cfg.Server.Port)
	}
}

// TestConfigLoadPortEnvInvalid は数値でないPORTがデフォルトにフォールバックすることをテストする
func TestConfigLoadPortEnvInvalid(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("不正なPORTはデフォルト値になるべきです: %d", cfg.Server.Port)
	}
}

// TestConfigLoadFromFile はYAMLファイルによる上書きをテストする
func TestConfigLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  host: 127.0.0.1\n  port: 9100\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("設定ファイルの作成に失敗しました: %v", err)
	}

	t.Setenv("FOODY_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("ホストが上書きされていません: %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("ポートが上書きされていません: %d", cfg.Server.Port)
	}
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name      string
		config    *Config
		expectErr bool
	}{
		{
			name: "正常な設定",
			config: &Config{
				Server: ServerConfig{
					Host:         "localhost",
					Port:         8080,
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 30 * time.Second,
				},
				Static:   StaticConfig{BaseDir: "."},
				Database: DatabaseConfig{Path: "data.db"},
			},
			expectErr: false,
		},
		{
			name: "無効なポート番号",
			config: &Config{
				Server:   ServerConfig{Host: "localhost", Port: 0},
				Static:   StaticConfig{BaseDir: "."},
				Database: DatabaseConfig{Path: "data.db"},
			},
			expectErr: true,
		},
		{
			name: "範囲外のポート番号",
			config: &Config{
				Server:   ServerConfig{Host: "localhost", Port: 70000},
				Static:   StaticConfig{BaseDir: "."},
				Database: DatabaseConfig{Path: "data.db"},
			},
			expectErr: true,
		},
		{
			name: "ベースディレクトリ未設定",
			config: &Config{
				Server:   ServerConfig{Host: "localhost", Port: 8080},
				Static:   StaticConfig{BaseDir: ""},
				Database: DatabaseConfig{Path: "data.db"},
			},
			expectErr: true,
		},
		{
			name: "データベースパス未設定",
			config: &Config{
				Server:   ServerConfig{Host: "localhost", Port: 8080},
				Static:   StaticConfig{BaseDir: "."},
				Database: DatabaseConfig{Path: ""},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.expectErr && err == nil {
				t.Error("エラーが期待されましたが発生しませんでした")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("予期しないエラーが発生しました: %v", err)
			}
		})
	}
}

// TestAllowedOrigins はCORSオリジンの解析をテストする
func TestAllowedOrigins(t *testing.T) {
	testCases := []struct {
		name     string
		origins  string
		expected []string
	}{
		{"ワイルドカード", "*", []string{"*"}},
		{"未設定", "", []string{"*"}},
		{"単一オリジン", "https://example.com", []string{"https://example.com"}},
		{
			"複数オリジン",
			"https://a.example.com, https://b.example.com",
			[]string{"https://a.example.com", "https://b.example.com"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CORSConfig{Origins: tc.origins}.AllowedOrigins()
			if len(got) != len(tc.expected) {
				t.Fatalf("オリジン数が不正です: got %v, want %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("オリジンが不正です: got %v, want %v", got, tc.expected)
				}
			}
		})
	}
}
