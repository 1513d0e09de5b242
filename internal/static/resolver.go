package static

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// WebPrefix は webルートに対応するURLプレフィックス
const WebPrefix = "/web/"

// Strategy は1つの探索戦略を表す
// リクエストパスを書き換え、特定のルートディレクトリに対して解決を試みる
type Strategy struct {
	Name string // ログ・テスト用の戦略名
	Root string // 探索対象のルートディレクトリ

	// Rewrite はリクエストパスをルート相対のパスに変換する
	// この戦略が適用できない場合は false を返す
	Rewrite func(requestPath string) (string, bool)
}

// Resolver は順序付きの探索戦略でリクエストパスをファイルに解決する
type Resolver struct {
	strategies []Strategy
}

// NewResolver は webDir と baseDir に対する標準の3戦略を持つResolverを作成する
//
// 戦略は次の順で試行される:
//  1. /web/ プレフィックスを除去して webDir を探索
//  2. パス全体で webDir を直接探索
//  3. パス全体で baseDir を探索
func NewResolver(webDir, baseDir string) *Resolver {
	return &Resolver{
		strategies: []Strategy{
			{
				Name: "web-prefix",
				Root: webDir,
				Rewrite: func(p string) (string, bool) {
					if !strings.HasPrefix(p, WebPrefix) {
						return "", false
					}
					return strings.TrimPrefix(p, WebPrefix), true
				},
			},
			{
				Name: "web-direct",
				Root: webDir,
				Rewrite: func(p string) (string, bool) {
					return p, true
				},
			},
			{
				Name: "base",
				Root: baseDir,
				Rewrite: func(p string) (string, bool) {
					return p, true
				},
			},
		},
	}
}

// Resolve はリクエストパスを配信対象のファイルパスに解決する
// どの戦略でも見つからない場合は ok=false を返す
func (r *Resolver) Resolve(requestPath string) (string, bool) {
	for _, s := range r.strategies {
		rel, ok := s.Rewrite(requestPath)
		if !ok {
			continue
		}
		if file, ok := lookup(s.Root, rel); ok {
			return file, true
		}
	}
	return "", false
}

// Handler は解決結果を配信するginハンドラを返す
// 解決できないパスには404を返す
func (r *Resolver) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}

		if file, ok := r.Resolve(c.Request.URL.Path); ok {
			c.File(file)
			return
		}

		c.String(http.StatusNotFound, "404 page not found")
	}
}

// lookup はルートディレクトリ配下で相対パスの解決を試みる
//
// 解決規則:
//   - パスがディレクトリを指す場合は配下の index.html
//   - パスに拡張子がない場合は .html を補完したファイル
func lookup(root, rel string) (string, bool) {
	// 先頭にスラッシュを付けてCleanすることで、 .. による
	// ルート外への脱出をここで打ち消す
	rel = path.Clean("/" + rel)

	full := filepath.Join(root, filepath.FromSlash(rel))
	if !contained(root, full) {
		return "", false
	}

	if info, err := os.Stat(full); err == nil {
		if !info.IsDir() {
			return full, true
		}
		index := filepath.Join(full, "index.html")
		if fi, err := os.Stat(index); err == nil && !fi.IsDir() {
			return index, true
		}
		return "", false
	}

	if path.Ext(rel) == "" {
		withExt := full + ".html"
		if fi, err := os.Stat(withExt); err == nil && !fi.IsDir() {
			return withExt, true
		}
	}

	return "", false
}

// contained はfullがroot配下にあることを確認する
// Cleanで正規化済みだが、配信前の最終確認として独立に検査する
func contained(root, full string) bool {
	root = filepath.Clean(root)
	full = filepath.Clean(full)
	if full == root {
		return true
	}
	return strings.HasPrefix(full, root+string(filepath.Separator))
}
