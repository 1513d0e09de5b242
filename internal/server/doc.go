// Package server は、HTTPサーバーとルーティングを管理します。
//
// このパッケージは、HTTPサーバーの起動、マーチャントAPI・公開APIの
// ルーティング、静的ファイル配信へのフォールバックを担当します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - ヘルスチェックとルートパスのリダイレクト
//   - マーチャントAPI（登録・オファー管理）の処理
//   - 公開オファーAPIの処理
//   - 未登録パスの静的ファイル配信へのフォールバック
//
// 仕様:
//   - gin-gonic/gin を使用
//   - /health と / は静的ファイルより優先される明示的なルート
//   - グレースフルシャットダウンに対応
package server
