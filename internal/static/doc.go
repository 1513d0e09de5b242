// Package static は、事前ビルドされたフロントエンドの静的ファイル配信を担当します。
//
// このパッケージは、リクエストパスを複数のルートディレクトリに対して
// 優先順に解決し、最初に見つかったファイルを配信します。
//
// 責務:
//   - /web/ プレフィックス付きパスの解決（プレフィックスを除去してwebルートを探索）
//   - プレフィックスなしパスのwebルート直下の探索
//   - ベースディレクトリ直下の探索（buyer/ や merchant/ が直置きされるレイアウト）
//   - ディレクトリに対する index.html の解決
//   - 拡張子なしパスに対する .html 補完
//
// 仕様:
//   - 探索戦略は明示的な順序付きリストとして保持する
//   - パストラバーサルはルート外に到達する前に正規化される
//   - 書き込みは一切行わない
package static
