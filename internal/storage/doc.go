// Package storage は、レストラン・APIキー・オファーの永続化を担当します。
//
// このパッケージは、SQLiteデータベースへの接続と各エンティティの
// CRUD操作を提供します。
//
// 責務:
//   - データベース接続の確立とスキーマの初期化
//   - レストラン登録とAPIキーの発行
//   - APIキーによる認証
//   - オファーの作成・一覧・アーカイブ・復元
//   - 購入者向けの公開オファー一覧
//
// 仕様:
//   - mattn/go-sqlite3 ドライバを使用
//   - WALモードで動作する
//   - 日時はUTCのRFC3339文字列として保存する
package storage
