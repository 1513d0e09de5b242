package storage

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store はSQLiteデータベースへの接続を保持する
type Store struct {
	db *sql.DB
}

// Open は指定されたパスのデータベースを開き、スキーマを初期化する
// パスに ":memory:" を指定するとインメモリで動作する
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("データベースのオープンに失敗: %w", err)
	}

	// 同時読み書きのためWALモードを有効化する
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("WALモードの有効化に失敗: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("外部キー制約の有効化に失敗: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// createSchema はテーブルとインデックスを作成する
func createSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			restaurant_id TEXT PRIMARY KEY REFERENCES restaurants(id),
			key TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS offers (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
			title TEXT NOT NULL,
			price_cents INTEGER NOT NULL DEFAULT 0,
			original_price_cents INTEGER,
			qty_total INTEGER NOT NULL DEFAULT 1,
			qty_left INTEGER NOT NULL DEFAULT 1,
			expires_at TEXT NOT NULL,
			archived_at TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_api_keys_key ON api_keys(key)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_restaurant ON offers(restaurant_id)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("スキーマの作成に失敗: %w", err)
		}
	}
	return nil
}

// Close はデータベース接続を閉じる
func (s *Store) Close() error {
	return s.db.Close()
}

// RegisterRestaurant はレストランを登録し、APIキーを発行する
func (s *Store) RegisterRestaurant(ctx context.Context, title string) (*Credentials, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクションの開始に失敗: %w", err)
	}
	defer tx.Rollback()

	creds := &Credentials{
		RestaurantID: "RID_" + randomHex(8),
		APIKey:       "KEY_" + randomHex(12),
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO restaurants (id, title, created_at) VALUES (?, ?, ?)",
		creds.RestaurantID, title, formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("レストランの登録に失敗: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO api_keys (restaurant_id, key) VALUES (?, ?)",
		creds.RestaurantID, creds.APIKey,
	)
	if err != nil {
		return nil, fmt.Errorf("APIキーの発行に失敗: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("トランザクションのコミットに失敗: %w", err)
	}

	return creds, nil
}

// Authenticate はレストランのAPIキーを検証する
// キーが一致しない場合は ErrUnauthorized を返す
func (s *Store) Authenticate(ctx context.Context, restaurantID, key string) error {
	var stored string
	err := s.db.QueryRowContext(ctx,
		"SELECT key FROM api_keys WHERE restaurant_id = ?", restaurantID,
	).Scan(&stored)

	if err == sql.ErrNoRows {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("APIキーの照会に失敗: %w", err)
	}
	if stored != key {
		return ErrUnauthorized
	}
	return nil
}

// CreateOffer はオファーを作成し、発行されたIDを返す
func (s *Store) CreateOffer(ctx context.Context, offer *Offer) (string, error) {
	id := randomHex(32)

	var original interface{}
	if offer.OriginalPriceCents != nil {
		original = *offer.OriginalPriceCents
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO offers (id, restaurant_id, title, price_cents, original_price_cents,
			qty_total, qty_left, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, offer.RestaurantID, offer.Title, offer.PriceCents, original,
		offer.QtyTotal, offer.QtyLeft, formatTime(offer.ExpiresAt), formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("オファーの作成に失敗: %w", err)
	}

	return id, nil
}

// ListOffers はレストランのオファー一覧をフィルタ条件付きで返す
func (s *Store) ListOffers(ctx context.Context, restaurantID string, status OfferStatus) ([]Offer, error) {
	query := selectOffers + " WHERE restaurant_id = ?"
	switch status {
	case StatusActive:
		query += " AND archived_at IS NULL"
	case StatusArchived:
		query += " AND archived_at IS NOT NULL"
	}

	rows, err := s.db.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("オファー一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows)
}

// PublicOffers は購入者向けの公開オファー一覧を返す
// アーカイブ済み・売り切れ・期限切れのオファーは含まれない
func (s *Store) PublicOffers(ctx context.Context, restaurantID string) ([]Offer, error) {
	query := selectOffers + " WHERE archived_at IS NULL AND qty_left > 0 AND expires_at > ?"
	args := []interface{}{formatTime(time.Now())}
	if restaurantID != "" {
		query += " AND restaurant_id = ?"
		args = append(args, restaurantID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("公開オファー一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows)
}

// ArchiveOffer はオファーをアーカイブする
// 該当レストランのオファーが存在しない場合は ErrNotFound を返す
func (s *Store) ArchiveOffer(ctx context.Context, restaurantID, offerID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE offers SET archived_at = ? WHERE id = ? AND restaurant_id = ?",
		formatTime(time.Now()), offerID, restaurantID,
	)
	if err != nil {
		return fmt.Errorf("オファーのアーカイブに失敗: %w", err)
	}
	return requireAffected(res)
}

// RestoreOffer はアーカイブ済みオファーを復元する
func (s *Store) RestoreOffer(ctx context.Context, restaurantID, offerID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE offers SET archived_at = NULL WHERE id = ? AND restaurant_id = ?",
		offerID, restaurantID,
	)
	if err != nil {
		return fmt.Errorf("オファーの復元に失敗: %w", err)
	}
	return requireAffected(res)
}

const selectOffers = `SELECT id, restaurant_id, title, price_cents, original_price_cents,
	qty_total, qty_left, expires_at, archived_at, created_at FROM offers`

// scanOffers は行の集合をOfferのスライスに変換する
func scanOffers(rows *sql.Rows) ([]Offer, error) {
	offers := make([]Offer, 0)
	for rows.Next() {
		var (
			o          Offer
			original   sql.NullInt64
			expiresAt  string
			archivedAt sql.NullString
			createdAt  string
		)
		err := rows.Scan(&o.ID, &o.RestaurantID, &o.Title, &o.PriceCents, &original,
			&o.QtyTotal, &o.QtyLeft, &expiresAt, &archivedAt, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("オファーの読み取りに失敗: %w", err)
		}

		if original.Valid {
			v := int(original.Int64)
			o.OriginalPriceCents = &v
		}

		if o.ExpiresAt, err = parseTime(expiresAt); err != nil {
			return nil, err
		}
		if o.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if archivedAt.Valid {
			t, err := parseTime(archivedAt.String)
			if err != nil {
				return nil, err
			}
			o.ArchivedAt = &t
		}

		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("オファーの走査に失敗: %w", err)
	}
	return offers, nil
}

// requireAffected は更新が1行も行われなかった場合に ErrNotFound を返す
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// formatTime は日時をUTCのRFC3339文字列に変換する
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime は保存されたRFC3339文字列を日時に変換する
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("日時の解析に失敗: %w", err)
	}
	return t, nil
}

// randomHex は指定された長さのランダムな16進文字列を返す
func randomHex(n int) string {
	u := uuid.New()
	h := hex.EncodeToString(u[:])
	for len(h) < n {
		v := uuid.New()
		h += hex.EncodeToString(v[:])
	}
	return h[:n]
}
