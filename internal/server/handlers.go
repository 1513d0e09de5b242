package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"foody/internal/storage"

	"github.com/gin-gonic/gin"
)

// keyHeader はマーチャントAPIの認証に使うHTTPヘッダ名
const keyHeader = "X-Foody-Key"

// errorResponse はAPIのエラーレスポンス
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse はヘルスチェックのレスポンス
type healthResponse struct {
	OK bool `json:"ok"`
}

// registerRequest はレストラン登録のリクエストボディ
type registerRequest struct {
	Title string `json:"title"`
}

// createOfferRequest はオファー作成のリクエストボディ
type createOfferRequest struct {
	RestaurantID       string    `json:"restaurant_id"`
	Title              string    `json:"title"`
	PriceCents         int       `json:"price_cents"`
	OriginalPriceCents *int      `json:"original_price_cents"`
	QtyTotal           *int      `json:"qty_total"`
	QtyLeft            *int      `json:"qty_left"`
	ExpiresAt          time.Time `json:"expires_at"`
}

// createOfferResponse はオファー作成のレスポンス
type createOfferResponse struct {
	ID string `json:"id"`
}

// okResponse は更新系エンドポイントの成功レスポンス
type okResponse struct {
	OK bool `json:"ok"`
}

// handleHealth はヘルスチェックエンドポイントの実装
// ファイルシステムの状態に関わらず常に同じJSONを返す
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{OK: true})
}

// handleRoot はルートパスを購入者向けフロントエンドへリダイレクトする
// リダイレクト先の存在有無は確認しない
func (s *Server) handleRoot(c *gin.Context) {
	c.Redirect(http.StatusFound, "/web/buyer/")
}

// handleRegister はレストランの公開登録エンドポイントの実装
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "title required"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "title required"})
		return
	}

	creds, err := s.store.RegisterRestaurant(c.Request.Context(), title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "registration failed"})
		return
	}

	c.JSON(http.StatusOK, creds)
}

// handleListOffers はマーチャント向けオファー一覧エンドポイントの実装
func (s *Server) handleListOffers(c *gin.Context) {
	restaurantID := c.Query("restaurant_id")
	if restaurantID == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "restaurant_id required"})
		return
	}

	status := storage.OfferStatus(c.DefaultQuery("status", string(storage.StatusActive)))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid status"})
		return
	}

	if !s.authenticate(c, restaurantID) {
		return
	}

	offers, err := s.store.ListOffers(c.Request.Context(), restaurantID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "listing failed"})
		return
	}

	c.JSON(http.StatusOK, offers)
}

// handleCreateOffer はオファー作成エンドポイントの実装
func (s *Server) handleCreateOffer(c *gin.Context) {
	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid offer"})
		return
	}

	if !s.authenticate(c, req.RestaurantID) {
		return
	}

	// 数量のデフォルト値: qty_total は1、qty_left は qty_total
	qtyTotal := 1
	if req.QtyTotal != nil {
		qtyTotal = *req.QtyTotal
	}
	qtyLeft := qtyTotal
	if req.QtyLeft != nil {
		qtyLeft = *req.QtyLeft
	}

	offer := &storage.Offer{
		RestaurantID:       req.RestaurantID,
		Title:              strings.TrimSpace(req.Title),
		PriceCents:         req.PriceCents,
		OriginalPriceCents: req.OriginalPriceCents,
		QtyTotal:           qtyTotal,
		QtyLeft:            qtyLeft,
		ExpiresAt:          req.ExpiresAt.UTC(),
	}

	if offer.Title == "" || offer.PriceCents <= 0 || offer.ExpiresAt.IsZero() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid offer"})
		return
	}

	id, err := s.store.CreateOffer(c.Request.Context(), offer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "creation failed"})
		return
	}

	c.JSON(http.StatusOK, createOfferResponse{ID: id})
}

// handleArchiveOffer はオファーのアーカイブエンドポイントの実装
func (s *Server) handleArchiveOffer(c *gin.Context) {
	s.mutateOffer(c, s.store.ArchiveOffer)
}

// handleRestoreOffer はアーカイブ済みオファーの復元エンドポイントの実装
func (s *Server) handleRestoreOffer(c *gin.Context) {
	s.mutateOffer(c, s.store.RestoreOffer)
}

// mutateOffer は認証付きのオファー更新操作を共通化する
func (s *Server) mutateOffer(c *gin.Context, op func(ctx context.Context, restaurantID, offerID string) error) {
	restaurantID := c.Query("restaurant_id")
	if restaurantID == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "restaurant_id required"})
		return
	}

	if !s.authenticate(c, restaurantID) {
		return
	}

	err := op(c.Request.Context(), restaurantID, c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "update failed"})
		return
	}

	c.JSON(http.StatusOK, okResponse{OK: true})
}

// handlePublicOffers は購入者向け公開オファー一覧エンドポイントの実装
func (s *Server) handlePublicOffers(c *gin.Context) {
	offers, err := s.store.PublicOffers(c.Request.Context(), c.Query("restaurant_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "listing failed"})
		return
	}

	c.JSON(http.StatusOK, offers)
}

// authenticate はX-Foody-Keyヘッダを検証する
// 失敗した場合は401を書き込み、falseを返す
func (s *Server) authenticate(c *gin.Context, restaurantID string) bool {
	key := c.GetHeader(keyHeader)
	if key == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Missing X-Foody-Key"})
		return false
	}

	err := s.store.Authenticate(c.Request.Context(), restaurantID, key)
	if errors.Is(err, storage.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid X-Foody-Key"})
		return false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "authentication failed"})
		return false
	}

	return true
}
