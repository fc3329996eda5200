package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gigflow/gigflow-backend/internal/http/middleware"
)

func TestBidHandler_CreateBid_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BidHandler{bids: nil}
	r.POST("/bids", handler.CreateBid)

	body := strings.NewReader(`{"gig_id":"` + uuid.NewString() + `","message":"Готов взяться","proposed_price":100}`)
	req, _ := http.NewRequest("POST", "/bids", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBidHandler_CreateBid_InvalidGigID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	handler := &BidHandler{bids: nil}
	r.POST("/bids", handler.CreateBid)

	body := strings.NewReader(`{"gig_id":"not-a-uuid","message":"Готов взяться","proposed_price":100}`)
	req, _ := http.NewRequest("POST", "/bids", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBidHandler_ListBids_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BidHandler{bids: nil}
	r.GET("/bids/:gigId", handler.ListBids)

	req, _ := http.NewRequest("GET", "/bids/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBidHandler_ListBids_InvalidGigID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	handler := &BidHandler{bids: nil}
	r.GET("/bids/:gigId", handler.ListBids)

	req, _ := http.NewRequest("GET", "/bids/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBidHandler_HireBid_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BidHandler{bids: nil}
	r.PATCH("/bids/:bidId/hire", handler.HireBid)

	req, _ := http.NewRequest("PATCH", "/bids/"+uuid.NewString()+"/hire", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBidHandler_HireBid_InvalidBidID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	handler := &BidHandler{bids: nil}
	r.PATCH("/bids/:bidId/hire", handler.HireBid)

	req, _ := http.NewRequest("PATCH", "/bids/invalid-uuid/hire", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
