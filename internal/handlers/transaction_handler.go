package handlers

import (
	"net/http"

	"circleed/internal/auth"
	"circleed/internal/services"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	ledger *services.LedgerService
}

func NewTransactionHandler(ledger *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// ListTransactions returns the caller's ledger entries, most recent first
// GET /api/v1/transactions
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	transactions, err := h.ledger.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetBalance returns the caller's current token balance
// GET /api/v1/transactions/balance
func (h *TransactionHandler) GetBalance(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
