package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/services"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/utils"
)

// The widgets render this inline when an upstream assistant is unreachable.
const troubleConnecting = "Sorry, I'm having trouble connecting to the assistant service right now. Please try again in a moment."

type ChatHandler struct {
	chatService services.IChatService
}

func NewChatHandler(chatService services.IChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/kronos/api/v1/chat")
	api.POST("/ask", h.Ask)
	api.POST("/message", h.Message)
}

type askRequest struct {
	Question string `json:"question"`
}

type messageRequest struct {
	Message string `json:"message"`
}

// Ask forwards a question to the Q&A assistant. Upstream failure is reported
// in-band so the widget can show the trouble-connecting line instead of a
// broken exchange.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "question is required"))
		return
	}

	exchangeID := uuid.NewString()
	answer, err := h.chatService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		log.Printf("Ask exchange %s failed: %v", exchangeID, err)
		c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
			"exchange_id": exchangeID,
			"answer":      troubleConnecting,
			"degraded":    true,
		}))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"exchange_id": exchangeID,
		"answer":      answer,
	}))
}

// Message forwards a message to the co-pilot assistant.
func (h *ChatHandler) Message(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "message is required"))
		return
	}

	exchangeID := uuid.NewString()
	reply, err := h.chatService.Chat(c.Request.Context(), req.Message)
	if err != nil {
		log.Printf("Chat exchange %s failed: %v", exchangeID, err)
		c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
			"exchange_id": exchangeID,
			"reply":       troubleConnecting,
			"degraded":    true,
		}))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"exchange_id": exchangeID,
		"reply":       reply,
	}))
}
