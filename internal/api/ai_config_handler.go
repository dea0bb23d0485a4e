package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"magicResume/internal/aiconfig"
)

// AIConfigHandler 暴露 AI 服务商配置的读写接口。
type AIConfigHandler struct {
	store *aiconfig.Store
}

// NewAIConfigHandler 构造 AIConfigHandler。
func NewAIConfigHandler(store *aiconfig.Store) *AIConfigHandler {
	return &AIConfigHandler{store: store}
}

type aiConfigResponse struct {
	aiconfig.Config
	Active aiconfig.Credentials `json:"active"`
}

type selectionRequest struct {
	Provider string `json:"provider" binding:"required"`
	ModelID  string `json:"modelId"`
}

// Get 返回完整配置以及当前服务商的凭据。
func (h *AIConfigHandler) Get(c *gin.Context) {
	h.reply(c)
}

func (h *AIConfigHandler) SetDoubaoAPIKey(c *gin.Context) {
	h.setValue(c, h.store.SetDoubaoApiKey)
}

func (h *AIConfigHandler) SetDoubaoModelID(c *gin.Context) {
	h.setValue(c, h.store.SetDoubaoModelId)
}

func (h *AIConfigHandler) SetDeepseekAPIKey(c *gin.Context) {
	h.setValue(c, h.store.SetDeepseekApiKey)
}

func (h *AIConfigHandler) SetDeepseekModelID(c *gin.Context) {
	h.setValue(c, h.store.SetDeepseekModelId)
}

// SetCurrent 切换当前服务商与模型。
func (h *AIConfigHandler) SetCurrent(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	provider, err := aiconfig.ParseProvider(req.Provider)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	h.store.SetCurrentAIModel(aiconfig.Selection{Provider: provider, ModelID: req.ModelID})
	h.reply(c)
}

func (h *AIConfigHandler) setValue(c *gin.Context, set func(string)) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	set(req.Value)
	h.reply(c)
}

func (h *AIConfigHandler) reply(c *gin.Context) {
	c.JSON(http.StatusOK, aiConfigResponse{
		Config: h.store.State(),
		Active: h.store.Credentials(),
	})
}
