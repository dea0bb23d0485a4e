package api

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"magicResume/internal/api/middleware"
	"magicResume/internal/directory"
	"magicResume/internal/notify"
	"magicResume/internal/syncdir"
)

// DirectoryHandler 管理同步目录绑定，并在该目录中导入导出简历。
type DirectoryHandler struct {
	gateway     *directory.Gateway
	exporter    *syncdir.Exporter
	publisher   notify.Publisher
	allowedRoot string
}

// NewDirectoryHandler 构造 DirectoryHandler。allowedRoot 为空时目录选择返回 501。
func NewDirectoryHandler(gateway *directory.Gateway, exporter *syncdir.Exporter, publisher notify.Publisher, allowedRoot string) *DirectoryHandler {
	return &DirectoryHandler{
		gateway:     gateway,
		exporter:    exporter,
		publisher:   publisher,
		allowedRoot: allowedRoot,
	}
}

type bindingView struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

type bindingResponse struct {
	Binding *bindingView `json:"binding"`
}

type selectDirectoryRequest struct {
	Path string `json:"path"`
}

type exportRequest struct {
	Format string `json:"format"`
}

type importRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetBinding 返回当前可用的绑定；没有绑定或权限失效时 binding 为 null。
func (h *DirectoryHandler) GetBinding(c *gin.Context) {
	binding, err := h.gateway.LoadBinding(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("load directory binding failed", slog.Any("error", err))
		Internal(c, "failed to load directory binding")
		return
	}
	c.JSON(http.StatusOK, newBindingResponse(binding))
}

// SelectDirectory 选择并保存新的同步目录。用户取消或未授权时 binding 为 null。
func (h *DirectoryHandler) SelectDirectory(c *gin.Context) {
	var req selectDirectoryRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	picker := directory.NewPathPicker(h.allowedRoot, req.Path)
	binding, err := h.gateway.SelectDirectory(ctx, picker)
	switch {
	case errors.Is(err, directory.ErrUnsupportedEnvironment):
		NotImplemented(c, err.Error())
		return
	case errors.Is(err, directory.ErrOutsideRoot), errors.Is(err, directory.ErrInvalidFileName):
		BadRequest(c, err.Error())
		return
	case err != nil:
		middleware.LoggerFromContext(c).Error("select directory failed", slog.Any("error", err))
		Internal(c, "failed to select directory")
		return
	}

	if binding != nil {
		h.publishBindingChange(ctx)
	}
	c.JSON(http.StatusOK, newBindingResponse(binding))
}

// ClearBinding 删除已保存的绑定。
func (h *DirectoryHandler) ClearBinding(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gateway.ClearBinding(ctx); err != nil {
		middleware.LoggerFromContext(c).Error("clear directory binding failed", slog.Any("error", err))
		Internal(c, "failed to clear directory binding")
		return
	}
	h.publishBindingChange(ctx)
	c.Status(http.StatusNoContent)
}

// Export 将当前简历写入同步目录。
func (h *DirectoryHandler) Export(c *gin.Context) {
	var req exportRequest
	if !bindJSON(c, &req) {
		return
	}
	format, err := syncdir.ParseFormat(req.Format)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	name, err := h.exporter.Export(c.Request.Context(), format)
	if !h.syncResult(c, err, "export") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": name})
}

// Import 从同步目录读取文件并替换当前简历。
func (h *DirectoryHandler) Import(c *gin.Context) {
	var req importRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.exporter.Import(c.Request.Context(), req.Name)
	if !h.syncResult(c, err, "import") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": req.Name})
}

func (h *DirectoryHandler) syncResult(c *gin.Context, err error, op string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, syncdir.ErrNoBinding):
		Conflict(c, err.Error())
	case errors.Is(err, syncdir.ErrUnknownFormat),
		errors.Is(err, syncdir.ErrMalformedFile),
		errors.Is(err, directory.ErrInvalidFileName),
		errors.Is(err, directory.ErrOutsideRoot):
		BadRequest(c, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		NotFound(c, "file not found")
	default:
		middleware.LoggerFromContext(c).Error("sync directory "+op+" failed", slog.Any("error", err))
		Internal(c, "failed to "+op+" resume")
	}
	return false
}

func (h *DirectoryHandler) publishBindingChange(ctx context.Context) {
	if h.publisher == nil {
		return
	}
	_ = h.publisher.Publish(ctx, notify.Message{Type: notify.TypeBindingChange})
}

func newBindingResponse(b *directory.Binding) bindingResponse {
	if b == nil {
		return bindingResponse{}
	}
	return bindingResponse{Binding: &bindingView{Path: b.Path, Name: b.Handle.Name()}}
}
