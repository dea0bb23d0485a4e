package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"magicResume/internal/resume"
)

// ResumeHandler 负责简历内容的读取与各类编辑操作。
type ResumeHandler struct {
	store *resume.Store
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(store *resume.Store) *ResumeHandler {
	return &ResumeHandler{store: store}
}

type draggingProjectRequest struct {
	Value *string `json:"value"`
}

// GetResume 返回当前完整文档。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.State())
}

func (h *ResumeHandler) UpdateBasicInfo(c *gin.Context) {
	var patch resume.BasicInfoPatch
	if !bindJSON(c, &patch) {
		return
	}
	h.store.UpdateBasicInfo(patch)
	h.reply(c)
}

func (h *ResumeHandler) UpdateEducation(c *gin.Context) {
	var edu resume.Education
	if !bindJSON(c, &edu) || !requireID(c, edu.ID) {
		return
	}
	h.store.UpdateEducation(edu)
	h.reply(c)
}

func (h *ResumeHandler) DeleteEducation(c *gin.Context) {
	h.store.DeleteEducation(c.Param("id"))
	h.reply(c)
}

func (h *ResumeHandler) UpdateExperience(c *gin.Context) {
	var exp resume.Experience
	if !bindJSON(c, &exp) || !requireID(c, exp.ID) {
		return
	}
	h.store.UpdateExperience(exp)
	h.reply(c)
}

func (h *ResumeHandler) DeleteExperience(c *gin.Context) {
	h.store.DeleteExperience(c.Param("id"))
	h.reply(c)
}

func (h *ResumeHandler) UpdateProject(c *gin.Context) {
	var p resume.Project
	if !bindJSON(c, &p) || !requireID(c, p.ID) {
		return
	}
	h.store.UpdateProjects(p)
	h.reply(c)
}

func (h *ResumeHandler) DeleteProject(c *gin.Context) {
	h.store.DeleteProject(c.Param("id"))
	h.reply(c)
}

// UpdateMenuSections 整体替换菜单分区列表。
func (h *ResumeHandler) UpdateMenuSections(c *gin.Context) {
	var sections []resume.MenuSection
	if !bindJSON(c, &sections) {
		return
	}
	h.store.UpdateMenuSections(sections)
	h.reply(c)
}

// ReorderSections 按提交顺序重写各分区的 order 字段。
func (h *ResumeHandler) ReorderSections(c *gin.Context) {
	var sections []resume.MenuSection
	if !bindJSON(c, &sections) {
		return
	}
	h.store.ReorderSections(sections)
	h.reply(c)
}

func (h *ResumeHandler) ToggleSectionVisibility(c *gin.Context) {
	h.store.ToggleSectionVisibility(c.Param("id"))
	h.reply(c)
}

func (h *ResumeHandler) SetActiveSection(c *gin.Context) {
	var req valueRequest
	if !bindJSON(c, &req) {
		return
	}
	h.store.SetActiveSection(req.Value)
	h.reply(c)
}

// AddCustomData 以一个空条目初始化（或重置）自定义分区，返回新条目。
func (h *ResumeHandler) AddCustomData(c *gin.Context) {
	item := h.store.AddCustomData(c.Param("section"))
	c.JSON(http.StatusCreated, item)
}

func (h *ResumeHandler) UpdateCustomData(c *gin.Context) {
	var items []resume.CustomItem
	if !bindJSON(c, &items) {
		return
	}
	h.store.UpdateCustomData(c.Param("section"), items)
	h.reply(c)
}

func (h *ResumeHandler) RemoveCustomData(c *gin.Context) {
	h.store.RemoveCustomData(c.Param("section"))
	h.reply(c)
}

// AddCustomItem 在分区末尾追加空条目，返回新条目。
func (h *ResumeHandler) AddCustomItem(c *gin.Context) {
	item := h.store.AddCustomItem(c.Param("section"))
	c.JSON(http.StatusCreated, item)
}

func (h *ResumeHandler) UpdateCustomItem(c *gin.Context) {
	var patch resume.CustomItemPatch
	if !bindJSON(c, &patch) {
		return
	}
	err := h.store.UpdateCustomItem(c.Param("section"), c.Param("item"), patch)
	if !h.customItemResult(c, err) {
		return
	}
	h.reply(c)
}

func (h *ResumeHandler) RemoveCustomItem(c *gin.Context) {
	err := h.store.RemoveCustomItem(c.Param("section"), c.Param("item"))
	if !h.customItemResult(c, err) {
		return
	}
	h.reply(c)
}

// ToggleTheme 在明暗主题之间切换，返回切换后的主题。
func (h *ResumeHandler) ToggleTheme(c *gin.Context) {
	theme := h.store.ToggleTheme()
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *ResumeHandler) UpdateGlobalSettings(c *gin.Context) {
	var patch resume.GlobalSettingsPatch
	if !bindJSON(c, &patch) {
		return
	}
	h.store.UpdateGlobalSettings(patch)
	h.reply(c)
}

func (h *ResumeHandler) SetColorTheme(c *gin.Context) {
	var req valueRequest
	if !bindJSON(c, &req) {
		return
	}
	h.store.SetColorTheme(req.Value)
	h.reply(c)
}

// SetDraggingProject 设置或清除（value 为 null）正在拖拽的项目。
func (h *ResumeHandler) SetDraggingProject(c *gin.Context) {
	var req draggingProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	h.store.SetDraggingProjectID(req.Value)
	h.reply(c)
}

func (h *ResumeHandler) customItemResult(c *gin.Context, err error) bool {
	if errors.Is(err, resume.ErrSectionNotFound) {
		NotFound(c, err.Error())
		return false
	}
	if err != nil {
		Internal(c, "internal error")
		return false
	}
	return true
}

func (h *ResumeHandler) reply(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.State())
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		BadRequest(c, err.Error())
		return false
	}
	return true
}

func requireID(c *gin.Context, id string) bool {
	if id == "" {
		BadRequest(c, "id is required")
		return false
	}
	return true
}
