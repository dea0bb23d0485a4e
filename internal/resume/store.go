// Package resume 保存可编辑的简历文档，并提供全部变更操作。
package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"magicResume/internal/persist"
)

// Namespace 是简历状态在键值存储中的键。
const Namespace = "resume-storage"

// ErrSectionNotFound 表示自定义模块不存在。调用方需先用 AddCustomData/AddCustomItem 创建模块。
var ErrSectionNotFound = errors.New("custom section not found")

// Store 是简历文档的唯一数据源。每个操作在锁内原子完成，随后把快照提交给镜像。
type Store struct {
	mu        sync.RWMutex
	doc       Document
	committer persist.Committer
	newID     func() string
}

// NewStore 以示例文档构造 Store。committer 为 nil 时不做持久化。
func NewStore(committer persist.Committer) *Store {
	return &Store{
		doc:       DefaultDocument(),
		committer: committer,
		newID:     uuid.NewString,
	}
}

// Hydrate 用已持久化的快照覆盖默认文档，不触发提交。
// 与浏览器端一致，只做顶层浅合并：快照中缺失的字段沿用默认值。
func (s *Store) Hydrate(ctx context.Context, src persist.Source) error {
	var fields map[string]json.RawMessage
	found, err := persist.Hydrate(ctx, src, Namespace, &fields)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	restored, err := mergePersisted(DefaultDocument(), fields)
	if err != nil {
		return fmt.Errorf("merge %q: %w", Namespace, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = restored
	return nil
}

// MergeOverDefaults 以示例文档为底，按顶层字段合并外部文档（导入文件使用）。
func MergeOverDefaults(fields map[string]json.RawMessage) (Document, error) {
	return mergePersisted(DefaultDocument(), fields)
}

// mergePersisted 将快照中存在的顶层字段解码到新值上后替换默认值。
func mergePersisted(doc Document, fields map[string]json.RawMessage) (Document, error) {
	var persisted Document
	raw, err := json.Marshal(fields)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(raw, &persisted); err != nil {
		return doc, err
	}

	assign := map[string]func(){
		"basic":             func() { doc.Basic = persisted.Basic },
		"education":         func() { doc.Education = persisted.Education },
		"experience":        func() { doc.Experience = persisted.Experience },
		"projects":          func() { doc.Projects = persisted.Projects },
		"menuSections":      func() { doc.MenuSections = persisted.MenuSections },
		"customData":        func() { doc.CustomData = persisted.CustomData },
		"theme":             func() { doc.Theme = persisted.Theme },
		"activeSection":     func() { doc.ActiveSection = persisted.ActiveSection },
		"colorTheme":        func() { doc.ColorTheme = persisted.ColorTheme },
		"globalSettings":    func() { doc.GlobalSettings = persisted.GlobalSettings },
		"draggingProjectId": func() { doc.DraggingProjectID = persisted.DraggingProjectID },
	}
	for key := range fields {
		if apply, ok := assign[key]; ok {
			apply()
		}
	}
	if doc.CustomData == nil {
		doc.CustomData = map[string][]CustomItem{}
	}
	return doc, nil
}

// State 返回当前文档的深拷贝。
func (s *Store) State() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Replace 用 doc 整体替换当前文档（导入时使用）。
func (s *Store) Replace(doc Document) {
	s.update(func(d *Document) {
		*d = doc.Clone()
		if d.CustomData == nil {
			d.CustomData = map[string][]CustomItem{}
		}
	})
}

// UpdateBasicInfo 将补丁浅合并到基本信息。
func (s *Store) UpdateBasicInfo(patch BasicInfoPatch) {
	s.update(func(d *Document) { patch.apply(&d.Basic) })
}

// UpdateEducation 按 ID 更新或追加。
func (s *Store) UpdateEducation(e Education) {
	s.update(func(d *Document) {
		d.Education = upsert(d.Education, e, func(x Education) string { return x.ID })
	})
}

func (s *Store) DeleteEducation(id string) {
	s.update(func(d *Document) {
		d.Education = removeByID(d.Education, id, func(x Education) string { return x.ID })
	})
}

// UpdateExperience 按 ID 更新或追加。
func (s *Store) UpdateExperience(e Experience) {
	s.update(func(d *Document) {
		d.Experience = upsert(d.Experience, e, func(x Experience) string { return x.ID })
	})
}

func (s *Store) DeleteExperience(id string) {
	s.update(func(d *Document) {
		d.Experience = removeByID(d.Experience, id, func(x Experience) string { return x.ID })
	})
}

// UpdateProjects 按 ID 更新或追加单个项目。
func (s *Store) UpdateProjects(p Project) {
	s.update(func(d *Document) {
		d.Projects = upsert(d.Projects, p, func(x Project) string { return x.ID })
	})
}

func (s *Store) DeleteProject(id string) {
	s.update(func(d *Document) {
		d.Projects = removeByID(d.Projects, id, func(x Project) string { return x.ID })
	})
}

// ReorderSections 用 sections 替换菜单，并把 Order 重写为新位置。
// 调用方必须传入完整列表，未包含的模块会被丢弃。
func (s *Store) ReorderSections(sections []MenuSection) {
	s.update(func(d *Document) {
		reordered := make([]MenuSection, len(sections))
		for i, section := range sections {
			section.Order = i
			reordered[i] = section
		}
		d.MenuSections = reordered
	})
}

// ToggleSectionVisibility 翻转模块的 Enabled；找不到时不做任何事。
func (s *Store) ToggleSectionVisibility(id string) {
	s.update(func(d *Document) {
		for i := range d.MenuSections {
			if d.MenuSections[i].ID == id {
				d.MenuSections[i].Enabled = !d.MenuSections[i].Enabled
			}
		}
	})
}

func (s *Store) SetActiveSection(id string) {
	s.update(func(d *Document) { d.ActiveSection = id })
}

func (s *Store) UpdateMenuSections(sections []MenuSection) {
	s.update(func(d *Document) { d.MenuSections = cloneSlice(sections) })
}

// AddCustomData 将模块重置为仅含一条空白记录，已有记录会被覆盖。
func (s *Store) AddCustomData(sectionID string) CustomItem {
	var item CustomItem
	s.update(func(d *Document) {
		item = s.blankItem()
		d.CustomData[sectionID] = []CustomItem{item}
	})
	return item
}

// UpdateCustomData 整体替换模块的记录列表。
func (s *Store) UpdateCustomData(sectionID string, items []CustomItem) {
	s.update(func(d *Document) { d.CustomData[sectionID] = cloneSlice(items) })
}

// RemoveCustomData 删除整个模块。
func (s *Store) RemoveCustomData(sectionID string) {
	s.update(func(d *Document) { delete(d.CustomData, sectionID) })
}

// AddCustomItem 在模块末尾追加一条空白记录；模块不存在时会被创建。
func (s *Store) AddCustomItem(sectionID string) CustomItem {
	var item CustomItem
	s.update(func(d *Document) {
		item = s.blankItem()
		d.CustomData[sectionID] = append(d.CustomData[sectionID], item)
	})
	return item
}

// UpdateCustomItem 将补丁合并到模块内匹配的记录上。
func (s *Store) UpdateCustomItem(sectionID, itemID string, patch CustomItemPatch) error {
	return s.tryUpdate(func(d *Document) error {
		items, ok := d.CustomData[sectionID]
		if !ok {
			return fmt.Errorf("%w: %q", ErrSectionNotFound, sectionID)
		}
		for i := range items {
			if items[i].ID == itemID {
				patch.apply(&items[i])
			}
		}
		return nil
	})
}

// RemoveCustomItem 从模块中删除记录。
func (s *Store) RemoveCustomItem(sectionID, itemID string) error {
	return s.tryUpdate(func(d *Document) error {
		items, ok := d.CustomData[sectionID]
		if !ok {
			return fmt.Errorf("%w: %q", ErrSectionNotFound, sectionID)
		}
		d.CustomData[sectionID] = removeByID(items, itemID, func(x CustomItem) string { return x.ID })
		return nil
	})
}

// ToggleTheme 在 light 与 dark 之间切换，返回新主题。
func (s *Store) ToggleTheme() Theme {
	var theme Theme
	s.update(func(d *Document) {
		if d.Theme == ThemeLight {
			d.Theme = ThemeDark
		} else {
			d.Theme = ThemeLight
		}
		theme = d.Theme
	})
	return theme
}

// UpdateGlobalSettings 将补丁浅合并到全局设置。
func (s *Store) UpdateGlobalSettings(patch GlobalSettingsPatch) {
	s.update(func(d *Document) { patch.apply(&d.GlobalSettings) })
}

func (s *Store) SetColorTheme(color string) {
	s.update(func(d *Document) { d.ColorTheme = color })
}

// SetDraggingProjectID 记录拖拽中的项目，nil 表示未拖拽。
func (s *Store) SetDraggingProjectID(id *string) {
	s.update(func(d *Document) {
		if id == nil {
			d.DraggingProjectID = nil
			return
		}
		v := *id
		d.DraggingProjectID = &v
	})
}

func (s *Store) blankItem() CustomItem {
	return CustomItem{ID: s.newID(), Visible: true}
}

func (s *Store) update(mutate func(*Document)) {
	_ = s.tryUpdate(func(d *Document) error {
		mutate(d)
		return nil
	})
}

// tryUpdate 在副本上执行变更，出错时丢弃副本，保证失败的操作不留下部分修改。
func (s *Store) tryUpdate(mutate func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	if next.CustomData == nil {
		next.CustomData = map[string][]CustomItem{}
	}
	if err := mutate(&next); err != nil {
		return err
	}
	s.doc = next
	if s.committer != nil {
		s.committer.Commit(Namespace, s.doc)
	}
	return nil
}

// upsert 替换所有同 ID 的记录；没有匹配时追加到末尾。
func upsert[T any](items []T, item T, id func(T) string) []T {
	key := id(item)
	found := false
	for i := range items {
		if id(items[i]) == key {
			items[i] = item
			found = true
		}
	}
	if found {
		return items
	}
	return append(items, item)
}

func removeByID[T any](items []T, key string, id func(T) string) []T {
	out := items[:0]
	for _, item := range items {
		if id(item) != key {
			out = append(out, item)
		}
	}
	return out
}
