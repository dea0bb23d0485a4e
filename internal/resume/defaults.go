package resume

// DefaultPhotoConfig 是新建简历的头像配置。
var DefaultPhotoConfig = PhotoConfig{
	Width:        90,
	Height:       120,
	AspectRatio:  "3:4",
	BorderRadius: "none",
	Visible:      true,
}

// DefaultDocument 返回新用户看到的示例简历。
func DefaultDocument() Document {
	return Document{
		Basic: BasicInfo{
			Name:         "张三",
			Title:        "高级前端工程师",
			Email:        "example@email.com",
			Phone:        "13800138000",
			Location:     "北京市",
			Icons:        map[string]string{},
			PhotoConfig:  DefaultPhotoConfig,
			CustomFields: []CustomField{},
			Photo:        "avatar.svg",
		},
		Education: []Education{
			{
				ID:          "1",
				School:      "北京大学",
				Major:       "计算机科学与技术",
				Degree:      "本科",
				StartDate:   "2019-09",
				EndDate:     "2023-06",
				Visible:     true,
				GPA:         "3.8/4.0",
				Location:    "北京",
				Description: "主修课程：数据结构、算法设计、操作系统、计算机网络、数据库系统\n在校期间保持专业前10%，获得优秀学生奖学金，参与多个开源项目",
			},
		},
		Experience: []Experience{
			{
				ID:       "1",
				Company:  "某科技有限公司",
				Position: "高级前端工程师",
				Date:     "2020-至今",
				Details:  "负责公司核心产品...",
			},
		},
		Projects: []Project{
			defaultProject("p1", "企业中台系统"),
			defaultProject("p2", "xxx"),
		},
		MenuSections: []MenuSection{
			{ID: "basic", Title: "基本信息", Icon: "👤", Enabled: true, Order: 0},
			{ID: "education", Title: "教育经历", Icon: "🎓", Enabled: true, Order: 1},
			{ID: "experience", Title: "工作经验", Icon: "💼", Enabled: true, Order: 2},
			{ID: "skills", Title: "技能特长", Icon: "⚡", Enabled: true, Order: 3},
			{ID: "projects", Title: "项目经历", Icon: "🚀", Enabled: true, Order: 4},
		},
		CustomData:    map[string][]CustomItem{},
		Theme:         ThemeLight,
		ActiveSection: "basic",
		ColorTheme:    "#2563eb",
		GlobalSettings: GlobalSettings{
			FontFamily:       "sans",
			BaseFontSize:     14,
			PagePadding:      20,
			ParagraphSpacing: 20,
			LineHeight:       1,
			SectionSpacing:   20,
			HeaderSize:       18,
			SubheaderSize:    16,
			UseIconMode:      false,
		},
	}
}

func defaultProject(id, name string) Project {
	return Project{
		ID:               id,
		Name:             name,
		Role:             "前端负责人",
		Date:             "2023.06 - 2023.12",
		Description:      "基于 React 的企业级中台项目，包含工作流、报表、系统管理等多个子系统",
		Technologies:     "React, TypeScript, TailwindCSS, shadcn/ui",
		Responsibilities: "负责整体技术方案设计和团队管理，把控项目进度和代码质量",
		Achievements:     "系统整体性能提升 50%，代码重用率提高到 80%",
		Visible:          true,
	}
}
