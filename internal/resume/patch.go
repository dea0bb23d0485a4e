package resume

// BasicInfoPatch 是 BasicInfo 的浅合并补丁，nil 字段保持不变。
type BasicInfoPatch struct {
	Name              *string            `json:"name"`
	Title             *string            `json:"title"`
	Email             *string            `json:"email"`
	Phone             *string            `json:"phone"`
	Location          *string            `json:"location"`
	BirthDate         *string            `json:"birthDate"`
	Icons             *map[string]string `json:"icons"`
	PhotoConfig       *PhotoConfig       `json:"photoConfig"`
	CustomFields      *[]CustomField     `json:"customFields"`
	EmployementStatus *string            `json:"employementStatus"`
	Photo             *string            `json:"photo"`
}

func (p BasicInfoPatch) apply(b *BasicInfo) {
	setIf(&b.Name, p.Name)
	setIf(&b.Title, p.Title)
	setIf(&b.Email, p.Email)
	setIf(&b.Phone, p.Phone)
	setIf(&b.Location, p.Location)
	setIf(&b.BirthDate, p.BirthDate)
	if p.Icons != nil {
		b.Icons = cloneMap(*p.Icons)
	}
	setIf(&b.PhotoConfig, p.PhotoConfig)
	if p.CustomFields != nil {
		b.CustomFields = append([]CustomField(nil), (*p.CustomFields)...)
	}
	setIf(&b.EmployementStatus, p.EmployementStatus)
	setIf(&b.Photo, p.Photo)
}

// GlobalSettingsPatch 是 GlobalSettings 的浅合并补丁。
type GlobalSettingsPatch struct {
	FontFamily       *string  `json:"fontFamily"`
	BaseFontSize     *int     `json:"baseFontSize"`
	PagePadding      *int     `json:"pagePadding"`
	ParagraphSpacing *int     `json:"paragraphSpacing"`
	LineHeight       *float64 `json:"lineHeight"`
	SectionSpacing   *int     `json:"sectionSpacing"`
	HeaderSize       *int     `json:"headerSize"`
	SubheaderSize    *int     `json:"subheaderSize"`
	UseIconMode      *bool    `json:"useIconMode"`
}

func (p GlobalSettingsPatch) apply(g *GlobalSettings) {
	setIf(&g.FontFamily, p.FontFamily)
	setIf(&g.BaseFontSize, p.BaseFontSize)
	setIf(&g.PagePadding, p.PagePadding)
	setIf(&g.ParagraphSpacing, p.ParagraphSpacing)
	setIf(&g.LineHeight, p.LineHeight)
	setIf(&g.SectionSpacing, p.SectionSpacing)
	setIf(&g.HeaderSize, p.HeaderSize)
	setIf(&g.SubheaderSize, p.SubheaderSize)
	setIf(&g.UseIconMode, p.UseIconMode)
}

// CustomItemPatch 合并到已有的 CustomItem 上。ID 不可修改。
type CustomItemPatch struct {
	Title       *string `json:"title"`
	Subtitle    *string `json:"subtitle"`
	DateRange   *string `json:"dateRange"`
	Description *string `json:"description"`
	Visible     *bool   `json:"visible"`
}

func (p CustomItemPatch) apply(item *CustomItem) {
	setIf(&item.Title, p.Title)
	setIf(&item.Subtitle, p.Subtitle)
	setIf(&item.DateRange, p.DateRange)
	setIf(&item.Description, p.Description)
	setIf(&item.Visible, p.Visible)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
