package resume

// Theme 是编辑器的明暗主题。
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Document 表示完整的可编辑简历状态，JSON 字段与浏览器端持久化格式一致。
type Document struct {
	Basic             BasicInfo               `json:"basic"`
	Education         []Education             `json:"education"`
	Experience        []Experience            `json:"experience"`
	Projects          []Project               `json:"projects"`
	MenuSections      []MenuSection           `json:"menuSections"`
	CustomData        map[string][]CustomItem `json:"customData"`
	Theme             Theme                   `json:"theme"`
	ActiveSection     string                  `json:"activeSection"`
	ColorTheme        string                  `json:"colorTheme"`
	GlobalSettings    GlobalSettings          `json:"globalSettings"`
	DraggingProjectID *string                 `json:"draggingProjectId"`
}

// BasicInfo 是简历头部的个人信息。
type BasicInfo struct {
	Name              string            `json:"name"`
	Title             string            `json:"title"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Location          string            `json:"location"`
	BirthDate         string            `json:"birthDate"`
	Icons             map[string]string `json:"icons"`
	PhotoConfig       PhotoConfig       `json:"photoConfig"`
	CustomFields      []CustomField     `json:"customFields"`
	EmployementStatus string            `json:"employementStatus"`
	Photo             string            `json:"photo"`
}

// PhotoConfig 描述头像的展示尺寸与样式。
type PhotoConfig struct {
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	AspectRatio        string `json:"aspectRatio"`
	BorderRadius       string `json:"borderRadius"`
	CustomBorderRadius int    `json:"customBorderRadius"`
	Visible            bool   `json:"visible"`
}

// CustomField 是基本信息中用户自定义的键值行。
type CustomField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon,omitempty"`
}

type Education struct {
	ID          string `json:"id"`
	School      string `json:"school"`
	Major       string `json:"major"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Visible     bool   `json:"visible"`
	GPA         string `json:"gpa,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	ID       string `json:"id"`
	Company  string `json:"company"`
	Position string `json:"position"`
	Date     string `json:"date"`
	Details  string `json:"details"`
}

type Project struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Date             string `json:"date"`
	Description      string `json:"description"`
	Technologies     string `json:"technologies"`
	Responsibilities string `json:"responsibilities"`
	Achievements     string `json:"achievements"`
	Visible          bool   `json:"visible"`
}

// CustomItem 是自定义模块中的一条记录。
type CustomItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	DateRange   string `json:"dateRange"`
	Description string `json:"description"`
	Visible     bool   `json:"visible"`
}

// MenuSection 决定哪些模块渲染以及渲染顺序。
type MenuSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	Enabled bool   `json:"enabled"`
	Order   int    `json:"order"`
}

// GlobalSettings 描述页面的全局排版参数。
type GlobalSettings struct {
	FontFamily       string  `json:"fontFamily"`
	BaseFontSize     int     `json:"baseFontSize"`
	PagePadding      int     `json:"pagePadding"`
	ParagraphSpacing int     `json:"paragraphSpacing"`
	LineHeight       float64 `json:"lineHeight"`
	SectionSpacing   int     `json:"sectionSpacing"`
	HeaderSize       int     `json:"headerSize"`
	SubheaderSize    int     `json:"subheaderSize"`
	UseIconMode      bool    `json:"useIconMode"`
}
