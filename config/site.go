package config

// config/site.go

type SiteIcon struct {
	Favicon        string `json:"favicon" yaml:"favicon"`
	Icon16         string `json:"icon16" yaml:"icon16"`
	Icon32         string `json:"icon32" yaml:"icon32"`
	AppleTouchIcon string `json:"appleTouchIcon" yaml:"appleTouchIcon"`
}

type HomeDisplay struct {
	HeroAvatar string `json:"heroAvatar" yaml:"heroAvatar"`
}

type ApplicationSettings struct {
	EnableApplicationForm   bool     `json:"enableApplicationForm" yaml:"enableApplicationForm"`
	ApplicationEmail        string   `json:"applicationEmail" yaml:"applicationEmail"`
	ExpectedResponseTime    string   `json:"expectedResponseTime" yaml:"expectedResponseTime"`
	ApplicationRequirements []string `json:"applicationRequirements" yaml:"applicationRequirements"`
}

type SiteMetadata struct {
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Author      string   `json:"author" yaml:"author"`
	Language    string   `json:"language" yaml:"language"`
	LastUpdated string   `json:"lastUpdated" yaml:"lastUpdated"`
	Version     string   `json:"version" yaml:"version"`
}

type DisplaySettings struct {
	ShowMemberJoinDate   bool   `json:"showMemberJoinDate" yaml:"showMemberJoinDate"`
	ShowMemberLocation   bool   `json:"showMemberLocation" yaml:"showMemberLocation"`
	ShowMemberTags       bool   `json:"showMemberTags" yaml:"showMemberTags"`
	MaxMemberTagsDisplay int    `json:"maxMemberTagsDisplay" yaml:"maxMemberTagsDisplay"`
	EnableDarkMode       bool   `json:"enableDarkMode" yaml:"enableDarkMode"`
	DefaultTheme         string `json:"defaultTheme" yaml:"defaultTheme"`
}

// SiteConfig is the global configuration shared by every page.
type SiteConfig struct {
	SiteTitle           string              `json:"siteTitle" yaml:"siteTitle"`
	SiteDescription     string              `json:"siteDescription" yaml:"siteDescription"`
	BaseURL             string              `json:"baseUrl" yaml:"baseUrl"`
	SiteIcon            *SiteIcon           `json:"siteIcon,omitempty" yaml:"siteIcon,omitempty"`
	ContactWebhook      string              `json:"contactWebhook" yaml:"contactWebhook"`
	DefaultAvatar       string              `json:"defaultAvatar" yaml:"defaultAvatar"`
	HomeDisplay         *HomeDisplay        `json:"homeDisplay,omitempty" yaml:"homeDisplay,omitempty"`
	SocialMedia         map[string]string   `json:"socialMedia" yaml:"socialMedia"`
	ApplicationSettings ApplicationSettings `json:"applicationSettings" yaml:"applicationSettings"`
	SiteMetadata        SiteMetadata        `json:"siteMetadata" yaml:"siteMetadata"`
	DisplaySettings     DisplaySettings     `json:"displaySettings" yaml:"displaySettings"`
}

// Member is one entry of the member roster. Roster order is the default
// display order.
type Member struct {
	ID          string   `json:"id" yaml:"id"`
	DisplayName string   `json:"displayName" yaml:"displayName"`
	Avatar      string   `json:"avatar" yaml:"avatar"`
	LargeImage  string   `json:"largeImage,omitempty" yaml:"largeImage,omitempty"`
	Role        string   `json:"role,omitempty" yaml:"role,omitempty"`
	Bio         string   `json:"bio,omitempty" yaml:"bio,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	JoinDate    string   `json:"joinDate,omitempty" yaml:"joinDate,omitempty"`
	Location    string   `json:"location,omitempty" yaml:"location,omitempty"`
	Sources     []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	Draft       bool     `json:"draft,omitempty" yaml:"draft,omitempty"`
}

// DefaultSiteConfig is substituted whenever the generated site config
// cannot be loaded.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		SiteTitle:       "燕云十六声 · 百业",
		SiteDescription: "燕云十六声百业宣传站点",
		BaseURL:         "",
		SiteIcon: &SiteIcon{
			Favicon:        "/favicon.ico",
			Icon16:         "/favicon-16x16.png",
			Icon32:         "/favicon-32x32.png",
			AppleTouchIcon: "/apple-touch-icon.png",
		},
		ContactWebhook: "",
		DefaultAvatar:  "/assets/placeholders/avatar-small.svg",
		SocialMedia: map[string]string{
			"QQ":     "",
			"wechat": "",
			"weibo":  "",
			"email":  "",
		},
		ApplicationSettings: ApplicationSettings{
			EnableApplicationForm:   true,
			ExpectedResponseTime:    "3-7个工作日",
			ApplicationRequirements: []string{},
		},
		SiteMetadata: SiteMetadata{
			Keywords: []string{"燕云十六声", "百业", "游戏社区"},
			Author:   "百业",
			Language: "zh-CN",
			Version:  "1.0.0",
		},
		DisplaySettings: DisplaySettings{
			ShowMemberJoinDate:   true,
			ShowMemberLocation:   true,
			ShowMemberTags:       true,
			MaxMemberTagsDisplay: 3,
			EnableDarkMode:       true,
			DefaultTheme:         "light",
		},
	}
}
