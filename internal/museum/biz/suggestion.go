package biz

// SuggestionGroup 首页推荐搜索词分组
type SuggestionGroup struct {
	Title string   `json:"title"`
	Terms []string `json:"terms"`
}

var curatedSuggestions = []SuggestionGroup{
	{Title: "Artistic Movements", Terms: []string{"Impressionism", "Baroque", "Renaissance", "Abstract", "Modernism"}},
	{Title: "Emotions & Moods", Terms: []string{"Melancholy", "Joy", "Serenity", "Drama", "Mystery"}},
	{Title: "Subjects & Themes", Terms: []string{"Portrait", "Landscape", "Still Life", "Mythology", "Nature"}},
	{Title: "Colors & Techniques", Terms: []string{"Gold", "Chiaroscuro", "Watercolor", "Vibrant", "Monochrome"}},
}

// SuggestionUseCase 推荐搜索词
type SuggestionUseCase struct{}

// NewSuggestionUseCase 创建推荐用例
func NewSuggestionUseCase() *SuggestionUseCase {
	return &SuggestionUseCase{}
}

// List 返回推荐分组的副本
func (uc *SuggestionUseCase) List() []SuggestionGroup {
	out := make([]SuggestionGroup, len(curatedSuggestions))
	for i, g := range curatedSuggestions {
		out[i] = SuggestionGroup{
			Title: g.Title,
			Terms: append([]string(nil), g.Terms...),
		}
	}
	return out
}
