package tmdb

// MovieItem 榜单/搜索结果里的电影条目
type MovieItem struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count"`
	Adult         bool    `json:"adult"`
	GenreIDs      []int64 `json:"genre_ids"`
}

// MovieListResponse 分页电影列表响应（trending/popular/upcoming/top_rated/search通用）
type MovieListResponse struct {
	Page         int         `json:"page"`
	Results      []MovieItem `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// GenreItem 电影类型
type GenreItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse 类型列表响应
type GenreListResponse struct {
	Genres []GenreItem `json:"genres"`
}

// MovieDetail 电影详情（比榜单条目多扩展字段）
type MovieDetail struct {
	MovieItem

	Runtime             float64                 `json:"runtime"`
	Budget              int64                   `json:"budget"`
	Revenue             int64                   `json:"revenue"`
	Homepage            string                  `json:"homepage"`
	ImdbID              string                  `json:"imdb_id"`
	OriginalLanguage    string                  `json:"original_language"`
	Status              string                  `json:"status"`
	Tagline             string                  `json:"tagline"`
	Genres              []GenreItem             `json:"genres"`
	ProductionCompanies []ProductionCompanyItem `json:"production_companies"`
	ProductionCountries []ProductionCountryItem `json:"production_countries"`
	SpokenLanguages     []SpokenLanguageItem    `json:"spoken_languages"`
}

// ProductionCompanyItem 制片公司
type ProductionCompanyItem struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// ProductionCountryItem 制片国家
type ProductionCountryItem struct {
	Iso31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// SpokenLanguageItem 对白语言
type SpokenLanguageItem struct {
	Iso6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// CastItem 演职表里的演员条目
type CastItem struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	ProfilePath        string `json:"profile_path"`
	Character          string `json:"character"`
	KnownForDepartment string `json:"known_for_department"`
	Order              int    `json:"order"`
}

// CreditsResponse 电影演职表响应
type CreditsResponse struct {
	ID   int64      `json:"id"`
	Cast []CastItem `json:"cast"`
}

// VideoItem 视频条目（预告片等）
type VideoItem struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// VideoResponse 电影视频列表响应
type VideoResponse struct {
	ID      int64       `json:"id"`
	Results []VideoItem `json:"results"`
}

// AuthorDetails 影评作者信息
type AuthorDetails struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath string   `json:"avatar_path"`
	Rating     *float64 `json:"rating"`
}

// ReviewItem 影评条目
type ReviewItem struct {
	ID            string        `json:"id"`
	Author        string        `json:"author"`
	AuthorDetails AuthorDetails `json:"author_details"`
	Content       string        `json:"content"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}

// ReviewListResponse 分页影评响应
type ReviewListResponse struct {
	Page         int          `json:"page"`
	Results      []ReviewItem `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

// PersonCastCredit 人物出演记录（电影维度）
type PersonCastCredit struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"`
	Character   string `json:"character"`
}

// PersonCredits 人物参演列表
type PersonCredits struct {
	Cast []PersonCastCredit `json:"cast"`
}

// PersonDetail 人物详情（append_to_response=movie_credits）
type PersonDetail struct {
	ID                 int64          `json:"id"`
	Name               string         `json:"name"`
	ProfilePath        string         `json:"profile_path"`
	Biography          string         `json:"biography"`
	Birthday           string         `json:"birthday"`
	PlaceOfBirth       string         `json:"place_of_birth"`
	KnownForDepartment string         `json:"known_for_department"`
	Popularity         float64        `json:"popularity"`
	Gender             int            `json:"gender"`
	ImdbID             string         `json:"imdb_id"`
	MovieCredits       *PersonCredits `json:"movie_credits"`
}
