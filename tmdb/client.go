package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client TMDB分页HTTP客户端
// 只负责单次请求和错误分类，不做重试——重试/退避是编排器的事。
type Client struct {
	baseURL      string
	imageBaseURL string
	token        string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// NewClient 创建TMDB客户端（配置全部注入，不读全局状态）
func NewClient(baseURL, imageBaseURL, token string) *Client {
	return &Client{
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
		token:        token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		// 客户端侧限速：最多每250ms一个请求
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
	}
}

// get 发起一次GET请求并解析JSON响应
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug().Str("url", reqURL).Msg("TMDB请求")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 超时和网络错误同等对待
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrUpstreamRateLimited, path)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: 状态码 %d", ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: 状态码 %d", ErrUpstreamMalformed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}

	return nil
}

// GetTrending 获取趋势电影榜（window: day 或 week）
func (c *Client) GetTrending(ctx context.Context, window string) (*MovieListResponse, error) {
	var resp MovieListResponse
	query := url.Values{"language": {"en-US"}}
	if err := c.get(ctx, fmt.Sprintf("/trending/movie/%s", window), query, &resp); err != nil {
		return nil, fmt.Errorf("获取趋势电影(%s)失败: %w", window, err)
	}
	return &resp, nil
}

// GetPopularMovies 获取热门电影榜
func (c *Client) GetPopularMovies(ctx context.Context, page int) (*MovieListResponse, error) {
	var resp MovieListResponse
	query := url.Values{"language": {"en-US"}, "page": {fmt.Sprint(page)}}
	if err := c.get(ctx, "/movie/popular", query, &resp); err != nil {
		return nil, fmt.Errorf("获取热门电影第%d页失败: %w", page, err)
	}
	return &resp, nil
}

// GetTopRatedMovies 获取高分电影榜
func (c *Client) GetTopRatedMovies(ctx context.Context, page int) (*MovieListResponse, error) {
	var resp MovieListResponse
	query := url.Values{"language": {"en-US"}, "page": {fmt.Sprint(page)}}
	if err := c.get(ctx, "/movie/top_rated", query, &resp); err != nil {
		return nil, fmt.Errorf("获取高分电影第%d页失败: %w", page, err)
	}
	return &resp, nil
}

// GetUpcomingMovies 获取即将上映电影
func (c *Client) GetUpcomingMovies(ctx context.Context) (*MovieListResponse, error) {
	var resp MovieListResponse
	query := url.Values{"language": {"en-US"}}
	if err := c.get(ctx, "/movie/upcoming", query, &resp); err != nil {
		return nil, fmt.Errorf("获取即将上映电影失败: %w", err)
	}
	return &resp, nil
}

// GetNowPlayingMovies 获取正在上映电影
func (c *Client) GetNowPlayingMovies(ctx context.Context, page int) (*MovieListResponse, error) {
	var resp MovieListResponse
	query := url.Values{"language": {"en-US"}, "page": {fmt.Sprint(page)}}
	if err := c.get(ctx, "/movie/now_playing", query, &resp); err != nil {
		return nil, fmt.Errorf("获取正在上映电影第%d页失败: %w", page, err)
	}
	return &resp, nil
}

// SearchMovies 搜索电影
func (c *Client) SearchMovies(ctx context.Context, keyword string, page int) (*MovieListResponse, error) {
	var resp MovieListResponse
	query := url.Values{
		"query":         {keyword},
		"include_adult": {"false"},
		"language":      {"en-US"},
		"page":          {fmt.Sprint(page)},
	}
	if err := c.get(ctx, "/search/movie", query, &resp); err != nil {
		return nil, fmt.Errorf("搜索电影失败: %w", err)
	}
	return &resp, nil
}

// GetMovieDetails 获取电影详情
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetail, error) {
	var resp MovieDetail
	query := url.Values{"language": {"en-US"}}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), query, &resp); err != nil {
		return nil, fmt.Errorf("获取电影%d详情失败: %w", movieID, err)
	}
	return &resp, nil
}

// GetMovieCredits 获取电影演职表
func (c *Client) GetMovieCredits(ctx context.Context, movieID int64) (*CreditsResponse, error) {
	var resp CreditsResponse
	query := url.Values{"language": {"en-US"}}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", movieID), query, &resp); err != nil {
		return nil, fmt.Errorf("获取电影%d演职表失败: %w", movieID, err)
	}
	return &resp, nil
}

// GetMovieVideos 获取电影视频（含预告片）
func (c *Client) GetMovieVideos(ctx context.Context, movieID int64) (*VideoResponse, error) {
	var resp VideoResponse
	query := url.Values{"language": {"en-US"}}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), query, &resp); err != nil {
		return nil, fmt.Errorf("获取电影%d视频失败: %w", movieID, err)
	}
	return &resp, nil
}

// GetMovieReviews 获取电影影评（分页）
func (c *Client) GetMovieReviews(ctx context.Context, movieID int64, page int) (*ReviewListResponse, error) {
	var resp ReviewListResponse
	query := url.Values{"language": {"en-US"}, "page": {fmt.Sprint(page)}}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/reviews", movieID), query, &resp); err != nil {
		return nil, fmt.Errorf("获取电影%d影评第%d页失败: %w", movieID, page, err)
	}
	return &resp, nil
}

// GetGenres 获取全部电影类型
func (c *Client) GetGenres(ctx context.Context) (*GenreListResponse, error) {
	var resp GenreListResponse
	query := url.Values{"language": {"en-US"}}
	if err := c.get(ctx, "/genre/movie/list", query, &resp); err != nil {
		return nil, fmt.Errorf("获取电影类型列表失败: %w", err)
	}
	return &resp, nil
}

// GetCastDetails 获取人物详情（附带参演电影）
func (c *Client) GetCastDetails(ctx context.Context, personID int64) (*PersonDetail, error) {
	var resp PersonDetail
	query := url.Values{
		"append_to_response": {"movie_credits"},
		"language":           {"en-US"},
	}
	if err := c.get(ctx, fmt.Sprintf("/person/%d", personID), query, &resp); err != nil {
		return nil, fmt.Errorf("获取人物%d详情失败: %w", personID, err)
	}
	return &resp, nil
}
