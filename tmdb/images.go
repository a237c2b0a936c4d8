package tmdb

// TMDB提供的图片尺寸
const (
	// 海报尺寸
	PosterSmall    = "w185"
	PosterMedium   = "w342"
	PosterLarge    = "w500"
	PosterOriginal = "original"

	// 背景图尺寸
	BackdropSmall    = "w300"
	BackdropMedium   = "w780"
	BackdropLarge    = "w1280"
	BackdropOriginal = "original"
)

// ImageURL 拼接完整CDN地址：base + 尺寸 + 相对路径
// 相对路径为空时返回空串，不算错误。
func (c *Client) ImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + size + path
}

// FullPosterURL 海报完整地址
func (c *Client) FullPosterURL(path string) string {
	return c.ImageURL(PosterOriginal, path)
}

// FullBackdropURL 背景图完整地址
func (c *Client) FullBackdropURL(path string) string {
	return c.ImageURL(BackdropOriginal, path)
}
