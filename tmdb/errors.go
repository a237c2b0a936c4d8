package tmdb

import "errors"

// 上游错误分类：
// - ErrUpstreamUnavailable 网络错误/5xx/超时，对当前任务致命，下次调度自然重试
// - ErrUpstreamRateLimited 429，由调用方做退避
// - ErrUpstreamMalformed   响应结构不符合预期，跳过当前条目即可
var (
	ErrUpstreamUnavailable = errors.New("TMDB服务不可用")
	ErrUpstreamRateLimited = errors.New("TMDB请求频率受限")
	ErrUpstreamMalformed   = errors.New("TMDB响应格式错误")
)
