package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"moviecms/models"
	"moviecms/tmdb"
)

// 同步任务名
const (
	JobTrending     = "trending"
	JobPopular      = "popular"
	JobNowPlaying   = "now_playing"
	JobTopRated     = "top_rated"
	JobTrailers     = "trailers"
	JobGenres       = "genres"
	JobMovieCasts   = "movie_casts"
	JobAllCasts     = "all_casts"
	JobMovieReviews = "movie_reviews"
	JobAllReviews   = "all_reviews"
	JobCastDetails  = "cast_details"
)

var (
	// ErrJobRunning 同名任务正在运行，重复触发直接拒绝
	ErrJobRunning = errors.New("同步任务正在运行中")
	// ErrMovieNotFound 目标电影不在本地库中（先同步榜单再同步演职/影评）
	ErrMovieNotFound = errors.New("电影不在本地库中")
)

// SyncService 同步编排器
// 每个任务：创建SyncLog -> 后台执行 -> 按条目统计成功/失败 -> 回写汇总。
// 单个条目失败只计数不中断；获取榜单/列表本身失败才让任务进入failed。
type SyncService struct {
	db       *gorm.DB
	client   *tmdb.Client
	resolver *Resolver

	batchSize  int
	batchDelay time.Duration
	pause      func(ctx context.Context, d time.Duration) error // 批次间暂停，测试时可替换

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running map[string]bool
}

// NewSyncService 创建同步编排器
func NewSyncService(db *gorm.DB, client *tmdb.Client, batchSize int, batchDelay time.Duration) *SyncService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SyncService{
		db:         db,
		client:     client,
		resolver:   NewResolver(db),
		batchSize:  batchSize,
		batchDelay: batchDelay,
		pause:      sleepCtx,
		ctx:        ctx,
		cancel:     cancel,
		running:    make(map[string]bool),
	}
}

// Stop 请求所有在跑的任务在批次边界停下
func (s *SyncService) Stop() {
	s.cancel()
}

/*===================================================任务入口===================================================*/

// StartTrendingSync 同步趋势电影榜（day + week）
func (s *SyncService) StartTrendingSync() (*models.SyncLog, error) {
	return s.startJob(JobTrending, s.runTrendingSync)
}

// StartPopularSync 同步热门电影榜
func (s *SyncService) StartPopularSync() (*models.SyncLog, error) {
	return s.startJob(JobPopular, s.runPopularSync)
}

// StartNowPlayingSync 同步正在上映榜
func (s *SyncService) StartNowPlayingSync() (*models.SyncLog, error) {
	return s.startJob(JobNowPlaying, s.runNowPlayingSync)
}

// StartTopRatedSync 同步高分榜
func (s *SyncService) StartTopRatedSync() (*models.SyncLog, error) {
	return s.startJob(JobTopRated, s.runTopRatedSync)
}

// StartTrailersSync 同步即将上映电影的预告片
func (s *SyncService) StartTrailersSync() (*models.SyncLog, error) {
	return s.startJob(JobTrailers, s.runTrailersSync)
}

// StartGenresSync 同步全部电影类型
func (s *SyncService) StartGenresSync() (*models.SyncLog, error) {
	return s.startJob(JobGenres, s.runGenresSync)
}

// StartMovieCastSync 同步单部电影的演职表
func (s *SyncService) StartMovieCastSync(tmdbID int64) (*models.SyncLog, error) {
	return s.startJob(JobMovieCasts, func(ctx context.Context, run *syncRun) {
		s.runMovieCastSync(ctx, run, tmdbID)
	})
}

// StartAllCastsSync 全量同步所有本地电影的演职表（分批）
func (s *SyncService) StartAllCastsSync() (*models.SyncLog, error) {
	return s.startJob(JobAllCasts, s.runAllCastsSync)
}

// StartMovieReviewsSync 同步单部电影的影评
func (s *SyncService) StartMovieReviewsSync(tmdbID int64) (*models.SyncLog, error) {
	return s.startJob(JobMovieReviews, func(ctx context.Context, run *syncRun) {
		s.runMovieReviewsSync(ctx, run, tmdbID)
	})
}

// StartAllReviewsSync 全量同步所有本地电影的影评（分批）
func (s *SyncService) StartAllReviewsSync() (*models.SyncLog, error) {
	return s.startJob(JobAllReviews, s.runAllReviewsSync)
}

// StartCastDetailsSync 同步人物详情（覆盖简介/生平字段，并补全参演关系）
func (s *SyncService) StartCastDetailsSync(personID int64) (*models.SyncLog, error) {
	return s.startJob(JobCastDetails, func(ctx context.Context, run *syncRun) {
		s.runCastDetailsSync(ctx, run, personID)
	})
}

/*===================================================运行骨架===================================================*/

// syncRun 单次运行的条目统计
type syncRun struct {
	success int
	failed  int
	errs    []string
	fatal   error
}

func (r *syncRun) ok() {
	r.success++
}

func (r *syncRun) okN(n int) {
	r.success += n
}

func (r *syncRun) fail(ref string, err error) {
	r.failed++
	r.errs = append(r.errs, fmt.Sprintf("%s: %v", ref, err))
}

// tryStart 标记任务开始；同名任务在跑返回false
func (s *SyncService) tryStart(job string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[job] {
		return false
	}
	s.running[job] = true
	return true
}

func (s *SyncService) finish(job string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, job)
}

// startJob 创建运行记录并在后台执行任务，立即返回记录供调用方轮询
func (s *SyncService) startJob(job string, fn func(ctx context.Context, run *syncRun)) (*models.SyncLog, error) {
	if !s.tryStart(job) {
		return nil, fmt.Errorf("%w: %s", ErrJobRunning, job)
	}

	entry := &models.SyncLog{
		RunID:     uuid.NewString(),
		Job:       job,
		StartTime: time.Now(),
		Status:    models.SyncStatusRunning,
	}
	if err := s.db.Create(entry).Error; err != nil {
		s.finish(job)
		return nil, fmt.Errorf("创建同步记录失败: %w", err)
	}

	go func() {
		defer s.finish(job)

		log.Info().Str("job", job).Str("run_id", entry.RunID).Msg("同步任务开始")
		run := &syncRun{}
		fn(s.ctx, run)
		s.finalize(entry, run)
	}()

	return entry, nil
}

// finalize 回写运行汇总
func (s *SyncService) finalize(entry *models.SyncLog, run *syncRun) {
	end := time.Now()
	entry.TotalCount = run.success + run.failed
	entry.SuccessCount = run.success
	entry.ErrorCount = run.failed
	entry.EndTime = &end
	entry.Duration = end.Sub(entry.StartTime).String()

	errs := run.errs
	switch {
	case run.fatal != nil:
		entry.Status = models.SyncStatusFailed
		errs = append(errs, run.fatal.Error())
	case run.failed > 0:
		entry.Status = models.SyncStatusPartial
	default:
		entry.Status = models.SyncStatusSuccess
	}
	entry.Errors = strings.Join(errs, "\n")

	if err := s.db.Save(entry).Error; err != nil {
		log.Error().Err(err).Str("run_id", entry.RunID).Msg("回写同步记录失败")
	}

	evt := log.Info()
	if run.fatal != nil {
		evt = log.Error().Err(run.fatal)
	}
	evt.Str("job", entry.Job).
		Str("run_id", entry.RunID).
		Str("status", entry.Status).
		Int("success", run.success).
		Int("failed", run.failed).
		Str("duration", entry.Duration).
		Msg("同步任务结束")
}

// withBackoff 对限流错误做指数退避重试，其余错误直接返回
func (s *SyncService) withBackoff(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, tmdb.ErrUpstreamRateLimited)
		}),
	)
}

// sleepCtx 可取消的暂停
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

/*===================================================榜单同步===================================================*/

// runTrendingSync 同步day和week两个趋势窗口
func (s *SyncService) runTrendingSync(ctx context.Context, run *syncRun) {
	windows := []struct {
		window   string
		category string
	}{
		{"day", models.CategoryTrendingDay},
		{"week", models.CategoryTrendingWeek},
	}

	for _, w := range windows {
		var resp *tmdb.MovieListResponse
		err := s.withBackoff(ctx, func() error {
			var e error
			resp, e = s.client.GetTrending(ctx, w.window)
			return e
		})
		if err != nil {
			run.fatal = err
			log.Error().Err(err).Str("job", JobTrending).Str("window", w.window).Msg("获取趋势榜失败")
			return
		}

		log.Info().Str("window", w.window).Int("count", len(resp.Results)).Msg("开始同步趋势电影")
		s.syncMovieList(ctx, run, resp.Results, w.category)
	}
}

// runPopularSync 同步热门榜第一页
func (s *SyncService) runPopularSync(ctx context.Context, run *syncRun) {
	var resp *tmdb.MovieListResponse
	err := s.withBackoff(ctx, func() error {
		var e error
		resp, e = s.client.GetPopularMovies(ctx, 1)
		return e
	})
	if err != nil {
		run.fatal = err
		log.Error().Err(err).Str("job", JobPopular).Int("page", 1).Msg("获取热门榜失败")
		return
	}

	log.Info().Int("count", len(resp.Results)).Msg("开始同步热门电影")
	s.syncMovieList(ctx, run, resp.Results, models.CategoryPopular)
}

// runNowPlayingSync 同步正在上映榜第一页
func (s *SyncService) runNowPlayingSync(ctx context.Context, run *syncRun) {
	var resp *tmdb.MovieListResponse
	err := s.withBackoff(ctx, func() error {
		var e error
		resp, e = s.client.GetNowPlayingMovies(ctx, 1)
		return e
	})
	if err != nil {
		run.fatal = err
		log.Error().Err(err).Str("job", JobNowPlaying).Msg("获取正在上映榜失败")
		return
	}

	log.Info().Int("count", len(resp.Results)).Msg("开始同步正在上映电影")
	s.syncMovieList(ctx, run, resp.Results, models.CategoryNowPlaying)
}

// runTopRatedSync 同步高分榜第一页
func (s *SyncService) runTopRatedSync(ctx context.Context, run *syncRun) {
	var resp *tmdb.MovieListResponse
	err := s.withBackoff(ctx, func() error {
		var e error
		resp, e = s.client.GetTopRatedMovies(ctx, 1)
		return e
	})
	if err != nil {
		run.fatal = err
		log.Error().Err(err).Str("job", JobTopRated).Msg("获取高分榜失败")
		return
	}

	log.Info().Int("count", len(resp.Results)).Msg("开始同步高分电影")
	s.syncMovieList(ctx, run, resp.Results, models.CategoryTopRated)
}

// syncMovieList 逐条同步榜单条目，单条失败只计数不中断
func (s *SyncService) syncMovieList(ctx context.Context, run *syncRun, items []tmdb.MovieItem, category string) {
	for _, item := range items {
		if err := s.syncListedMovie(ctx, item, category); err != nil {
			run.fail(fmt.Sprintf("电影 %s(%d)", item.Title, item.ID), err)
			log.Error().Err(err).Int64("tmdb_id", item.ID).Str("title", item.Title).Msg("同步电影失败")
			continue
		}
		run.ok()
	}
}

// syncListedMovie 同步单部榜单电影：
// 1. 拉取完整详情  2. 解析类型（懒创建）  3. 无条件覆盖TMDB来源字段
// 4. 刷新榜单标签  5. 落库
func (s *SyncService) syncListedMovie(ctx context.Context, item tmdb.MovieItem, category string) error {
	detail, err := s.client.GetMovieDetails(ctx, item.ID)
	if err != nil {
		return err
	}

	movie, err := s.upsertMovieDetail(detail)
	if err != nil {
		return err
	}

	if err := s.refreshCategory(movie.ID, category); err != nil {
		return err
	}

	log.Info().Int64("tmdb_id", movie.TmdbID).Str("title", movie.Title).Str("category", category).Msg("电影已保存/更新")
	return nil
}

// upsertMovieDetail 按tmdb_id对电影做插入或原地更新
func (s *SyncService) upsertMovieDetail(detail *tmdb.MovieDetail) (*models.Movie, error) {
	// 先解析类型，未见过的懒创建
	genres := make([]models.Genre, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		genre, err := s.resolver.ResolveGenre(g.ID, g.Name)
		if err != nil {
			return nil, err
		}
		genres = append(genres, *genre)
	}

	var movie models.Movie
	err := s.db.Where("tmdb_id = ?", detail.ID).First(&movie).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}

	s.applyMovieDetail(&movie, detail)

	if err := s.db.Save(&movie).Error; err != nil {
		// 并发创建同一部电影：唯一索引兜底，重读后在已有行上覆盖
		var existing models.Movie
		if e := s.db.Where("tmdb_id = ?", detail.ID).First(&existing).Error; e != nil {
			return nil, fmt.Errorf("保存电影失败: %w", err)
		}
		s.applyMovieDetail(&existing, detail)
		if e := s.db.Save(&existing).Error; e != nil {
			return nil, fmt.Errorf("保存电影失败: %w", e)
		}
		movie = existing
	}

	if len(genres) > 0 {
		if err := s.db.Model(&movie).Association("Genres").Replace(&genres); err != nil {
			return nil, fmt.Errorf("更新电影类型失败: %w", err)
		}
	}

	if err := s.replaceMovieMeta(&movie, detail); err != nil {
		return nil, err
	}

	return &movie, nil
}

// applyMovieDetail 覆盖所有TMDB来源字段（同步是这些字段的唯一事实来源）
func (s *SyncService) applyMovieDetail(movie *models.Movie, detail *tmdb.MovieDetail) {
	s.applyMovieItem(movie, detail.MovieItem)

	movie.Runtime = detail.Runtime
	movie.Budget = detail.Budget
	movie.Revenue = detail.Revenue
	movie.Homepage = detail.Homepage
	movie.ImdbID = detail.ImdbID
	movie.OriginalLanguage = detail.OriginalLanguage
	movie.Status = detail.Status
	movie.Tagline = detail.Tagline
}

// applyMovieItem 覆盖榜单条目携带的基础字段
func (s *SyncService) applyMovieItem(movie *models.Movie, item tmdb.MovieItem) {
	movie.TmdbID = item.ID
	movie.Title = item.Title
	movie.OriginalTitle = item.OriginalTitle
	movie.Overview = item.Overview
	if d := parseDate(item.ReleaseDate); d != nil {
		movie.ReleaseDate = d
	}
	movie.PosterPath = item.PosterPath
	movie.BackdropPath = item.BackdropPath
	movie.PosterURL = s.client.FullPosterURL(item.PosterPath)
	movie.BackdropURL = s.client.FullBackdropURL(item.BackdropPath)
	movie.Popularity = item.Popularity
	movie.VoteAverage = item.VoteAverage
	movie.VoteCount = item.VoteCount
	movie.Adult = item.Adult
}

// replaceMovieMeta 整体替换制片公司/国家/语言
func (s *SyncService) replaceMovieMeta(movie *models.Movie, detail *tmdb.MovieDetail) error {
	if detail.ProductionCompanies != nil {
		if err := s.db.Where("movie_id = ?", movie.ID).Delete(&models.ProductionCompany{}).Error; err != nil {
			return fmt.Errorf("清理制片公司失败: %w", err)
		}
		for _, c := range detail.ProductionCompanies {
			row := models.ProductionCompany{
				MovieID:       movie.ID,
				TmdbID:        c.ID,
				Name:          c.Name,
				LogoPath:      c.LogoPath,
				OriginCountry: c.OriginCountry,
			}
			if err := s.db.Create(&row).Error; err != nil {
				return fmt.Errorf("保存制片公司失败: %w", err)
			}
		}
	}

	if detail.ProductionCountries != nil {
		if err := s.db.Where("movie_id = ?", movie.ID).Delete(&models.ProductionCountry{}).Error; err != nil {
			return fmt.Errorf("清理制片国家失败: %w", err)
		}
		for _, c := range detail.ProductionCountries {
			row := models.ProductionCountry{MovieID: movie.ID, Iso31661: c.Iso31661, Name: c.Name}
			if err := s.db.Create(&row).Error; err != nil {
				return fmt.Errorf("保存制片国家失败: %w", err)
			}
		}
	}

	if detail.SpokenLanguages != nil {
		if err := s.db.Where("movie_id = ?", movie.ID).Delete(&models.SpokenLanguage{}).Error; err != nil {
			return fmt.Errorf("清理对白语言失败: %w", err)
		}
		for _, l := range detail.SpokenLanguages {
			row := models.SpokenLanguage{MovieID: movie.ID, Iso6391: l.Iso6391, Name: l.Name, EnglishName: l.EnglishName}
			if err := s.db.Create(&row).Error; err != nil {
				return fmt.Errorf("保存对白语言失败: %w", err)
			}
		}
	}

	return nil
}

// refreshCategory 刷新榜单标签：每个(电影,分类)只保留一行，重复同步只更新时间戳
func (s *SyncService) refreshCategory(movieID uint, category string) error {
	var tag models.MovieCategory
	err := s.db.Where("movie_id = ? AND category = ?", movieID, category).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = models.MovieCategory{MovieID: movieID, Category: category}
		if err := s.db.Create(&tag).Error; err != nil {
			// 并发打标签冲突：重读已有行并刷新时间戳
			var existing models.MovieCategory
			if e := s.db.Where("movie_id = ? AND category = ?", movieID, category).First(&existing).Error; e == nil {
				return s.db.Save(&existing).Error
			}
			return fmt.Errorf("创建榜单标签失败: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("查询榜单标签失败: %w", err)
	}
	return s.db.Save(&tag).Error
}

/*===================================================预告片/类型===================================================*/

// runTrailersSync 从即将上映榜单同步预告片
func (s *SyncService) runTrailersSync(ctx context.Context, run *syncRun) {
	var resp *tmdb.MovieListResponse
	err := s.withBackoff(ctx, func() error {
		var e error
		resp, e = s.client.GetUpcomingMovies(ctx)
		return e
	})
	if err != nil {
		run.fatal = err
		log.Error().Err(err).Str("job", JobTrailers).Msg("获取即将上映榜失败")
		return
	}

	total := len(resp.Results)
	trailers := 0
	for i, item := range resp.Results {
		n, err := s.syncTrailersForMovie(ctx, item)
		if err != nil {
			run.fail(fmt.Sprintf("电影 %s(%d)", item.Title, item.ID), err)
			log.Error().Err(err).Int64("tmdb_id", item.ID).Str("title", item.Title).Msg("同步预告片失败")
			continue
		}
		run.okN(n)
		trailers += n
		log.Info().Int("processed", i+1).Int("total", total).Int("trailers", trailers).Msg("预告片同步进度")
	}
}

// syncTrailersForMovie 同步单部电影的预告片，电影不存在时先用榜单字段建档
func (s *SyncService) syncTrailersForMovie(ctx context.Context, item tmdb.MovieItem) (int, error) {
	videos, err := s.client.GetMovieVideos(ctx, item.ID)
	if err != nil {
		return 0, err
	}

	movie, err := s.findOrCreateListedMovie(item)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, v := range videos.Results {
		// 只要预告片
		if v.Type != "Trailer" {
			continue
		}
		if err := s.upsertTrailer(movie.ID, v); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// findOrCreateListedMovie 按tmdb_id查找电影，不存在则用榜单字段创建
func (s *SyncService) findOrCreateListedMovie(item tmdb.MovieItem) (*models.Movie, error) {
	var movie models.Movie
	err := s.db.Where("tmdb_id = ?", item.ID).First(&movie).Error
	if err == nil {
		return &movie, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}

	s.applyMovieItem(&movie, item)
	if err := s.db.Create(&movie).Error; err != nil {
		var existing models.Movie
		if e := s.db.Where("tmdb_id = ?", item.ID).First(&existing).Error; e == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("创建电影失败: %w", err)
	}
	return &movie, nil
}

// upsertTrailer 按TMDB视频ID对预告片做插入或更新
func (s *SyncService) upsertTrailer(movieID uint, v tmdb.VideoItem) error {
	var trailer models.MovieTrailer
	err := s.db.Where("tmdb_id = ?", v.ID).First(&trailer).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询预告片失败: %w", err)
	}

	trailer.TmdbID = v.ID
	trailer.MovieID = movieID
	trailer.Key = v.Key
	trailer.Name = v.Name
	trailer.Site = v.Site
	trailer.Type = v.Type
	trailer.Official = v.Official
	trailer.PublishedAt = parseTime(v.PublishedAt)

	if err := s.db.Save(&trailer).Error; err != nil {
		return fmt.Errorf("保存预告片失败: %w", err)
	}
	return nil
}

// runGenresSync 同步全部类型（这里允许修正已有类型的名称）
func (s *SyncService) runGenresSync(ctx context.Context, run *syncRun) {
	var resp *tmdb.GenreListResponse
	err := s.withBackoff(ctx, func() error {
		var e error
		resp, e = s.client.GetGenres(ctx)
		return e
	})
	if err != nil {
		run.fatal = err
		log.Error().Err(err).Str("job", JobGenres).Msg("获取类型列表失败")
		return
	}

	for _, g := range resp.Genres {
		var genre models.Genre
		err := s.db.Where("tmdb_id = ?", g.ID).First(&genre).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			run.fail(fmt.Sprintf("类型 %s(%d)", g.Name, g.ID), err)
			continue
		}

		genre.TmdbID = g.ID
		genre.Name = g.Name
		if err := s.db.Save(&genre).Error; err != nil {
			run.fail(fmt.Sprintf("类型 %s(%d)", g.Name, g.ID), err)
			log.Error().Err(err).Int64("tmdb_id", g.ID).Str("name", g.Name).Msg("同步类型失败")
			continue
		}
		run.ok()
	}
}

/*===================================================演职同步===================================================*/

// runMovieCastSync 同步单部电影的演职表
func (s *SyncService) runMovieCastSync(ctx context.Context, run *syncRun, tmdbID int64) {
	movie, err := s.findMovieByTmdbID(tmdbID)
	if err != nil {
		run.fatal = err
		log.Error().Err(err).Int64("tmdb_id", tmdbID).Str("job", JobMovieCasts).Msg("同步演职表失败")
		return
	}

	if err := s.syncCreditsForMovie(ctx, run, movie); err != nil {
		run.fatal = err
		log.Error().Err(err).Int64("tmdb_id", tmdbID).Msg("获取演职表失败")
	}
}

// runAllCastsSync 分批同步所有本地电影的演职表
func (s *SyncService) runAllCastsSync(ctx context.Context, run *syncRun) {
	var movies []models.Movie
	if err := s.db.Order("id").Find(&movies).Error; err != nil {
		run.fatal = fmt.Errorf("读取电影列表失败: %w", err)
		return
	}

	total := len(movies)
	processed := 0
	for i := 0; i < total; i += s.batchSize {
		// 取消只发生在批次边界，单个条目的写入序列不拆开
		if err := ctx.Err(); err != nil {
			run.fatal = err
			return
		}

		end := i + s.batchSize
		if end > total {
			end = total
		}

		for j := i; j < end; j++ {
			movie := movies[j]
			if err := s.syncCreditsForMovie(ctx, run, &movie); err != nil {
				run.fail(fmt.Sprintf("电影 %s(%d)", movie.Title, movie.TmdbID), err)
				log.Error().Err(err).Int64("tmdb_id", movie.TmdbID).Str("title", movie.Title).Msg("同步演职表失败")
			}
			processed++
		}
		log.Info().Int("processed", processed).Int("total", total).Msg("全量演职同步进度")

		// 批次之间暂停避免限流，最后一批之后不暂停
		if end < total {
			if err := s.pause(ctx, s.batchDelay); err != nil {
				run.fatal = err
				return
			}
		}
	}
}

// syncCreditsForMovie 同步一部电影的全部演职条目
func (s *SyncService) syncCreditsForMovie(ctx context.Context, run *syncRun, movie *models.Movie) error {
	var credits *tmdb.CreditsResponse
	err := s.withBackoff(ctx, func() error {
		var e error
		credits, e = s.client.GetMovieCredits(ctx, movie.TmdbID)
		return e
	})
	if err != nil {
		return err
	}

	for _, member := range credits.Cast {
		if err := s.syncOneCredit(movie, member); err != nil {
			run.fail(fmt.Sprintf("演员 %s(%d)", member.Name, member.ID), err)
			log.Error().Err(err).Int64("cast_id", member.ID).Str("title", movie.Title).Msg("同步演职条目失败")
			continue
		}
		run.ok()
	}
	return nil
}

// syncOneCredit 幂等插入一条(电影,人物,角色)演职关系
func (s *SyncService) syncOneCredit(movie *models.Movie, member tmdb.CastItem) error {
	cast, err := s.resolver.ResolveCast(member.ID, member.Name, member.ProfilePath)
	if err != nil {
		return err
	}
	return s.insertCreditIfAbsent(movie.ID, cast.ID, member.Character, member.KnownForDepartment)
}

// insertCreditIfAbsent 复合自然键已存在时什么都不做
func (s *SyncService) insertCreditIfAbsent(movieID, castID uint, character, role string) error {
	var count int64
	if err := s.db.Model(&models.MovieCast{}).
		Where("movie_id = ? AND cast_id = ? AND character = ?", movieID, castID, character).
		Count(&count).Error; err != nil {
		return fmt.Errorf("查询演职关系失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	mc := models.MovieCast{MovieID: movieID, CastID: castID, Character: character, Role: role}
	if err := s.db.Create(&mc).Error; err != nil {
		// 并发插入同一条演职关系：唯一索引已保证只有一行
		var again int64
		s.db.Model(&models.MovieCast{}).
			Where("movie_id = ? AND cast_id = ? AND character = ?", movieID, castID, character).
			Count(&again)
		if again > 0 {
			return nil
		}
		return fmt.Errorf("创建演职关系失败: %w", err)
	}
	return nil
}

// runCastDetailsSync 同步人物详情：覆盖生平字段并补全参演关系
func (s *SyncService) runCastDetailsSync(ctx context.Context, run *syncRun, personID int64) {
	var person *tmdb.PersonDetail
	err := s.withBackoff(ctx, func() error {
		var e error
		person, e = s.client.GetCastDetails(ctx, personID)
		return e
	})
	if err != nil {
		run.fatal = err
		log.Error().Err(err).Int64("person_id", personID).Str("job", JobCastDetails).Msg("获取人物详情失败")
		return
	}

	var cast models.Cast
	err = s.db.Where("tmdb_id = ?", person.ID).First(&cast).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		run.fatal = fmt.Errorf("查询演职人员失败: %w", err)
		return
	}

	// 详情任务是唯一允许覆盖生平/人口学字段的路径
	cast.TmdbID = person.ID
	cast.Name = person.Name
	cast.ProfilePath = person.ProfilePath
	cast.Biography = person.Biography
	cast.BirthDate = parseDate(person.Birthday)
	cast.PlaceOfBirth = person.PlaceOfBirth
	cast.KnownForDepartment = person.KnownForDepartment
	cast.Popularity = person.Popularity
	cast.Gender = strconv.Itoa(person.Gender)
	cast.ImdbID = person.ImdbID

	if err := s.db.Save(&cast).Error; err != nil {
		run.fatal = fmt.Errorf("保存人物详情失败: %w", err)
		return
	}

	if person.MovieCredits == nil {
		log.Info().Str("name", cast.Name).Msg("人物详情已同步（无参演记录）")
		return
	}

	for _, credit := range person.MovieCredits.Cast {
		movie, err := s.findOrCreateStubMovie(credit)
		if err != nil {
			run.fail(fmt.Sprintf("参演电影 %s(%d)", credit.Title, credit.ID), err)
			log.Error().Err(err).Int64("tmdb_id", credit.ID).Msg("同步参演记录失败")
			continue
		}
		if err := s.insertCreditIfAbsent(movie.ID, cast.ID, credit.Character, person.KnownForDepartment); err != nil {
			run.fail(fmt.Sprintf("参演电影 %s(%d)", credit.Title, credit.ID), err)
			continue
		}
		run.ok()
	}

	log.Info().Str("name", cast.Name).Int("credits", run.success).Msg("人物详情已同步")
}

// findOrCreateStubMovie 参演记录指向的电影不存在时建最小档
func (s *SyncService) findOrCreateStubMovie(credit tmdb.PersonCastCredit) (*models.Movie, error) {
	var movie models.Movie
	err := s.db.Where("tmdb_id = ?", credit.ID).First(&movie).Error
	if err == nil {
		return &movie, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}

	movie = models.Movie{
		TmdbID:      credit.ID,
		Title:       credit.Title,
		PosterPath:  credit.PosterPath,
		PosterURL:   s.client.FullPosterURL(credit.PosterPath),
		ReleaseDate: parseDate(credit.ReleaseDate),
	}
	if err := s.db.Create(&movie).Error; err != nil {
		var existing models.Movie
		if e := s.db.Where("tmdb_id = ?", credit.ID).First(&existing).Error; e == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("创建电影失败: %w", err)
	}
	return &movie, nil
}

/*===================================================影评同步===================================================*/

// runMovieReviewsSync 同步单部电影的影评（分页拉全）
func (s *SyncService) runMovieReviewsSync(ctx context.Context, run *syncRun, tmdbID int64) {
	movie, err := s.findMovieByTmdbID(tmdbID)
	if err != nil {
		run.fatal = err
		log.Error().Err(err).Int64("tmdb_id", tmdbID).Str("job", JobMovieReviews).Msg("同步影评失败")
		return
	}

	if err := s.syncReviewsForMovie(ctx, run, movie); err != nil {
		run.fatal = err
		log.Error().Err(err).Int64("tmdb_id", tmdbID).Msg("获取影评失败")
	}
}

// runAllReviewsSync 分批同步所有本地电影的影评
func (s *SyncService) runAllReviewsSync(ctx context.Context, run *syncRun) {
	var movies []models.Movie
	if err := s.db.Order("id").Find(&movies).Error; err != nil {
		run.fatal = fmt.Errorf("读取电影列表失败: %w", err)
		return
	}

	total := len(movies)
	processed := 0
	for i := 0; i < total; i += s.batchSize {
		if err := ctx.Err(); err != nil {
			run.fatal = err
			return
		}

		end := i + s.batchSize
		if end > total {
			end = total
		}

		for j := i; j < end; j++ {
			movie := movies[j]
			if err := s.syncReviewsForMovie(ctx, run, &movie); err != nil {
				run.fail(fmt.Sprintf("电影 %s(%d)", movie.Title, movie.TmdbID), err)
				log.Error().Err(err).Int64("tmdb_id", movie.TmdbID).Str("title", movie.Title).Msg("同步影评失败")
			}
			processed++
		}
		log.Info().Int("processed", processed).Int("total", total).Msg("全量影评同步进度")

		if end < total {
			if err := s.pause(ctx, s.batchDelay); err != nil {
				run.fatal = err
				return
			}
		}
	}
}

// syncReviewsForMovie 分页同步一部电影的全部影评，按页序处理到total_pages为止
func (s *SyncService) syncReviewsForMovie(ctx context.Context, run *syncRun, movie *models.Movie) error {
	page := 1
	for {
		var resp *tmdb.ReviewListResponse
		err := s.withBackoff(ctx, func() error {
			var e error
			resp, e = s.client.GetMovieReviews(ctx, movie.TmdbID, page)
			return e
		})
		if err != nil {
			return err
		}

		for _, item := range resp.Results {
			if err := s.syncOneReview(movie, item); err != nil {
				run.fail(fmt.Sprintf("影评 %s", item.ID), err)
				log.Error().Err(err).Str("review_id", item.ID).Str("author", item.Author).Str("title", movie.Title).Msg("同步影评条目失败")
				continue
			}
			run.ok()
		}

		if page >= resp.TotalPages {
			break
		}
		page++
	}
	return nil
}

// syncOneReview 导入一条影评：先解析归因用户（独立落库），再按评论ID做幂等更新
func (s *SyncService) syncOneReview(movie *models.Movie, item tmdb.ReviewItem) error {
	username := item.AuthorDetails.Username
	if username == "" {
		username = item.Author
	}

	user, err := s.resolver.ResolveAttributionUser(username, item.Author)
	if err != nil {
		return fmt.Errorf("解析影评作者失败: %w", err)
	}

	var review models.Review
	err = s.db.Where("tmdb_id = ?", item.ID).First(&review).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询影评失败: %w", err)
	}

	review.TmdbID = item.ID
	review.MovieID = movie.ID
	review.UserID = user.ID
	review.Content = item.Content
	review.Rating = item.AuthorDetails.Rating
	review.AuthorAt = parseTime(item.CreatedAt)

	if err := s.db.Save(&review).Error; err != nil {
		return fmt.Errorf("保存影评失败: %w", err)
	}
	return nil
}

/*===================================================辅助===================================================*/

// findMovieByTmdbID 单体同步任务要求电影已在本地库中
func (s *SyncService) findMovieByTmdbID(tmdbID int64) (*models.Movie, error) {
	var movie models.Movie
	err := s.db.Where("tmdb_id = ?", tmdbID).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: tmdb_id=%d", ErrMovieNotFound, tmdbID)
	}
	if err != nil {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}
	return &movie, nil
}

// parseDate 解析TMDB日期（YYYY-MM-DD），空串或格式错误返回nil
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// parseTime 解析RFC3339时间戳，空串或格式错误返回nil
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
