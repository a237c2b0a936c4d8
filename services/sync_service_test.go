package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"moviecms/config"
	"moviecms/models"
	"moviecms/tmdb"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

// newTestService 用假TMDB服务器组装同步编排器（批次大小2，暂停1ms）
func newTestService(t *testing.T, handler http.Handler) (*SyncService, *gorm.DB) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := tmdb.NewClient(srv.URL, "https://image.test/t/p/", "token")
	db := newTestDB(t)
	return NewSyncService(db, client, 2, time.Millisecond), db
}

func popularMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/popular", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page": 1, "total_pages": 1, "total_results": 2, "results": [
			{"id": 101, "title": "New Movie", "poster_path": "/p101.jpg"},
			{"id": 102, "title": "Other Movie"}
		]}`)
	})
	mux.HandleFunc("/movie/101", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 101, "title": "New Movie", "poster_path": "/p101.jpg",
			"vote_average": 7.5, "runtime": 120, "status": "Released",
			"genres": [{"id": 28, "name": "Action"}, {"id": 18, "name": "Drama"}],
			"production_companies": [{"id": 5, "name": "Test Studio", "origin_country": "US"}],
			"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
			"spoken_languages": [{"iso_639_1": "en", "name": "English", "english_name": "English"}]}`)
	})
	mux.HandleFunc("/movie/102", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 102, "title": "Other Movie",
			"genres": [{"id": 28, "name": "Action"}]}`)
	})
	return mux
}

func TestPopularSyncCreatesMovies(t *testing.T) {
	s, db := newTestService(t, popularMux())

	run := &syncRun{}
	s.runPopularSync(context.Background(), run)

	require.NoError(t, run.fatal)
	assert.Equal(t, 2, run.success)
	assert.Equal(t, 0, run.failed)

	var movies int64
	db.Model(&models.Movie{}).Count(&movies)
	assert.EqualValues(t, 2, movies)

	var movie models.Movie
	require.NoError(t, db.Preload("Genres").Preload("ProductionCompanies").
		Where("tmdb_id = ?", 101).First(&movie).Error)
	assert.Equal(t, "New Movie", movie.Title)
	assert.Equal(t, 7.5, movie.VoteAverage)
	assert.Equal(t, "https://image.test/t/p/original/p101.jpg", movie.PosterURL)
	assert.Len(t, movie.Genres, 2)
	require.Len(t, movie.ProductionCompanies, 1)
	assert.Equal(t, "Test Studio", movie.ProductionCompanies[0].Name)

	// 两部电影共享Action类型，懒创建只建一条
	var genres int64
	db.Model(&models.Genre{}).Count(&genres)
	assert.EqualValues(t, 2, genres)

	var tags int64
	db.Model(&models.MovieCategory{}).Where("category = ?", models.CategoryPopular).Count(&tags)
	assert.EqualValues(t, 2, tags)
}

func TestPopularSyncIdempotent(t *testing.T) {
	s, db := newTestService(t, popularMux())

	for i := 0; i < 2; i++ {
		run := &syncRun{}
		s.runPopularSync(context.Background(), run)
		require.NoError(t, run.fatal)
		assert.Equal(t, 2, run.success)
	}

	var movies, genres, tags, companies int64
	db.Model(&models.Movie{}).Count(&movies)
	db.Model(&models.Genre{}).Count(&genres)
	db.Model(&models.MovieCategory{}).Count(&tags)
	db.Model(&models.ProductionCompany{}).Count(&companies)
	assert.EqualValues(t, 2, movies)
	assert.EqualValues(t, 2, genres)
	assert.EqualValues(t, 2, tags)
	assert.EqualValues(t, 1, companies)
}

func TestPopularSyncOverwritesScalarFields(t *testing.T) {
	s, db := newTestService(t, popularMux())

	// 预置旧数据，同步后TMDB来源字段被覆盖
	require.NoError(t, db.Create(&models.Movie{TmdbID: 101, Title: "Stale Title", VoteAverage: 1.0}).Error)

	run := &syncRun{}
	s.runPopularSync(context.Background(), run)
	require.NoError(t, run.fatal)

	var movie models.Movie
	require.NoError(t, db.Where("tmdb_id = ?", 101).First(&movie).Error)
	assert.Equal(t, "New Movie", movie.Title)
	assert.Equal(t, 7.5, movie.VoteAverage)

	var movies int64
	db.Model(&models.Movie{}).Count(&movies)
	assert.EqualValues(t, 2, movies)
}

func TestPopularSyncDoesNotOverwriteGenreName(t *testing.T) {
	s, db := newTestService(t, popularMux())

	require.NoError(t, db.Create(&models.Genre{TmdbID: 28, Name: "旧动作"}).Error)

	run := &syncRun{}
	s.runPopularSync(context.Background(), run)
	require.NoError(t, run.fatal)

	// 解析路径不改名，名称修正只归类型同步任务管
	var genre models.Genre
	require.NoError(t, db.Where("tmdb_id = ?", 28).First(&genre).Error)
	assert.Equal(t, "旧动作", genre.Name)
}

func TestPopularSyncPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/popular", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page": 1, "total_pages": 1, "results": [
			{"id": 201, "title": "Good One"},
			{"id": 202, "title": "Bad One"},
			{"id": 203, "title": "Good Two"}
		]}`)
	})
	mux.HandleFunc("/movie/201", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 201, "title": "Good One"}`)
	})
	mux.HandleFunc("/movie/202", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/movie/203", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 203, "title": "Good Two"}`)
	})

	s, db := newTestService(t, mux)

	run := &syncRun{}
	s.runPopularSync(context.Background(), run)

	// 单条失败只计数，剩下的继续同步
	require.NoError(t, run.fatal)
	assert.Equal(t, 2, run.success)
	assert.Equal(t, 1, run.failed)
	require.Len(t, run.errs, 1)
	assert.Contains(t, run.errs[0], "202")

	var movies int64
	db.Model(&models.Movie{}).Count(&movies)
	assert.EqualValues(t, 2, movies)
}

func TestPopularSyncFetchErrorIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/popular", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	s, db := newTestService(t, mux)

	run := &syncRun{}
	s.runPopularSync(context.Background(), run)

	require.Error(t, run.fatal)
	assert.ErrorIs(t, run.fatal, tmdb.ErrUpstreamUnavailable)

	var movies int64
	db.Model(&models.Movie{}).Count(&movies)
	assert.EqualValues(t, 0, movies)
}

func TestTrendingSyncBothWindows(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/trending/movie/day", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page": 1, "total_pages": 1, "results": [{"id": 301, "title": "Day Movie"}]}`)
	})
	mux.HandleFunc("/trending/movie/week", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page": 1, "total_pages": 1, "results": [{"id": 302, "title": "Week Movie"}]}`)
	})
	mux.HandleFunc("/movie/301", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 301, "title": "Day Movie"}`)
	})
	mux.HandleFunc("/movie/302", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 302, "title": "Week Movie"}`)
	})

	s, db := newTestService(t, mux)

	run := &syncRun{}
	s.runTrendingSync(context.Background(), run)
	require.NoError(t, run.fatal)
	assert.Equal(t, 2, run.success)

	var dayTags, weekTags int64
	db.Model(&models.MovieCategory{}).Where("category = ?", models.CategoryTrendingDay).Count(&dayTags)
	db.Model(&models.MovieCategory{}).Where("category = ?", models.CategoryTrendingWeek).Count(&weekTags)
	assert.EqualValues(t, 1, dayTags)
	assert.EqualValues(t, 1, weekTags)
}

func TestTopRatedSyncTagsCategory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/top_rated", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page": 1, "total_pages": 1, "results": [{"id": 901, "title": "Top Movie"}]}`)
	})
	mux.HandleFunc("/movie/901", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 901, "title": "Top Movie"}`)
	})

	s, db := newTestService(t, mux)

	run := &syncRun{}
	s.runTopRatedSync(context.Background(), run)
	require.NoError(t, run.fatal)
	assert.Equal(t, 1, run.success)

	var tags int64
	db.Model(&models.MovieCategory{}).Where("category = ?", models.CategoryTopRated).Count(&tags)
	assert.EqualValues(t, 1, tags)
}

func TestGenresSyncCorrectsNames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"genres": [{"id": 28, "name": "Action"}, {"id": 18, "name": "Drama"}]}`)
	})

	s, db := newTestService(t, mux)
	require.NoError(t, db.Create(&models.Genre{TmdbID: 28, Name: "旧动作"}).Error)

	run := &syncRun{}
	s.runGenresSync(context.Background(), run)
	require.NoError(t, run.fatal)
	assert.Equal(t, 2, run.success)

	var genre models.Genre
	require.NoError(t, db.Where("tmdb_id = ?", 28).First(&genre).Error)
	assert.Equal(t, "Action", genre.Name)

	var genres int64
	db.Model(&models.Genre{}).Count(&genres)
	assert.EqualValues(t, 2, genres)
}

func TestTrailersSyncFiltersType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/upcoming", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page": 1, "total_pages": 1, "results": [
			{"id": 401, "title": "Upcoming Movie", "poster_path": "/p401.jpg"}
		]}`)
	})
	mux.HandleFunc("/movie/401/videos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 401, "results": [
			{"id": "v1", "key": "abc", "name": "Official Trailer", "site": "YouTube", "type": "Trailer", "official": true, "published_at": "2025-06-01T12:00:00.000Z"},
			{"id": "v2", "key": "def", "name": "Featurette", "site": "YouTube", "type": "Featurette"}
		]}`)
	})

	s, db := newTestService(t, mux)

	run := &syncRun{}
	s.runTrailersSync(context.Background(), run)
	require.NoError(t, run.fatal)
	assert.Equal(t, 1, run.success)

	// 榜单电影不在库里时用基础字段建档
	var movie models.Movie
	require.NoError(t, db.Where("tmdb_id = ?", 401).First(&movie).Error)
	assert.Equal(t, "https://image.test/t/p/original/p401.jpg", movie.PosterURL)

	var trailers []models.MovieTrailer
	require.NoError(t, db.Find(&trailers).Error)
	require.Len(t, trailers, 1)
	assert.Equal(t, "v1", trailers[0].TmdbID)
	assert.Equal(t, "abc", trailers[0].Key)
	assert.Equal(t, movie.ID, trailers[0].MovieID)

	// 重跑不新增
	run = &syncRun{}
	s.runTrailersSync(context.Background(), run)
	var count int64
	db.Model(&models.MovieTrailer{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func creditsMux(movieTmdbIDs ...int64) *http.ServeMux {
	mux := http.NewServeMux()
	for _, id := range movieTmdbIDs {
		mux.HandleFunc(fmt.Sprintf("/movie/%d/credits", id), func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"cast": [
				{"id": 9001, "name": "Lead Actor", "character": "Hero", "known_for_department": "Acting"},
				{"id": 9001, "name": "Lead Actor", "character": "Hero Double", "known_for_department": "Acting"},
				{"id": 9002, "name": "Support Actor", "character": "Friend", "known_for_department": "Acting"}
			]}`)
		})
	}
	return mux
}

func TestMovieCastSync(t *testing.T) {
	s, db := newTestService(t, creditsMux(501))
	require.NoError(t, db.Create(&models.Movie{TmdbID: 501, Title: "Cast Movie"}).Error)

	run := &syncRun{}
	s.runMovieCastSync(context.Background(), run, 501)
	require.NoError(t, run.fatal)
	assert.Equal(t, 3, run.success)

	// 同一演员两个角色算两条关系，人物只建一条
	var casts, credits int64
	db.Model(&models.Cast{}).Count(&casts)
	db.Model(&models.MovieCast{}).Count(&credits)
	assert.EqualValues(t, 2, casts)
	assert.EqualValues(t, 3, credits)

	// 重跑幂等
	run = &syncRun{}
	s.runMovieCastSync(context.Background(), run, 501)
	require.NoError(t, run.fatal)
	db.Model(&models.MovieCast{}).Count(&credits)
	assert.EqualValues(t, 3, credits)
}

func TestMovieCastSyncMovieNotFound(t *testing.T) {
	s, _ := newTestService(t, http.NewServeMux())

	run := &syncRun{}
	s.runMovieCastSync(context.Background(), run, 999)
	require.Error(t, run.fatal)
	assert.ErrorIs(t, run.fatal, ErrMovieNotFound)
}

func TestAllCastsSyncBatchPause(t *testing.T) {
	s, db := newTestService(t, creditsMux(601, 602, 603, 604, 605))
	for i := int64(601); i <= 605; i++ {
		require.NoError(t, db.Create(&models.Movie{TmdbID: i, Title: fmt.Sprintf("Movie %d", i)}).Error)
	}

	pauses := 0
	s.pause = func(ctx context.Context, d time.Duration) error {
		pauses++
		return nil
	}

	run := &syncRun{}
	s.runAllCastsSync(context.Background(), run)
	require.NoError(t, run.fatal)

	// 5部电影、批次大小2：三个批次，只在批次之间暂停两次
	assert.Equal(t, 2, pauses)
	assert.Equal(t, 15, run.success)

	var credits int64
	db.Model(&models.MovieCast{}).Count(&credits)
	assert.EqualValues(t, 15, credits)
}

func TestAllCastsSyncStopsAtBatchBoundary(t *testing.T) {
	s, db := newTestService(t, creditsMux(701, 702, 703, 704))
	for i := int64(701); i <= 704; i++ {
		require.NoError(t, db.Create(&models.Movie{TmdbID: i, Title: fmt.Sprintf("Movie %d", i)}).Error)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.pause = func(context.Context, time.Duration) error {
		cancel()
		return ctx.Err()
	}

	run := &syncRun{}
	s.runAllCastsSync(ctx, run)

	require.Error(t, run.fatal)
	assert.ErrorIs(t, run.fatal, context.Canceled)

	// 第一批（2部电影，各3条）完整落库，后面的批次没有开始
	var credits int64
	db.Model(&models.MovieCast{}).Count(&credits)
	assert.EqualValues(t, 6, credits)
}

func reviewsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/801/reviews", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"page": 2, "total_pages": 2, "results": [
				{"id": "r3", "author": "alice", "author_details": {"username": "alice", "rating": 9.0},
				 "content": "Second one", "created_at": "2025-02-01T08:00:00Z"}
			]}`)
			return
		}
		fmt.Fprint(w, `{"page": 1, "total_pages": 2, "results": [
			{"id": "r1", "author": "alice", "author_details": {"username": "alice", "rating": 8.0},
			 "content": "Great", "created_at": "2025-01-01T08:00:00Z"},
			{"id": "r2", "author": "bob", "author_details": {"username": "bob"},
			 "content": "Fine", "created_at": "2025-01-02T08:00:00Z"}
		]}`)
	})
	return mux
}

func TestMovieReviewsSyncPaginates(t *testing.T) {
	s, db := newTestService(t, reviewsMux())
	require.NoError(t, db.Create(&models.Movie{TmdbID: 801, Title: "Review Movie"}).Error)

	run := &syncRun{}
	s.runMovieReviewsSync(context.Background(), run, 801)
	require.NoError(t, run.fatal)
	assert.Equal(t, 3, run.success)

	// 三条影评，两个归因用户
	var reviews, users int64
	db.Model(&models.Review{}).Count(&reviews)
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 3, reviews)
	assert.EqualValues(t, 2, users)

	var user models.User
	require.NoError(t, db.Where("email = ?", "tmdb_alice@system.local").First(&user).Error)
	assert.Equal(t, "TMDB", user.Provider)

	var review models.Review
	require.NoError(t, db.Where("tmdb_id = ?", "r1").First(&review).Error)
	assert.Equal(t, user.ID, review.UserID)
	require.NotNil(t, review.Rating)
	assert.Equal(t, 8.0, *review.Rating)
	require.NotNil(t, review.AuthorAt)

	// 无评分的影评Rating为空
	review = models.Review{}
	require.NoError(t, db.Where("tmdb_id = ?", "r2").First(&review).Error)
	assert.Nil(t, review.Rating)

	// 重跑幂等
	run = &syncRun{}
	s.runMovieReviewsSync(context.Background(), run, 801)
	db.Model(&models.Review{}).Count(&reviews)
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 3, reviews)
	assert.EqualValues(t, 2, users)
}

func TestMovieReviewsSyncMovieNotFound(t *testing.T) {
	s, _ := newTestService(t, http.NewServeMux())

	run := &syncRun{}
	s.runMovieReviewsSync(context.Background(), run, 999)
	require.Error(t, run.fatal)
	assert.ErrorIs(t, run.fatal, ErrMovieNotFound)
}

func TestCastDetailsSyncOverwrites(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/person/6384", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": 6384, "name": "Keanu Reeves", "profile_path": "/keanu.jpg",
			"biography": "Canadian actor.", "birthday": "1964-09-02",
			"place_of_birth": "Beirut, Lebanon", "known_for_department": "Acting",
			"popularity": 50.1, "gender": 2, "imdb_id": "nm0000206",
			"movie_credits": {"cast": [
				{"id": 603, "title": "The Matrix", "poster_path": "/matrix.jpg", "release_date": "1999-03-30", "character": "Neo"}
			]}
		}`)
	})

	s, db := newTestService(t, mux)

	// 榜单同步留下的最小档，详情任务负责补全
	require.NoError(t, db.Create(&models.Cast{TmdbID: 6384, Name: "K. Reeves"}).Error)

	run := &syncRun{}
	s.runCastDetailsSync(context.Background(), run, 6384)
	require.NoError(t, run.fatal)
	assert.Equal(t, 1, run.success)

	var cast models.Cast
	require.NoError(t, db.Where("tmdb_id = ?", 6384).First(&cast).Error)
	assert.Equal(t, "Keanu Reeves", cast.Name)
	assert.Equal(t, "Canadian actor.", cast.Biography)
	assert.Equal(t, "2", cast.Gender)
	require.NotNil(t, cast.BirthDate)
	assert.Equal(t, 1964, cast.BirthDate.Year())

	// 参演电影不存在时建最小档并挂上演职关系
	var movie models.Movie
	require.NoError(t, db.Where("tmdb_id = ?", 603).First(&movie).Error)
	assert.Equal(t, "The Matrix", movie.Title)

	var credit models.MovieCast
	require.NoError(t, db.Where("movie_id = ? AND cast_id = ?", movie.ID, cast.ID).First(&credit).Error)
	assert.Equal(t, "Neo", credit.Character)
}

func TestStartJobRejectsOverlap(t *testing.T) {
	s, db := newTestService(t, http.NewServeMux())

	block := make(chan struct{})
	entry, err := s.startJob("blocking_job", func(ctx context.Context, run *syncRun) {
		run.ok()
		<-block
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.RunID)

	_, err = s.startJob("blocking_job", func(ctx context.Context, run *syncRun) {})
	assert.ErrorIs(t, err, ErrJobRunning)

	// 不同任务名互不影响
	other, err := s.startJob("other_job", func(ctx context.Context, run *syncRun) {})
	require.NoError(t, err)
	assert.NotEmpty(t, other.RunID)

	close(block)
	assert.Eventually(t, func() bool {
		var e models.SyncLog
		if db.Where("run_id = ?", entry.RunID).First(&e).Error != nil {
			return false
		}
		return e.Status == models.SyncStatusSuccess
	}, 2*time.Second, 10*time.Millisecond)

	// 收尾后可以再次触发
	again, err := s.startJob("blocking_job", func(ctx context.Context, run *syncRun) {})
	require.NoError(t, err)
	assert.NotEqual(t, entry.RunID, again.RunID)
}

func TestFinalizeStatuses(t *testing.T) {
	s, db := newTestService(t, http.NewServeMux())

	cases := []struct {
		job    string
		fn     func(ctx context.Context, run *syncRun)
		status string
	}{
		{"job_success", func(ctx context.Context, run *syncRun) { run.ok() }, models.SyncStatusSuccess},
		{"job_partial", func(ctx context.Context, run *syncRun) {
			run.ok()
			run.fail("条目", fmt.Errorf("写入失败"))
		}, models.SyncStatusPartial},
		{"job_failed", func(ctx context.Context, run *syncRun) {
			run.fatal = fmt.Errorf("上游挂了")
		}, models.SyncStatusFailed},
	}

	for _, tc := range cases {
		entry, err := s.startJob(tc.job, tc.fn)
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			var e models.SyncLog
			if db.Where("run_id = ?", entry.RunID).First(&e).Error != nil {
				return false
			}
			return e.Status == tc.status && e.EndTime != nil
		}, 2*time.Second, 10*time.Millisecond, tc.job)
	}

	var partial models.SyncLog
	require.NoError(t, db.Where("job = ?", "job_partial").First(&partial).Error)
	assert.Equal(t, 2, partial.TotalCount)
	assert.Equal(t, 1, partial.SuccessCount)
	assert.Equal(t, 1, partial.ErrorCount)
	assert.Contains(t, partial.Errors, "写入失败")
}

func TestWithBackoffRetriesRateLimit(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"genres": [{"id": 28, "name": "Action"}]}`)
	})

	s, db := newTestService(t, mux)

	run := &syncRun{}
	s.runGenresSync(context.Background(), run)

	require.NoError(t, run.fatal)
	assert.Equal(t, 3, hits)

	var genres int64
	db.Model(&models.Genre{}).Count(&genres)
	assert.EqualValues(t, 1, genres)
}
