package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"moviecms/models"
)

// Scheduler 定时触发同步任务
// 趋势榜按固定间隔同步，热门榜每天在固定小时同步一次。
// 触发撞上同名任务在跑时跳过本轮，等下一个周期。
type Scheduler struct {
	sync *SyncService

	trendingInterval time.Duration
	popularHour      int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler 创建调度器
func NewScheduler(syncService *SyncService, trendingInterval time.Duration, popularHour int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		sync:             syncService,
		trendingInterval: trendingInterval,
		popularHour:      popularHour,
		ctx:              ctx,
		cancel:           cancel,
	}
}

// Start 启动调度循环
func (s *Scheduler) Start() {
	log.Info().
		Dur("trending_interval", s.trendingInterval).
		Int("popular_hour", s.popularHour).
		Msg("同步调度器启动")

	s.wg.Add(2)
	go s.runTrendingLoop()
	go s.runPopularLoop()
}

// Stop 停止调度循环并等待退出
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("同步调度器已停止")
}

// runTrendingLoop 固定间隔触发趋势榜同步
func (s *Scheduler) runTrendingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.trendingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.trigger(JobTrending, s.sync.StartTrendingSync)
		}
	}
}

// runPopularLoop 每天在popularHour整点触发热门榜同步
func (s *Scheduler) runPopularLoop() {
	defer s.wg.Done()

	for {
		next := nextDailyRun(time.Now(), s.popularHour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.trigger(JobPopular, s.sync.StartPopularSync)
		}
	}
}

// trigger 触发一次任务，在跑则跳过本轮
func (s *Scheduler) trigger(job string, start func() (*models.SyncLog, error)) {
	entry, err := start()
	if errors.Is(err, ErrJobRunning) {
		log.Warn().Str("job", job).Msg("上一轮同步还在跑，跳过本轮调度")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("job", job).Msg("调度触发同步失败")
		return
	}
	log.Info().Str("job", job).Str("run_id", entry.RunID).Msg("调度触发同步")
}

// nextDailyRun 计算下一个每日执行时间点（今天的hour整点已过则取明天）
func nextDailyRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
