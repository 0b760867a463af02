package cron

import (
	"Courier/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine        *cron.Cron
	cachePurgeJob *job.CachePurgeJob
	cachePurge    string
}

// NewCronManager cachePurge 为带秒的 cron 表达式
func NewCronManager(cachePurge string, cachePurgeJob *job.CachePurgeJob) *Manager {
	return &Manager{
		engine:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cachePurgeJob: cachePurgeJob,
		cachePurge:    cachePurge,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.cachePurge, s.cachePurgeJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "jobs", len(s.engine.Entries()))
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
