package job

import (
	log "log/slog"
	"time"
)

// ExpiredPurger 能清理过期条目的本地缓存
type ExpiredPurger interface {
	PurgeExpired() int
}

// CachePurgeJob 定期回收本地缓存中已过期的条目，避免不再访问的账号长期占用内存
type CachePurgeJob struct {
	name   string
	purger ExpiredPurger
}

func NewCachePurgeJob(name string, purger ExpiredPurger) *CachePurgeJob {
	return &CachePurgeJob{
		name:   name,
		purger: purger,
	}
}

func (s *CachePurgeJob) Run() {
	start := time.Now()
	n := s.purger.PurgeExpired()
	if n > 0 {
		log.Info("cache purge job finished", "cache", s.name, "purged", n, "latency", time.Since(start))
	}
}
