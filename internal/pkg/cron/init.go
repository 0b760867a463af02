package cron

import log "log/slog"

// InitCron 注册并启动全部定时任务，表达式非法时直接返回错误
func InitCron(mgr *Manager) error {
	log.Info("Cron Jobs starting...", "cache_purge", mgr.cachePurge)
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	return nil
}
