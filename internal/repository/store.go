package repository

import (
	"context"
	"database/sql/driver"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrStoreUnavailable 存储超时或连接异常，调用方可重试
var ErrStoreUnavailable = errors.New("store unavailable")

// Strategy 会话聚合的取数方式，启动时确定一次
type Strategy string

const (
	StrategyJoined  Strategy = "joined"
	StrategyBatched Strategy = "batched"
)

// ParseStrategy 未知值回退到 batched
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyJoined:
		return StrategyJoined
	case StrategyBatched, "":
		return StrategyBatched
	default:
		log.Warn("unknown aggregation strategy, using batched", "strategy", s)
		return StrategyBatched
	}
}

// 可重试的 MySQL 错误号
var retryableMySQLErrors = map[uint16]struct{}{
	1040: {}, // too many connections
	1205: {}, // lock wait timeout
	1213: {}, // deadlock
	2013: {}, // lost connection during query
	3024: {}, // max_execution_time exceeded
}

type timeoutKey struct{}

// WithQueryTimeout 为本次调用链覆盖查询超时，不影响默认值
func WithQueryTimeout(ctx context.Context, d time.Duration) context.Context {
	return context.WithValue(ctx, timeoutKey{}, d)
}

func queryTimeout(ctx context.Context, def time.Duration) time.Duration {
	if d, ok := ctx.Value(timeoutKey{}).(time.Duration); ok && d > 0 {
		return d
	}
	return def
}

// store 仓储公共部分：每次查询都带超时
type store struct {
	db      *gorm.DB
	timeout time.Duration
}

func newStore(db *gorm.DB, timeout time.Duration) store {
	return store{db: db, timeout: timeout}
}

func (s store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	d := queryTimeout(ctx, s.timeout)
	if d <= 0 {
		return s.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	return s.db.WithContext(ctx), cancel
}

// wrapErr 超时与连接类错误归为 ErrStoreUnavailable
func wrapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if IsRetryable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return errors.Wrap(err, op)
}

// IsRetryable 判断错误是否属于临时性存储故障
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		_, ok := retryableMySQLErrors[myErr.Number]
		return ok
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
