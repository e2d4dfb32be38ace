package lock

import (
	"context"
	"sync"
	"time"
)

const retryInterval = 10 * time.Millisecond

// KeyLock in-process блокировка по ключу, держатель ключа выполняет safeCode эксклюзивно
type KeyLock struct {
	lockMap sync.Map
}

func New() *KeyLock {
	return &KeyLock{}
}

// WithDelay ждет освобождения ключа не дольше wait, false - ключ не получен (таймаут или отмена ctx)
func (l *KeyLock) WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	isTimeout := time.NewTimer(wait)
	defer isTimeout.Stop()
	for {
		if _, loaded := l.lockMap.LoadOrStore(key, true); !loaded {
			break
		}
		select {
		case <-isTimeout.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(retryInterval):
		}
	}
	defer l.lockMap.Delete(key)
	return true, safeCode()
}
