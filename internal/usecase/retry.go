package usecase

import "time"

// RetryPolicy — чистая политика повторов: сколько попыток и какая пауза.
// Повторяются только транспортные отказы, решение об этом принимает движок.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy — 3 попытки, экспоненциальная пауза 1s..10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// NextDelay возвращает паузу перед следующей попыткой после отказа
// попытки attempt (нумерация с 1). ok=false — попытки исчерпаны.
func (p RetryPolicy) NextDelay(attempt int) (time.Duration, bool) {
	if attempt >= p.MaxAttempts {
		return 0, false
	}
	delay := p.BaseDelay * time.Duration(1<<(attempt-1))
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay, true
}
