package retrier

import "time"

// ShouldRetryFunc решает, имеет ли смысл повторять операцию после ошибки.
type ShouldRetryFunc func(error) bool

// Config задает границы экспоненциального повтора. Конкретная реализация
// живет в подпакете-адаптере, чтобы вызывающий код не тянул библиотеку
// backoff напрямую.
type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Randomization   float64
	Multiplier      float64

	// nil означает что повторяются любые ошибки
	ShouldRetry ShouldRetryFunc
}
