package retry

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
)

// TimeoutError интерфейс для ошибок таймаута
type TimeoutError interface {
	Timeout() bool
}

// ValidationError интерфейс для ошибок валидации
type ValidationError interface {
	Validation() bool
}

// RetryableError ошибка, которая сама знает, стоит ли ее повторять
type RetryableError interface {
	Retryable() bool
}

// IsTimeout проверяет, является ли ошибка таймаутом
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var timeoutErr TimeoutError
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Timeout()
	}

	if os.IsTimeout(err) {
		return true
	}

	return errors.Is(err, syscall.ETIMEDOUT)
}

// IsConnectionError проверяет, является ли ошибка проблемой соединения
func IsConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		switch sysErr {
		case syscall.ECONNREFUSED,
			syscall.ECONNRESET,
			syscall.ECONNABORTED,
			syscall.ENETUNREACH,
			syscall.ENETDOWN:
			return true
		}
	}

	return false
}

// IsValidationError проверяет, является ли ошибка проблемой валидации
func IsValidationError(err error) bool {
	var validErr ValidationError
	if errors.As(err, &validErr) {
		return validErr.Validation()
	}
	return false
}

// IsTransientError проверяет, является ли ошибка временной
func IsTransientError(err error) bool {
	return IsTimeout(err) || IsConnectionError(err)
}

// ShouldRetry классификатор по умолчанию для сетевых клиентов
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if IsValidationError(err) {
		return false
	}

	var retryable RetryableError
	if errors.As(err, &retryable) {
		return retryable.Retryable()
	}

	return IsTransientError(err)
}
