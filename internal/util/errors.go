package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	// ErrModelUnavailable 远端预测服务不可达或返回异常，调用方应转入本地启发式兜底
	ErrModelUnavailable = errors.New("prediction service unavailable")
	// ErrSessionExpired 上游返回 401/403，区别于一般网络错误，不做兜底
	ErrSessionExpired = errors.New("session expired")
)
