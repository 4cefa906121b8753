package book

import "errors"

// 可恢复的错误走返回值；池的不变量被破坏时直接 panic（见 pool.go）
var (
	ErrTickOutOfRange = errors.New("book: tick out of range")
	ErrInvalidQty     = errors.New("book: quantity must be positive")
	ErrPoolExhausted  = errors.New("book: order pool exhausted")
	ErrBadOrderType   = errors.New("book: bad order type")
)
