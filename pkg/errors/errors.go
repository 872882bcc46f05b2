// Package errors 跨层共享的哨兵错误
package errors

import "errors"

// ErrConcurrentUpdate 带条件的更新未命中任何行：记录不存在或状态已被并发请求改写
// Repository 层返回，Service 层翻译为具体业务错误
var ErrConcurrentUpdate = errors.New("数据已被其他操作修改，请刷新后重试")
