// error.go 定义了 task-man 各个操作统一返回的错误类型。
// 每个错误都带有一个 Kind，调用方（一般是 server）根据 Kind 决定如何响应。
package comm

import (
	"errors"
	"fmt"

	pe "github.com/pkg/errors"
)

// 错误类别
type Kind string

const (
	// 没有凭证，或者凭证已失效，需要重新登录
	Unauthenticated Kind = "Unauthenticated"
	// 参数不合法，例如 page 小于 1、未知的 label
	InvalidInput Kind = "InvalidInput"
	// 网络错误，或者 GitHub 返回了非 2xx 的状态码
	FetchFailed Kind = "FetchFailed"
	// label 已更新，但 title/body 更新失败，issue 处于不一致的状态
	PartialUpdateFailure Kind = "PartialUpdateFailure"
)

// Error 包含了出错的操作及原始错误
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cause 兼容 pkg/errors
func (e *Error) Cause() error {
	return e.Err
}

// Is 使得 errors.Is(err, &Error{Kind: X}) 可以只按 Kind 比较
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// E 创建一个 Error，err 可以为 nil
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Ef 使用格式化信息作为原始错误
func Ef(kind Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: pe.Errorf(format, args...)}
}

// Wrap 为原始错误附带上下文信息
func Wrap(kind Kind, op string, err error, msg string) error {
	return &Error{Kind: kind, Op: op, Err: pe.Wrap(err, msg)}
}

// KindOf 返回错误链中第一个 Error 的 Kind
// 非 Error 的错误一律视为 FetchFailed
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return FetchFailed
}

// Is 判断 err 是否属于 kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
