package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 业务错误码到HTTP码的映射
func TestHTTPCode(t *testing.T) {
	cases := map[*AppError]int{
		ErrTenantNotFound:                   CodeNotFound,
		ErrTenantInactive:                   CodeForbidden,
		ErrNotFound:                         CodeNotFound,
		ErrQuotaExceeded:                    CodeQuotaLimit,
		ErrUnauthorized:                     CodeUnauthorized,
		ErrForbidden:                        CodeForbidden,
		ErrConflict:                         CodeConflict,
		New(BizValidationError, "参数错误"):     CodeInvalidParam,
		New("UNKNOWN_CODE", "未知"):           CodeServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.HTTPCode(), "code %s", err.Code)
	}
}

// 包装后的业务错误仍能用errors.Is / errors.As识别
func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("查询用户: %w", ErrNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)

	var appErr *AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, BizNotFound, appErr.Code)

	// 普通错误不会被误判
	var other *AppError
	assert.False(t, errors.As(errors.New("连接超时"), &other))
}
