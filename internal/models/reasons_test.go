package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonLookups(t *testing.T) {
	r, ok := ReasonByCode("doxing")
	assert.True(t, ok)
	assert.Equal(t, int16(141), r.NumCode)
	assert.True(t, r.Critical)

	r, ok = ReasonByNumCode(171)
	assert.True(t, ok)
	assert.Equal(t, "xxx", r.Code)
	assert.False(t, r.Critical)

	_, ok = ReasonByCode("nonexistent")
	assert.False(t, ok)
	_, ok = ReasonByNumCode(999)
	assert.False(t, ok)
}

func TestCriticalReasons(t *testing.T) {
	// critical 理由在受理时强制升级为处分 + 封禁
	critical := []int16{110, 121, 142, 141, 140, 112, 150, 210}
	for _, num := range critical {
		assert.True(t, IsCriticalReason(num), "reason %d", num)
	}

	nonCritical := []int16{122, 171, 111, 180, 123, 190}
	for _, num := range nonCritical {
		assert.False(t, IsCriticalReason(num), "reason %d", num)
	}

	assert.False(t, IsCriticalReason(999), "未知代码不算 critical")
}

func TestReasonCodesUnique(t *testing.T) {
	byNum := make(map[int16]bool)
	byCode := make(map[string]bool)
	for _, r := range PostReportReasons {
		assert.False(t, byNum[r.NumCode], "num_code %d 重复", r.NumCode)
		assert.False(t, byCode[r.Code], "code %s 重复", r.Code)
		byNum[r.NumCode] = true
		byCode[r.Code] = true
	}
}
