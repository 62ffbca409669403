package logbook

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ErrInvalidClockTime 时间格式不是合法的 HH:MM
var ErrInvalidClockTime = errors.New("时间格式必须为 HH:MM")

// ClockTime 一天内的挂钟时间，以自午夜起的分钟数表示
type ClockTime int

// ParseClockTime 解析 "HH:MM"（允许 "HH:MM:SS"，秒被忽略）
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return ClockTime(h*60 + m), nil
}

// MustClockTime 解析失败时 panic，仅用于常量与测试
func MustClockTime(s string) ClockTime {
	t, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String 格式化为 "HH:MM"
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// ComputeHoursWorked 计算工时，结束早于开始视为跨越午夜
// 结果保留两位小数
func ComputeHoursWorked(start, end ClockTime) float64 {
	minutes := int(end) - int(start)
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return Round2(float64(minutes) / 60)
}

// Round2 四舍五入到两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
