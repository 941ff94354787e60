package ztesting

import (
	"cmp"
	"errors"
	"math"
	"testing"

	"github.com/torlangballe/zstats/zlog"
	"github.com/torlangballe/zstats/zstr"
)

func fail(t *testing.T, str string) bool {
	t.Helper()
	zlog.Error(nil, zlog.StackAdjust(2), "Fail:", str)
	t.Error(str)
	return false
}

func Equal[N comparable](t *testing.T, str string, a, b N) bool {
	t.Helper()
	if a != b {
		return fail(t, zstr.Spaced(str+":", a, "!=", b))
	}
	return true
}

func Different[N comparable](t *testing.T, str string, a, b N) bool {
	t.Helper()
	if a == b {
		return fail(t, zstr.Spaced(str+":", a, "==", b))
	}
	return true
}

func GreaterThan[N cmp.Ordered](t *testing.T, str string, a, b N) bool {
	t.Helper()
	if a <= b {
		return fail(t, zstr.Spaced(str+":", a, "<=", b))
	}
	return true
}

func LessThan[N cmp.Ordered](t *testing.T, str string, a, b N) bool {
	t.Helper()
	if a >= b {
		return fail(t, zstr.Spaced(str+":", a, ">=", b))
	}
	return true
}

// Near checks a and b differ by at most delta.
func Near(t *testing.T, str string, a, b, delta float64) bool {
	t.Helper()
	if math.IsNaN(a) || math.IsNaN(b) || math.Abs(a-b) > delta {
		return fail(t, zstr.Spaced(str+":", a, "!~", b, "±", delta))
	}
	return true
}

// IsError checks errors.Is(err, target).
func IsError(t *testing.T, str string, err, target error) bool {
	t.Helper()
	if !errors.Is(err, target) {
		return fail(t, zstr.Spaced(str+":", err, "is not", target))
	}
	return true
}

func NoError(t *testing.T, str string, err error) bool {
	t.Helper()
	if err != nil {
		return fail(t, zstr.Spaced(str+":", err))
	}
	return true
}
