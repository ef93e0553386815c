package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedResolver(year int, month time.Month, day, hour int) *Resolver {
	return &Resolver{Now: func() time.Time {
		return time.Date(year, month, day, hour, 37, 12, 0, time.Local)
	}}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestResolve(t *testing.T) {
	// 2025-01-15 é uma quarta-feira
	r := fixedResolver(2025, time.January, 15, 18)

	tests := []struct {
		expr string
		want time.Time
	}{
		{"hoy", date(2025, 1, 15)},
		{"today", date(2025, 1, 15)},
		{"mañana", date(2025, 1, 16)},
		{"MAÑANA", date(2025, 1, 16)},
		{"tomorrow", date(2025, 1, 16)},
		{"pasado mañana", date(2025, 1, 17)},
		{"day after tomorrow", date(2025, 1, 17)},
		{"en 3 días", date(2025, 1, 18)},
		{"in 10 days", date(2025, 1, 25)},
		{"next monday", date(2025, 1, 20)},
		{"el próximo lunes", date(2025, 1, 20)},
		{"viernes", date(2025, 1, 17)},
		{"próximo miércoles", date(2025, 1, 22)},
		{"next wednesday", date(2025, 1, 22)},
		{"esta semana", date(2025, 1, 17)},
		{"this week", date(2025, 1, 17)},
		{"fin de semana", date(2025, 1, 18)},
		{"weekend", date(2025, 1, 18)},
		{"fin de mes", date(2025, 1, 31)},
		{"end of month", date(2025, 1, 31)},
		{"próximo mes", date(2025, 2, 1)},
		{"next month", date(2025, 2, 1)},
		{"2025-03-10", date(2025, 3, 10)},
		{"05/02/2025", date(2025, 2, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok := r.Resolve(tt.expr)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestResolve_Unrecognized(t *testing.T) {
	r := fixedResolver(2025, time.January, 15, 9)

	for _, expr := range []string{"", "   ", "not a date", "31/02/2025", "2025-13-01", "next blursday", "en muchos días"} {
		t.Run(expr, func(t *testing.T) {
			got, ok := r.Resolve(expr)
			assert.False(t, ok)
			assert.True(t, got.IsZero())
		})
	}
}

func TestResolve_CaseAndWhitespaceInvariant(t *testing.T) {
	r := fixedResolver(2025, time.January, 15, 9)

	a, okA := r.Resolve("HOY")
	b, okB := r.Resolve(" hoy ")
	require.True(t, okA)
	require.True(t, okB)
	assert.True(t, a.Equal(b))

	c, ok := r.Resolve("  Pasado   Mañana ")
	require.True(t, ok)
	assert.True(t, date(2025, 1, 17).Equal(c))
}

func TestResolve_TruncatesToMidnight(t *testing.T) {
	r := fixedResolver(2025, time.January, 15, 23)

	got, ok := r.Resolve("hoy")
	require.True(t, ok)
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())
}

func TestResolve_MonthBoundaries(t *testing.T) {
	r := fixedResolver(2025, time.December, 10, 9)

	got, ok := r.Resolve("next month")
	require.True(t, ok)
	assert.True(t, date(2026, 1, 1).Equal(got))

	got, ok = r.Resolve("fin de mes")
	require.True(t, ok)
	assert.True(t, date(2025, 12, 31).Equal(got))

	leap := fixedResolver(2024, time.February, 3, 9)
	got, ok = leap.Resolve("end of month")
	require.True(t, ok)
	assert.True(t, date(2024, 2, 29).Equal(got))
}

func TestNextWeekday_WrapsOnSameDay(t *testing.T) {
	friday := date(2025, 1, 17)
	assert.True(t, date(2025, 1, 24).Equal(nextWeekday(friday, time.Friday)))
	assert.True(t, date(2025, 1, 18).Equal(nextWeekday(friday, time.Saturday)))
}
