// Package dates interpreta expressões de data em linguagem natural (espanhol e inglês).
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Resolver converte expressões como "mañana" ou "next friday" em datas.
// Todas as datas são relativas a Now truncado para a meia-noite local.
type Resolver struct {
	Now func() time.Time
}

// NewResolver cria um Resolver que usa o relógio do sistema
func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

var defaultResolver = NewResolver()

// Resolve interpreta a expressão usando o relógio do sistema
func Resolve(expr string) (time.Time, bool) {
	return defaultResolver.Resolve(expr)
}

var (
	inDaysPattern  = regexp.MustCompile(`^(?:en|dentro de|in)\s+(\d{1,4})\s+(?:días|dias|día|dia|days|day)$`)
	weekdayPattern = regexp.MustCompile(`^(?:el\s+)?(?:(?:próximo|proximo|siguiente|next|this|este)\s+)?([a-záéíóú]+)(?:\s+(?:próximo|proximo|que viene))?$`)
	isoPattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyPattern     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

var (
	todayWords      = set("hoy", "today")
	tomorrowWords   = set("mañana", "manana", "tomorrow")
	dayAfterWords   = set("pasado mañana", "pasado manana", "day after tomorrow", "the day after tomorrow")
	thisWeekWords   = set("esta semana", "this week")
	weekendWords    = set("fin de semana", "este fin de semana", "el fin de semana", "weekend", "this weekend", "the weekend")
	endOfMonthWords = set("fin de mes", "final de mes", "a fin de mes", "end of month", "end of the month", "fin del mes")
	nextMonthWords  = set("próximo mes", "proximo mes", "el mes que viene", "mes que viene", "el próximo mes", "el proximo mes", "next month")
)

var weekdays = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miércoles": time.Wednesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sábado":    time.Saturday,
	"sabado":    time.Saturday,
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Today retorna a data atual do relógio truncada para a meia-noite local
func (r *Resolver) Today() time.Time {
	now := r.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Resolve interpreta a expressão. O segundo retorno é false quando a expressão
// não pôde ser interpretada; isso não significa "sem data".
func (r *Resolver) Resolve(expr string) (time.Time, bool) {
	s := spacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(expr)), " ")
	if s == "" {
		return time.Time{}, false
	}

	today := r.Today()

	switch {
	case todayWords[s]:
		return today, true
	case dayAfterWords[s]:
		return today.AddDate(0, 0, 2), true
	case tomorrowWords[s]:
		return today.AddDate(0, 0, 1), true
	case thisWeekWords[s]:
		return nextWeekday(today, time.Friday), true
	case weekendWords[s]:
		return nextWeekday(today, time.Saturday), true
	case endOfMonthWords[s]:
		return time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, today.Location()), true
	case nextMonthWords[s]:
		return time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location()), true
	}

	if m := inDaysPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return today.AddDate(0, 0, n), true
	}

	if isoPattern.MatchString(s) {
		t, err := time.ParseInLocation("2006-01-02", s, today.Location())
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
		// time.Date normaliza 31/02 para março; rejeitamos datas inexistentes
		if t.Day() != day || int(t.Month()) != month {
			return time.Time{}, false
		}
		return t, true
	}

	if m := weekdayPattern.FindStringSubmatch(s); m != nil {
		if wd, ok := weekdays[m[1]]; ok {
			return nextWeekday(today, wd), true
		}
	}

	return time.Time{}, false
}

// nextWeekday retorna o próximo dia da semana alvo estritamente depois de today
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	delta := int(target) - int(today.Weekday())
	if delta <= 0 {
		delta += 7
	}
	return today.AddDate(0, 0, delta)
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
