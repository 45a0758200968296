package sanitizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"laptoploan/pkg/model"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reStudentIDSeparators = regexp.MustCompile(`[\s\-_.]+`)
	reLooseDate           = regexp.MustCompile(`^(\d{4})[\-./](\d{1,2})[\-./](\d{1,2})\.?$`)

	slotAliases = map[string]model.TimeSlot{
		"morning":   model.Morning,
		"am":        model.Morning,
		"오전":        model.Morning,
		"afternoon": model.Afternoon,
		"pm":        model.Afternoon,
		"오후":        model.Afternoon,
	}
)

func dropControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' {
			return -1
		}
		return r
	}, s)
}

func SanitizeName(input string) string {
	return Pipeline{dropControl, CollapseSpace}.Apply(input)
}

func SanitizeStudentID(input string) string {
	p := Pipeline{
		strings.TrimSpace,
		func(s string) string { return reStudentIDSeparators.ReplaceAllString(s, "") },
		strings.ToUpper,
	}
	return p.Apply(input)
}

func SanitizeEmail(input string) string {
	return Pipeline{strings.TrimSpace, strings.ToLower}.Apply(input)
}

// SanitizeDate rewrites loose YYYY.M.D style dates to YYYY-MM-DD. Anything
// else is only trimmed.
func SanitizeDate(input string) string {
	s := strings.TrimSpace(input)
	m := reLooseDate.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
}

// SanitizeTimeSlot maps known aliases to the stored slot value.
func SanitizeTimeSlot(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	if slot, ok := slotAliases[s]; ok {
		return string(slot)
	}
	return s
}

func SanitizeFreeText(input string) string {
	p := Pipeline{
		func(s string) string { return strings.ReplaceAll(s, "\r\n", "\n") },
		func(s string) string { return strings.ReplaceAll(s, "\r", "\n") },
		dropControl,
		strings.TrimSpace,
	}
	return p.Apply(input)
}
