package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	apperrors "github.com/marquee-led/marquee/internal/errors"
)

// Placeholders substituted for missing optional fields. A missing *required*
// field is a parse error instead.
const (
	placeholderName = "Unknown"
	placeholderPark = "Unknown Park"
)

// RegisterBuiltins installs the built-in parsers into the registry.
func RegisterBuiltins(r *Registry) {
	r.Register("text", ParseText)
	r.Register("json_path", ParseJSONPath)
	r.Register("queue_times", ParseQueueTimes)
	r.Register("stock", ParseStock)
	r.Register("weather", ParseWeather)
}

// ParseText returns the payload verbatim, trimmed of surrounding whitespace.
func ParseText(payload []byte, _ Options) (string, error) {
	return strings.TrimSpace(string(payload)), nil
}

// ParseJSONPath extracts a single value from a JSON payload using the dotted
// path in opts ("path"), e.g. "user.profile.name" or "items.0.value".
func ParseJSONPath(payload []byte, opts Options) (string, error) {
	path := opts.String("path")
	if path == "" {
		return "", apperrors.ConfigError("json_path parser requires a path option")
	}
	if !gjson.ValidBytes(payload) {
		return "", apperrors.ParseError("payload is not valid JSON", nil)
	}
	result := gjson.GetBytes(payload, path)
	if !result.Exists() {
		return "", apperrors.ParseError("path not found in payload", nil).WithContext("path", path)
	}
	return result.String(), nil
}

// ParseQueueTimes aggregates a queue-times.com park payload into a single
// summary line: open ride count, average wait, and the longest current wait.
// The lands array is the required target; everything else has placeholders.
func ParseQueueTimes(payload []byte, opts Options) (string, error) {
	if !gjson.ValidBytes(payload) {
		return "", apperrors.ParseError("payload is not valid JSON", nil)
	}
	lands := gjson.GetBytes(payload, "lands")
	if !lands.Exists() || !lands.IsArray() {
		return "", apperrors.ParseError("payload has no lands array", nil)
	}

	park := gjson.GetBytes(payload, "name").String()
	if park == "" {
		park = placeholderPark
	}

	type ride struct {
		name string
		wait int
	}
	var (
		rides      []ride
		open       int
		total      int
		totalWait  int
		withWait   int
	)
	lands.ForEach(func(_, land gjson.Result) bool {
		land.Get("rides").ForEach(func(_, r gjson.Result) bool {
			name := r.Get("name").String()
			if name == "" {
				name = placeholderName
			}
			wait := int(r.Get("wait_time").Int())
			total++
			if r.Get("is_open").Bool() {
				open++
				if wait > 0 {
					totalWait += wait
					withWait++
				}
				rides = append(rides, ride{name: name, wait: wait})
			}
			return true
		})
		return true
	})

	if total == 0 {
		return "", nil
	}

	avg := 0
	if withWait > 0 {
		avg = totalWait / withWait
	}

	// longest waits first
	sort.Slice(rides, func(i, j int) bool { return rides[i].wait > rides[j].wait })

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d/%d open, avg %dmin", park, open, total, avg)
	top := opts.Int("top_rides", 3)
	for i, r := range rides {
		if i >= top || r.wait <= 0 {
			break
		}
		fmt.Fprintf(&b, " * %s %dmin", r.name, r.wait)
	}
	return b.String(), nil
}

// ParseStock formats a quote payload as a ticker line: "SYM $189.50 +1.2%".
// symbol and price are required; change_percent is optional.
func ParseStock(payload []byte, _ Options) (string, error) {
	if !gjson.ValidBytes(payload) {
		return "", apperrors.ParseError("payload is not valid JSON", nil)
	}
	symbol := gjson.GetBytes(payload, "symbol")
	price := gjson.GetBytes(payload, "price")
	if !symbol.Exists() || !price.Exists() {
		return "", apperrors.ParseError("payload missing symbol or price", nil)
	}

	line := fmt.Sprintf("%s $%.2f", strings.ToUpper(symbol.String()), price.Float())

	if change := gjson.GetBytes(payload, "change_percent"); change.Exists() {
		pct := change.Float()
		sign := "+"
		if pct < 0 {
			sign = ""
		}
		line += fmt.Sprintf(" %s%.1f%%", sign, pct)
	}
	return line, nil
}

// ParseWeather summarizes an openweathermap-shaped payload:
// "City: Clear 72F". main.temp is the required target field.
func ParseWeather(payload []byte, opts Options) (string, error) {
	if !gjson.ValidBytes(payload) {
		return "", apperrors.ParseError("payload is not valid JSON", nil)
	}
	temp := gjson.GetBytes(payload, "main.temp")
	if !temp.Exists() {
		return "", apperrors.ParseError("payload missing main.temp", nil)
	}

	city := gjson.GetBytes(payload, "name").String()
	if city == "" {
		city = placeholderName
	}
	condition := gjson.GetBytes(payload, "weather.0.main").String()

	unit := "F"
	if opts.String("units") == "metric" {
		unit = "C"
	}

	if condition == "" {
		return fmt.Sprintf("%s: %.0f%s", city, temp.Float(), unit), nil
	}
	return fmt.Sprintf("%s: %s %.0f%s", city, condition, temp.Float(), unit), nil
}
