package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/marquee-led/marquee/internal/errors"
)

func TestParseText(t *testing.T) {
	out, err := ParseText([]byte("  Hello World!\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", out)
}

func TestParseTextEmpty(t *testing.T) {
	out, err := ParseText([]byte("   \n"), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParseJSONPath(t *testing.T) {
	payload := []byte(`{"user": {"profile": {"name": "Ada"}}, "items": [{"v": 1}, {"v": 2}]}`)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"nested object", "user.profile.name", "Ada"},
		{"array index", "items.1.v", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ParseJSONPath(payload, Options{"path": tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestParseJSONPathMissingPath(t *testing.T) {
	_, err := ParseJSONPath([]byte(`{}`), Options{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeConfig))
}

func TestParseJSONPathNotFound(t *testing.T) {
	_, err := ParseJSONPath([]byte(`{"a": 1}`), Options{"path": "b.c"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeParse))
}

func TestParseJSONPathInvalidJSON(t *testing.T) {
	_, err := ParseJSONPath([]byte(`{not json`), Options{"path": "a"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeParse))
}

const queueTimesPayload = `{
	"name": "Magic Kingdom",
	"lands": [
		{"name": "Frontierland", "rides": [
			{"name": "Big Thunder", "wait_time": 45, "is_open": true},
			{"name": "Splash", "wait_time": 0, "is_open": false}
		]},
		{"name": "Tomorrowland", "rides": [
			{"name": "Space Mountain", "wait_time": 60, "is_open": true}
		]}
	]
}`

func TestParseQueueTimes(t *testing.T) {
	out, err := ParseQueueTimes([]byte(queueTimesPayload), nil)
	require.NoError(t, err)

	assert.Contains(t, out, "Magic Kingdom: 2/3 open")
	assert.Contains(t, out, "avg 52min")
	assert.Contains(t, out, "Space Mountain 60min")
	assert.Contains(t, out, "Big Thunder 45min")
}

func TestParseQueueTimesTopRidesOption(t *testing.T) {
	out, err := ParseQueueTimes([]byte(queueTimesPayload), Options{"top_rides": 1})
	require.NoError(t, err)

	assert.Contains(t, out, "Space Mountain 60min")
	assert.NotContains(t, out, "Big Thunder")
}

func TestParseQueueTimesMissingParkName(t *testing.T) {
	payload := `{"lands": [{"rides": [{"name": "Coaster", "wait_time": 5, "is_open": true}]}]}`
	out, err := ParseQueueTimes([]byte(payload), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Unknown Park")
}

func TestParseQueueTimesNoLands(t *testing.T) {
	_, err := ParseQueueTimes([]byte(`{"name": "Empty"}`), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeParse))
}

func TestParseQueueTimesNoRides(t *testing.T) {
	out, err := ParseQueueTimes([]byte(`{"name": "Empty", "lands": []}`), nil)
	require.NoError(t, err)
	assert.Empty(t, out, "a park with no rides yields an empty result, not an error")
}

func TestParseStock(t *testing.T) {
	out, err := ParseStock([]byte(`{"symbol": "aapl", "price": 189.5, "change_percent": 1.23}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "AAPL $189.50 +1.2%", out)
}

func TestParseStockNegativeChange(t *testing.T) {
	out, err := ParseStock([]byte(`{"symbol": "TSLA", "price": 200, "change_percent": -4.5}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "TSLA $200.00 -4.5%", out)
}

func TestParseStockMissingChange(t *testing.T) {
	out, err := ParseStock([]byte(`{"symbol": "IBM", "price": 100}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "IBM $100.00", out)
}

func TestParseStockMissingRequired(t *testing.T) {
	_, err := ParseStock([]byte(`{"symbol": "IBM"}`), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeParse))
}

func TestParseWeather(t *testing.T) {
	payload := `{"name": "Orlando", "weather": [{"main": "Clear"}], "main": {"temp": 72.4}}`
	out, err := ParseWeather([]byte(payload), nil)
	require.NoError(t, err)
	assert.Equal(t, "Orlando: Clear 72F", out)
}

func TestParseWeatherMetric(t *testing.T) {
	payload := `{"name": "Paris", "weather": [{"main": "Rain"}], "main": {"temp": 18.2}}`
	out, err := ParseWeather([]byte(payload), Options{"units": "metric"})
	require.NoError(t, err)
	assert.Equal(t, "Paris: Rain 18C", out)
}

func TestParseWeatherMissingOptionalFields(t *testing.T) {
	out, err := ParseWeather([]byte(`{"main": {"temp": 60}}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "Unknown: 60F", out)
}

func TestParseWeatherMissingTemp(t *testing.T) {
	_, err := ParseWeather([]byte(`{"name": "Nowhere"}`), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeParse))
}
