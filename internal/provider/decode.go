package provider

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// maxBodySize caps a decoded response body
const maxBodySize = 16 << 20

// readBody reads a response body, undoing any Content-Encoding
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "", "identity":
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// decodeJSON unmarshals a body and maps any failure to a schema error
func decodeJSON(endpoint string, body []byte, v any) error {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", models.ErrProviderSchema, endpoint, err)
	}
	return nil
}

func schemaErrorf(endpoint, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", models.ErrProviderSchema, endpoint, fmt.Sprintf(format, args...))
}

// flexString accepts a JSON string or number
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = flexString(n.String())
	return nil
}

// flexFloat accepts a JSON number or numeric string; null and "" are 0
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = flexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number, got %s", data)
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return fmt.Errorf("expected number, got %q", s)
	}
	*f = flexFloat(v)
	return nil
}

// count rounds a decoded value to a count
func (f flexFloat) count() int {
	return int(math.Round(float64(f)))
}

// unix timestamps above this are taken as milliseconds
const unixMillisThreshold = 1e11

// flexTime accepts unix seconds, unix milliseconds or an RFC 3339 string.
// Missing or empty values leave the zero time.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = flexTime{}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*t = flexTime(fromUnix(n))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected timestamp, got %s", data)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = flexTime{}
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*t = flexTime(fromUnix(n))
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func fromUnix(n float64) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	if n >= unixMillisThreshold {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}

// flexStatus accepts a status string or an object carrying one
type flexStatus models.FixtureStatus

func (s *flexStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = flexStatus(models.StatusUnknown)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexStatus(parseStatus(str))
		return nil
	}
	var obj struct {
		Type        string `json:"type"`
		Name        string `json:"name"`
		Short       string `json:"short"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// an unreadable status is treated as absent
		*s = flexStatus(models.StatusUnknown)
		return nil
	}
	for _, v := range []string{obj.Type, obj.Short, obj.Name, obj.Description} {
		if st := parseStatus(v); st != models.StatusUnknown {
			*s = flexStatus(st)
			return nil
		}
	}
	*s = flexStatus(models.StatusUnknown)
	return nil
}

// parseStatus maps the provider's status vocabulary onto FixtureStatus
func parseStatus(raw string) models.FixtureStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)

	switch key {
	case "scheduled", "notstarted", "ns", "tbd", "fixture", "upcoming", "prematch":
		return models.StatusScheduled
	case "live", "inprogress", "inplay", "1h", "2h", "ht", "halftime", "firsthalf", "secondhalf", "et", "extratime", "penalties", "pen":
		return models.StatusLive
	case "finished", "ft", "ended", "aet", "ap", "fulltime", "afterpenalties", "afterextratime":
		return models.StatusFinished
	case "postponed", "pst", "delayed":
		return models.StatusPostponed
	case "cancelled", "canceled", "canc", "abandoned", "aban":
		return models.StatusCancelled
	case "interrupted", "int", "suspended", "susp":
		return models.StatusInterrupted
	default:
		return models.StatusUnknown
	}
}

// raceResult is one recent-form entry: a result letter or an object with one
type raceResult models.FormResult

func (r *raceResult) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var obj struct {
			Result  string `json:"result"`
			Outcome string `json:"outcome"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("unrecognised form entry %s", data)
		}
		s = orDefault(obj.Result, obj.Outcome)
	}

	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "W", "WIN", "WON":
		*r = raceResult(models.FormWin)
	case "D", "DRAW", "DREW":
		*r = raceResult(models.FormDraw)
	case "L", "LOSS", "LOST":
		*r = raceResult(models.FormLoss)
	default:
		*r = ""
	}
	return nil
}
