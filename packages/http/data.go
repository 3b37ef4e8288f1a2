package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Format selects how a data mapping is encoded into a request body.
type Format string

const (
	// FormatQueryString encodes data as application/x-www-form-urlencoded.
	FormatQueryString Format = "query-string"
	// FormatJSON encodes data as a JSON object.
	FormatJSON Format = "json"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// Data is the payload mapping passed to the verb helpers.
type Data map[string]any

// ParseFormat maps a format name to a Format. An empty name selects
// FormatQueryString.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatQueryString, "form":
		return FormatQueryString, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown body format %q", ErrInvalidOption, name)
	}
}

// EncodeQuery encodes data as a URL query string. Keys are sorted, nested
// maps and slices use bracket notation (a[b]=c, a[0]=c), booleans become
// 1 or 0 and nil values are skipped.
func EncodeQuery(data Data) string {
	var pairs []string
	for _, k := range sortedKeys(data) {
		pairs = appendQuery(pairs, k, data[k])
	}
	return strings.Join(pairs, "&")
}

func appendQuery(pairs []string, key string, value any) []string {
	if value == nil {
		return pairs
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return pairs
		}
		if _, ok := value.(fmt.Stringer); !ok {
			return appendQuery(pairs, key, rv.Elem().Interface())
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			pairs = appendQuery(pairs, key+"["+k.String()+"]", rv.MapIndex(k).Interface())
		}
		return pairs
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break // bytes encode as a string
		}
		for i := 0; i < rv.Len(); i++ {
			pairs = appendQuery(pairs, key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
		}
		return pairs
	}

	return append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(scalarString(value)))
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// encodeBody encodes data for the given format and returns the body with
// its content type.
func encodeBody(data Data, format Format) (string, string, error) {
	switch format {
	case FormatJSON:
		b, err := json.Marshal(data)
		if err != nil {
			return "", "", fmt.Errorf("encoding JSON body: %w", err)
		}
		return string(b), contentTypeJSON, nil
	case FormatQueryString, "":
		return EncodeQuery(data), contentTypeForm, nil
	default:
		return "", "", fmt.Errorf("%w: unknown body format %q", ErrInvalidOption, format)
	}
}

// AppendQuery appends the encoded data to rawURL. The URL is returned
// unchanged when data is empty.
func AppendQuery(rawURL string, data Data) string {
	if len(data) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + EncodeQuery(data)
}

// ParseFormBody decodes an urlencoded body into single values per key.
func ParseFormBody(body string) map[string]string {
	result := make(map[string]string)
	pairs := strings.Split(body, "&")
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			key, _ := url.QueryUnescape(kv[0])
			value, _ := url.QueryUnescape(kv[1])
			result[key] = value
		}
	}
	return result
}
