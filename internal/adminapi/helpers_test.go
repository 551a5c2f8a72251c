package adminapi

import (
	"net/url"
	"strconv"
	"strings"
)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func urlEscape(s string) string {
	return url.QueryEscape(s)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
