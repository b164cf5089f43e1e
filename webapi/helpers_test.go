package webapi_test

import (
	"net/http"
	"net/http/httptest"
)

func httptestRequest(forwardedFor string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	return req
}
