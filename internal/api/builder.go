package api

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	userAgent = "Mozilla/5.0 (Linux; Android 6.0.1; D5803 Build/23.5.A.1.291; wv) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Version/4.0 Chrome/63.0.3239.111 Mobile Safari/537.36"

	htmlAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8," +
		"application/signed-exchange;v=b3"
	jsonAccept = "application/json, text/plain, */*"

	formContentType = "application/x-www-form-urlencoded"
	jsonContentType = "application/json;charset=UTF-8"

	acceptHeader        = "Accept"
	contentTypeHeader   = "Content-Type"
	userAgentHeader     = "User-Agent"
	refererHeader       = "Referer"
	csrfHeader          = "X-Csrf-Token"
	authorizationHeader = "Authorization"
)

type headerProfile int

const (
	plainProfile headerProfile = iota
	htmlProfile
	jsonProfile
)

type requestBuilder struct {
	ctx             context.Context
	method          string
	url             string
	body            io.Reader
	profile         headerProfile
	headers         map[string]string
	followRedirects bool
	err             error
}

func newRequestBuilder(ctx context.Context, method, url string) *requestBuilder {
	return &requestBuilder{
		ctx:             ctx,
		method:          method,
		url:             url,
		headers:         make(map[string]string),
		followRedirects: true,
	}
}

func (r *requestBuilder) withForm(values url.Values) *requestBuilder {
	r.body = strings.NewReader(values.Encode())

	return r
}

func (r *requestBuilder) withRawBody(body string) *requestBuilder {
	r.body = strings.NewReader(body)

	return r
}

func (r *requestBuilder) withProfile(profile headerProfile) *requestBuilder {
	r.profile = profile

	return r
}

func (r *requestBuilder) withReferer(referer string) *requestBuilder {
	if referer != "" {
		r.headers[refererHeader] = referer
	}

	return r
}

func (r *requestBuilder) withoutRedirects() *requestBuilder {
	r.followRedirects = false

	return r
}

func (r *requestBuilder) addHeader(key, value string) *requestBuilder {
	r.headers[key] = value

	return r
}

func (r *requestBuilder) build() (*http.Request, error) {
	if r.err != nil {
		return nil, r.err
	}

	ctx := r.ctx
	if !r.followRedirects {
		ctx = WithoutRedirects(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, r.body)
	if err != nil {
		return nil, err
	}

	req.Header.Set(userAgentHeader, userAgent)

	switch r.profile {
	case htmlProfile:
		req.Header.Set(acceptHeader, htmlAccept)
		req.Header.Set(contentTypeHeader, formContentType)
	case jsonProfile:
		req.Header.Set(acceptHeader, jsonAccept)
		req.Header.Set(contentTypeHeader, jsonContentType)
	case plainProfile:
	}

	for key, value := range r.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
