// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httphook

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConstantHandlerDefault(t *testing.T) {
	var (
		assert = assert.New(t)

		response = httptest.NewRecorder()
		request  = httptest.NewRequest("GET", "/", nil)

		ch ConstantHandler
	)

	ch.ServeHTTP(response, request)
	assert.Equal(http.StatusOK, response.Code)
	assert.Empty(response.Header())
	assert.Empty(response.Body.String())
}

func testConstantHandlerFull(t *testing.T) {
	const text = "hello, world!"

	var (
		assert = assert.New(t)

		response = httptest.NewRecorder()
		request  = httptest.NewRequest("GET", "/", nil)

		ch = ConstantHandler{
			StatusCode:  217,
			Header:      http.Header{"test": {"true"}},
			ContentType: "text/plain",
			Body:        []byte(text),
		}
	)

	ch.ServeHTTP(response, request)
	assert.Equal(217, response.Code)
	assert.Equal(
		http.Header{
			"Test":           {"true"},
			"Content-Type":   {"text/plain"},
			"Content-Length": {strconv.Itoa(len(text))},
		},
		response.Header(),
	)

	assert.Equal(text, response.Body.String())
}

func testConstantText(t *testing.T) {
	var (
		assert = assert.New(t)

		response = httptest.NewRecorder()
		request  = httptest.NewRequest("GET", "/hey", nil)
	)

	ConstantText("Hi there!").ServeHTTP(response, request)
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal("Hi there!", response.Body.String())
	assert.Equal("text/plain; charset=utf-8", response.Header().Get("Content-Type"))
}

func TestConstantHandler(t *testing.T) {
	t.Run("Default", testConstantHandlerDefault)
	t.Run("Full", testConstantHandlerFull)
	t.Run("Text", testConstantText)
}
