package main

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/digitalearthpacific/dep-fc/util"
)

func TestParseYears(t *testing.T) {
	years, err := parseYears("2024")
	assert.Nil(t, err)
	assert.Equal(t, []int{2024}, years)

	years, err = parseYears("2020-2024")
	assert.Nil(t, err)
	assert.Equal(t, []int{2020, 2021, 2022, 2023, 2024}, years)

	years, err = parseYears(" 2024 ")
	assert.Nil(t, err)
	assert.Equal(t, []int{2024}, years)
}

func TestParseYearsInvalid(t *testing.T) {
	badInputs := []string{"", "twenty24", "2024-2020", "2020-2022-2024", "2020-"}
	for _, input := range badInputs {
		_, err := parseYears(input)
		assert.NotNil(t, err, "expected an error for %q", input)
	}
}

func TestGetPortStr(t *testing.T) {
	os.Unsetenv("PORT")
	assert.Equal(t, ":8080", getPortStr())

	os.Setenv("PORT", "9090")
	defer os.Unsetenv("PORT")
	assert.Equal(t, ":9090", getPortStr())
}

func TestCreateCliApp(t *testing.T) {
	app := createCliApp()
	assert.Equal(t, "dep-fc", app.Name)

	names := []string{}
	for _, command := range app.Commands {
		names = append(names, command.Name)
	}
	for _, expected := range []string{"process-year", "process-recent", "annual-summary", "watch", "list-tasks", "serve", "migrate", "version"} {
		assert.Contains(t, names, expected)
	}
}

func TestCreateRouterNoDatabase(t *testing.T) {
	original := getDbConnectionFunc
	defer func() { getDbConnectionFunc = original }()
	getDbConnectionFunc = func(util.LogContext) (*sql.DB, error) {
		return nil, errors.New("no database configured")
	}

	_, err := createRouter()
	assert.NotNil(t, err)
}

func TestRouterHealthCheck(t *testing.T) {
	original := getDbConnectionFunc
	defer func() { getDbConnectionFunc = original }()
	getDbConnectionFunc = func(util.LogContext) (*sql.DB, error) {
		return &sql.DB{}, nil
	}

	router, err := createRouter()
	assert.Nil(t, err)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "OK", recorder.Body.String())
}
