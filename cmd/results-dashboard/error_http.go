package main

import (
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
)

type HTTPErrorHandler struct {
	Cause string
	Error error
}

const httpErrorMessage = `!!! An Error Occurred !!!
-------------------------

Failed to start the results dashboard.

Either the configuration file is incorrect, or the results CSV could not be read.
Check that dataset.path in config.yml points at a CSV file with these columns:

    season, race_name, driver_id, driver_given_name, driver_family_name,
    driver_nationality, constructor_id, constructor_name, points

      Error Details
-------------------------

The error occurred attempting to: %s
The error more specifically is: %s

-------------------------
`

func (h *HTTPErrorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, h.String())
}

func (h *HTTPErrorHandler) String() string {
	return fmt.Sprintf(httpErrorMessage, h.Cause, wordwrap.WrapString(fmt.Sprint(h.Error), 100))
}

// ServeHTTPWithError shows a startup failure both in the terminal and on addr, so that
// it is seen by people who only ever open the dashboard in a browser.
func ServeHTTPWithError(addr string, cause string, err error) {
	h := &HTTPErrorHandler{Cause: cause, Error: err}

	fmt.Println(h.String())

	listener, err := net.Listen("tcp", addr)

	if err != nil {
		return
	}

	if runtime.GOOS == "windows" {
		_ = browser.OpenURL("http://" + strings.Replace(addr, "0.0.0.0", "127.0.0.1", 1))
	}

	if err := http.Serve(listener, h); err != nil {
		logrus.Fatal(err)
	}
}
