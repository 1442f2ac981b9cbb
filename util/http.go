// Copyright 2025, Digital Earth Pacific
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"
)

var sharedClient = &http.Client{Timeout: 180 * time.Second}

// HTTPClient returns the shared http.Client for outbound requests
func HTTPClient() *http.Client {
	return sharedClient
}

// HTTPErr is an error carrying an HTTP status code
type HTTPErr struct {
	Status  int
	Message string
}

func (err HTTPErr) Error() string {
	return err.Message
}

// HTTPError writes an error response and logs it against the request
func HTTPError(r *http.Request, w http.ResponseWriter, ctx LogContext, message string, status int) {
	LogAudit(ctx, LogAuditInput{
		Actor:    r.RemoteAddr,
		Action:   r.Method + " response",
		Actee:    r.URL.String(),
		Message:  message,
		Severity: WARNING,
	})
	http.Error(w, message, status)
}

// ReqByObjJSON marshals inpObj as the JSON body of a request to inpURL,
// performs the request, and unmarshals the response body into outpObj.
// Non-2xx responses are returned as an HTTPErr. authKey, if not empty,
// is sent as a bearer token.
func ReqByObjJSON(method, inpURL, authKey string, inpObj, outpObj interface{}) (*http.Response, error) {
	var bodyReader *bytes.Reader
	if inpObj != nil {
		byts, err := json.Marshal(inpObj)
		if err != nil {
			return nil, fmt.Errorf("Failed to marshal request object: %v", err)
		}
		bodyReader = bytes.NewReader(byts)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	request, err := http.NewRequest(method, inpURL, bodyReader)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	if authKey != "" {
		request.Header.Set("Authorization", "Bearer "+authKey)
	}

	response, err := HTTPClient().Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBody, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return response, err
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return response, HTTPErr{
			Status:  response.StatusCode,
			Message: fmt.Sprintf("%s %s failed: %s: %s", method, inpURL, response.Status, string(responseBody)),
		}
	}

	if outpObj != nil {
		if err = json.Unmarshal(responseBody, outpObj); err != nil {
			return response, fmt.Errorf("Failed to unmarshal response from %s: %v", inpURL, err)
		}
	}

	return response, nil
}
