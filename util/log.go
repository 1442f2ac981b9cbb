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
	"crypto/rand"
	"fmt"
	"log"
)

// Severity values, per RFC 5424
const (
	EMERGENCY = iota
	ALERT
	CRITICAL
	ERROR
	WARNING
	NOTICE
	INFO
	DEBUG
)

var severityNames = map[int]string{
	EMERGENCY: "EMERG",
	ALERT:     "ALERT",
	CRITICAL:  "CRIT",
	ERROR:     "ERROR",
	WARNING:   "WARN",
	NOTICE:    "NOTICE",
	INFO:      "INFO",
	DEBUG:     "DEBUG",
}

// LogContext is an interface for objects that can provide identifying
// information for log messages
type LogContext interface {
	AppName() string
	SessionID() string
	LogRootDir() string
}

// BasicLogContext is a minimal LogContext for callers with no
// operation-specific context of their own
type BasicLogContext struct {
	sessionID string
}

// AppName returns the application name
func (c *BasicLogContext) AppName() string {
	return "dep-fc"
}

// SessionID returns a Session ID, creating one if needed
func (c *BasicLogContext) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *BasicLogContext) LogRootDir() string {
	return ""
}

// LogAuditInput is the set of fields for a LogAudit call
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity int
}

func logMessage(ctx LogContext, severity int, message string) {
	sevName, ok := severityNames[severity]
	if !ok {
		sevName = severityNames[INFO]
	}
	log.Printf("%s [%s:%s] %s", sevName, ctx.AppName(), ctx.SessionID(), message)
}

// LogInfo logs an informational message
func LogInfo(ctx LogContext, message string) {
	logMessage(ctx, INFO, message)
}

// LogAlert logs a message that should be brought to an operator's attention
func LogAlert(ctx LogContext, message string) {
	logMessage(ctx, ALERT, message)
}

// LogSimpleErr logs a message and its underlying error, and returns a
// single error combining the two for the caller to propagate
func LogSimpleErr(ctx LogContext, message string, err error) error {
	outErr := fmt.Errorf("%s%v", message, err)
	logMessage(ctx, ERROR, outErr.Error())
	return outErr
}

// LogAudit logs an actor/action/actee audit record
func LogAudit(ctx LogContext, input LogAuditInput) {
	logMessage(ctx, input.Severity, fmt.Sprintf("[audit] %s: %s: %s: %s", input.Actor, input.Action, input.Actee, input.Message))
}

// PsuUUID generates a pseudorandom UUID-shaped identifier for log
// session correlation; it makes no v4 conformance promises
func PsuUUID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:]), nil
}
