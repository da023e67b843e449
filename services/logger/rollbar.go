package logsvc

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/user"
)

// RollbarLogger reports entries to Rollbar and mirrors them to a standard logger.
// Reporting is off until Enable(true).
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(false)
	return &RollbarLogger{std: std}
}

func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// entry is one log call, its args sorted by kind.
type entry struct {
	msg    string
	err    error
	extras map[string]interface{}
	usr    *user.User
	rest   []interface{}
}

// newEntry sorts args: the first error, all extras maps merged, the first user with an ID,
// and anything else kept in order.
func newEntry(msg string, args []interface{}) entry {
	e := entry{msg: msg}
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			if e.err == nil {
				e.err = a
			} else {
				e.rest = append(e.rest, a)
			}
		case map[string]interface{}:
			if e.extras == nil {
				e.extras = make(map[string]interface{}, len(a))
			}
			for k, v := range a {
				e.extras[k] = v
			}
		case user.User:
			if e.usr == nil && a.ID != 0 {
				usr := a
				e.usr = &usr
			}
		default:
			e.rest = append(e.rest, a)
		}
	}

	if e.usr != nil {
		if e.extras == nil {
			e.extras = make(map[string]interface{}, 2)
		}
		e.extras["role"] = e.usr.Role
		if e.usr.StudentID != "" {
			e.extras["student_id"] = e.usr.StudentID
		}
	}
	return e
}

// items is what rollbar.Log expects: the message, then the error and extras when present.
func (e entry) items() []interface{} {
	items := []interface{}{e.msg}
	if e.err != nil {
		items = append(items, e.err)
	}
	if e.extras != nil {
		items = append(items, e.extras)
	}
	return append(items, e.rest...)
}

// line renders the entry for the standard logger. Users show as "id (username)".
func (e entry) line(level string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(level), e.msg)
	if e.err != nil {
		fmt.Fprintf(&b, " : %+v", e.err)
	}
	if e.usr != nil {
		fmt.Fprintf(&b, " | user: %d (%s)", e.usr.ID, e.usr.Username)
	}
	for k, v := range e.extras {
		fmt.Fprintf(&b, " | %s=%v", k, v)
	}
	for _, arg := range e.rest {
		fmt.Fprintf(&b, " | %+v", arg)
	}
	return b.String()
}

func (l *RollbarLogger) log(level, msg string, args []interface{}) entry {
	e := newEntry(msg, args)
	if e.usr != nil {
		rollbar.SetPerson(strconv.Itoa(e.usr.ID), e.usr.Username, e.usr.Email)
	} else {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, e.items()...)
	l.std.Println(e.line(level))
	return e
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l *RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l *RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l *RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
