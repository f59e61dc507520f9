package logsvc

import (
	"log"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/user"
)

// RollbarLogger prints to a std logger and reports to Rollbar.
// Args may hold an error, a map[string]interface{} of extras and the user.User the entry is about.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewRollbarLogger configures the Rollbar client. Reporting is only on when a token is set outside debug and test modes.
func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.Debug && !conf.TestMode)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled && rollbar.Token() != "")
}

// report sends msg and args to Rollbar at level, then prints them.
func (l RollbarLogger) report(level, msg string, args []interface{}) {
	rbArgs := []interface{}{msg}
	person := false
	for _, arg := range args {
		switch v := arg.(type) {
		case user.User:
			if !person {
				rollbar.SetPerson(strconv.Itoa(v.ID), v.Name, v.Email)
				person = true
			}
		case *user.User:
			if !person && v != nil {
				rollbar.SetPerson(strconv.Itoa(v.ID), v.Name, v.Email)
				person = true
			}
		default:
			rbArgs = append(rbArgs, arg)
		}
	}
	if !person {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, rbArgs...)

	l.std.Printf("[%s] %s", level, msg)
	for _, arg := range rbArgs[1:] {
		l.std.Printf("%+v", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.report(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.report(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.report(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.report(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	rollbar.Close()
	l.std.Fatal(msg)
}
