package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/edusurvey/core"
)

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
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected fmt: msg | error, map[string]interface{}, core.Principal
func (l RollbarLogger) prepare(msg string, args []interface{}) (rollbarArgs, stdArgs []interface{}) {
	var personSet bool
	rollbarArgs = make([]interface{}, 0, len(args)+1)
	rollbarArgs = append(rollbarArgs, msg)
	stdArgs = make([]interface{}, 0, len(args))
	for _, arg := range args {
		p, ok := arg.(core.Principal)
		if !ok {
			rollbarArgs = append(rollbarArgs, arg)
			stdArgs = append(stdArgs, arg)
			continue
		}
		if !personSet { // only one principal per item
			rollbar.SetPerson(p.SchoolCode+":"+string(p.Role), p.SchoolName, "")
			stdArgs = append(stdArgs, p)
			personSet = true
		}
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	return rollbarArgs, stdArgs
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Println(level + " " + msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rbArgs, stdArgs := l.prepare(msg, args)
	rollbar.Debug(rbArgs...)
	l.print("DEBUG", msg, stdArgs)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, stdArgs := l.prepare(msg, args)
	rollbar.Info(rbArgs...)
	l.print("INFO", msg, stdArgs)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, stdArgs := l.prepare(msg, args)
	rollbar.Warning(rbArgs...)
	l.print("WARN", msg, stdArgs)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, stdArgs := l.prepare(msg, args)
	rollbar.Error(rbArgs...)
	l.print("ERROR", msg, stdArgs)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, stdArgs := l.prepare(msg, args)
	rollbar.Critical(rbArgs...)
	l.print("FATAL", msg, stdArgs)
	rollbar.Wait()
	l.std.Fatal(msg)
}
