package zlog

import (
	"fmt"
	"io"
	"net/http/pprof"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/torlangballe/zstats/zstr"
)

type Priority int
type StackAdjust int

const (
	Verbose Priority = iota
	DebugLevel
	InfoLevel
	WarningLevel
	ErrorLevel
	FatalLevel
)

var (
	MinPriority = InfoLevel // lines below this are not written
	UseColor    = false
	IsInTests   bool

	outputLock  sync.Mutex
	output      io.Writer = os.Stdout
	outputHooks           = map[string]func(s string){}
	hooking     bool
)

func init() {
	IsInTests = strings.HasSuffix(os.Args[0], ".test")
}

func (p Priority) String() string {
	switch p {
	case Verbose:
		return "verbose"
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarningLevel:
		return "warning"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// SetOutput sets where log lines go. Commands printing results on stdout log to stderr.
func SetOutput(w io.Writer) {
	outputLock.Lock()
	output = w
	outputLock.Unlock()
}

func Error(err error, parts ...any) error {
	return baseLog(err, ErrorLevel, 4, parts...)
}

// Fatal logs and exits.
func Fatal(err error, parts ...any) error {
	return baseLog(err, FatalLevel, 4, parts...)
}

func Info(parts ...any) {
	baseLog(nil, InfoLevel, 4, parts...)
}

func Warn(parts ...any) {
	baseLog(nil, WarningLevel, 4, parts...)
}

func Debug(parts ...any) {
	baseLog(nil, DebugLevel, 4, parts...)
}

func NewError(parts ...any) error {
	var err error
	if len(parts) > 0 {
		err, _ = parts[0].(error)
		if err != nil {
			parts = parts[1:]
		}
	}
	p := strings.TrimSpace(fmt.Sprintln(parts...))
	if err != nil {
		if p == "" {
			return err
		}
		return errors.Wrap(err, p)
	}
	return errors.New(p)
}

func baseLog(err error, priority Priority, pos int, parts ...any) error {
	if len(parts) != 0 {
		n, got := parts[0].(StackAdjust)
		if got {
			parts = parts[1:]
			pos += int(n)
		}
	}
	if err != nil {
		parts = append([]any{err}, parts...)
	}
	err = NewError(parts...)
	if priority < MinPriority {
		return err
	}
	var col, endCol string
	if UseColor {
		if priority >= ErrorLevel {
			col = zstr.EscMagenta
			endCol = zstr.EscNoColor
		} else if priority >= WarningLevel {
			col = zstr.EscYellow
			endCol = zstr.EscNoColor
		}
	}
	finfo := time.Now().Local().Format("15:04:05/02 ")
	if priority != InfoLevel {
		finfo += GetCallingFunctionString(pos) + ": "
	}
	if priority == FatalLevel {
		finfo += "\nFatal:" + GetCallingStackString() + "\n"
	}
	line := finfo + col + err.Error() + endCol

	outputLock.Lock()
	fmt.Fprintln(output, line)
	if !hooking {
		hooking = true
		for _, f := range outputHooks {
			f(finfo + err.Error() + "\n")
		}
		hooking = false
	}
	outputLock.Unlock()
	if priority == FatalLevel && !IsInTests {
		os.Exit(-1)
	}
	return err
}

func GetCallingFunctionInfo(pos int) (function, file string, line int) {
	pc, file, line, ok := runtime.Caller(pos)
	if ok {
		function = runtime.FuncForPC(pc).Name()
	}
	return
}

func GetCallingStackString() string {
	var parts []string
	for i := 3; ; i++ {
		s := GetCallingFunctionString(i)
		if s == "" {
			break
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

func GetCallingFunctionString(pos int) string {
	function, file, line := GetCallingFunctionInfo(pos)
	if function == "" {
		return ""
	}
	_, function = path.Split(function)
	_, file = path.Split(file)
	return fmt.Sprintf("%s:%d %s()", file, line, function)
}

func OnError(err error, parts ...any) bool {
	if err != nil {
		parts = append([]any{StackAdjust(1)}, parts...)
		Error(err, parts...)
		return true
	}
	return false
}

func AssertNotError(err error, parts ...any) {
	if err != nil {
		parts = append([]any{StackAdjust(1)}, parts...)
		Fatal(err, parts...)
	}
}

func AddHook(id string, call func(s string)) {
	outputLock.Lock()
	outputHooks[id] = call
	outputLock.Unlock()
}

func RemoveHook(id string) {
	outputLock.Lock()
	delete(outputHooks, id)
	outputLock.Unlock()
}

// SetProfilingHandle adds the net/http/pprof handlers under /debug/pprof/ to r.
func SetProfilingHandle(r *mux.Router) {
	r.HandleFunc("/debug/pprof/", pprof.Index)
	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)
	r.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
}
