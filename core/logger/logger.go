package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) color() string {
	switch l {
	case DEBUG:
		return ColorGray
	case INFO:
		return ColorBlue
	case WARN:
		return ColorYellow
	case ERROR:
		return ColorRed
	case FATAL:
		return ColorPurple
	default:
		return ColorWhite
	}
}

// sink is one destination for log lines. Colored sinks get ANSI codes,
// plain ones (log files, pipes) do not.
type sink struct {
	w       io.Writer
	colored bool
}

type Logger struct {
	mu      sync.Mutex
	verbose bool
	exit    func(int)
	now     func() time.Time
	sinks   map[LogLevel][]sink
}

var global = New(os.Stdout)

// New returns a logger writing every level to w. Colors are enabled only
// when w is a terminal.
func New(w io.Writer) *Logger {
	l := &Logger{
		exit:  os.Exit,
		now:   time.Now,
		sinks: make(map[LogLevel][]sink),
	}
	l.SetWriterForAll(w)
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

func (l *Logger) IsVerbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

func (l *Logger) SetWriter(level LogLevel, w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks[level] = []sink{{w: w, colored: isTerminal(w)}}
}

func (l *Logger) SetWriterForAll(w io.Writer) {
	for level := DEBUG; level <= FATAL; level++ {
		l.SetWriter(level, w)
	}
}

func (l *Logger) AddWriterForAll(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for level := DEBUG; level <= FATAL; level++ {
		l.sinks[level] = append(l.sinks[level], sink{w: w, colored: isTerminal(w)})
	}
}

func (l *Logger) format(level LogLevel, message string, colored bool) string {
	timestamp := l.now().Format("06-01-02 15:04:05")
	if !colored {
		return fmt.Sprintf("[%s] %-5s %s\n", timestamp, level.String(), message)
	}
	return fmt.Sprintf(
		"%s[%s]%s %s%-5s%s %s\n",
		ColorGray, timestamp, ColorReset,
		level.color(), level.String(), ColorReset,
		message,
	)
}

func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	if level == DEBUG && !l.verbose {
		l.mu.Unlock()
		return
	}
	message := fmt.Sprintf(format, args...)
	for _, s := range l.sinks[level] {
		_, _ = io.WriteString(s.w, l.format(level, message, s.colored))
	}
	exit := l.exit
	l.mu.Unlock()

	if level == FATAL {
		exit(1)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.Log(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.Log(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.Log(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.Log(ERROR, format, args...) }

// Default returns the process-wide logger used by the package functions.
func Default() *Logger {
	return global
}

func SetVerbose(verbose bool) {
	global.SetVerbose(verbose)
}

func IsVerbose() bool {
	return global.IsVerbose()
}

func SetWriterForAll(w io.Writer) {
	global.SetWriterForAll(w)
}

func AddWriterForAll(w io.Writer) {
	global.AddWriterForAll(w)
}

// SetErrorWriter moves ERROR and FATAL output to stderr.
func SetErrorWriter() {
	global.SetWriter(ERROR, os.Stderr)
	global.SetWriter(FATAL, os.Stderr)
}

func Debug(format string, args ...interface{}) {
	global.Log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	global.Log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	global.Log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	global.Log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	global.Log(FATAL, format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		global.Log(level, format, args...)
	}
}
