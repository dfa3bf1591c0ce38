package utils

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	nested_formatter "github.com/antonfisher/nested-logrus-formatter"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_ROTATE_LOGFILES = 7
	DEFAULT_ROTATE_MBYTES   = 10
	MAX_ROTATE_LOGFILES     = 70
	MAX_ROTATE_MBYTES       = 100
)

// logfile is log filename such as dictsvc.log
// default rotate 7 files with 10M per file.
func InitLog(logpath, logfile, level string) error {
	return InitLogRotate(logpath, logfile, level,
		DEFAULT_ROTATE_LOGFILES, DEFAULT_ROTATE_MBYTES)
}

// logfile is logfilename such as dictsvc.log, written under logpath
// and to stdout. rotate_mbytes is MBytes.
func InitLogRotate(logpath, logfile, level string,
	rotate_files, rotate_mbytes uint) error {

	logrus.SetFormatter(newFormatter())
	if err := setLevel(level); err != nil {
		return err
	}
	logrus.SetReportCaller(true)

	// create logpath if not exist
	if len(logpath) == 0 {
		logpath = "log"
	}
	if _, err := os.Stat(logpath); err != nil {
		if err = os.MkdirAll(logpath, 0755); err != nil {
			logrus.Errorf("create log subdir '%s' failed: %s", logpath, err)
			return err
		}
	}

	rotate_files, rotate_mbytes = clampRotate(rotate_files, rotate_mbytes)
	logf, err := rotatelogs.New(
		filepath.Join(logpath, logfile+".%Y%m%d"),
		rotatelogs.WithRotationCount(rotate_files),                  // max number log files
		rotatelogs.WithRotationSize(int64(rotate_mbytes*1024*1024)), // bytes per log file
	)
	if err != nil {
		logrus.Errorf("failed to create rotatelogs: %s", err)
		return err
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, logf))

	return nil
}

// InitConsoleLog is for command line tools whose stdout carries data:
// logs only go to w, usually os.Stderr.
func InitConsoleLog(w io.Writer, level string) error {
	logrus.SetFormatter(newFormatter())
	logrus.SetOutput(w)
	logrus.SetReportCaller(false)
	return setLevel(level)
}

func newFormatter() logrus.Formatter {
	return &nested_formatter.Formatter{
		HideKeys:        true,
		NoColors:        true,
		TimestampFormat: "01-02 15:04:05",
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d %s]", path.Base(f.File), f.Line, funcName)
		},
	}
}

func setLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Errorf("invalid log level '%s'", level)
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}

func clampRotate(rotate_files, rotate_mbytes uint) (uint, uint) {
	if rotate_files == 0 {
		rotate_files = DEFAULT_ROTATE_LOGFILES
	}
	if rotate_mbytes == 0 {
		rotate_mbytes = DEFAULT_ROTATE_MBYTES
	}
	if rotate_files > MAX_ROTATE_LOGFILES {
		logrus.Warnf("rotate_files %d is bigger than %d, set to %d",
			rotate_files, MAX_ROTATE_LOGFILES, MAX_ROTATE_LOGFILES)
		rotate_files = MAX_ROTATE_LOGFILES
	}
	if rotate_mbytes > MAX_ROTATE_MBYTES {
		logrus.Warnf("rotate_mbytes %dM is bigger than %dM, set to %dM",
			rotate_mbytes, MAX_ROTATE_MBYTES, MAX_ROTATE_MBYTES)
		rotate_mbytes = MAX_ROTATE_MBYTES
	}
	return rotate_files, rotate_mbytes
}
