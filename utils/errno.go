package utils

import (
	"encoding/json"
	"time"
)

type ErrorLog struct {
	Timestamp time.Time `json:"timestamp"`
	Code      int       `json:"code"`
	Msg       string    `json:"msg"`
}

func MkErrorLog(code int, msg string) []byte {
	b, _ := json.Marshal(ErrorLog{
		Timestamp: time.Now(),
		Code:      code,
		Msg:       msg,
	})
	return b
}

// ParseErrorLog decodes a document made by MkErrorLog.
func ParseErrorLog(b []byte) (ErrorLog, error) {
	var e ErrorLog
	err := json.Unmarshal(b, &e)
	return e, err
}
