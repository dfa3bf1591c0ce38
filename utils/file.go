package utils

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// ExistedOrCopy reports whether filename exists, copying it from tplfile first
// when it does not.
func ExistedOrCopy(filename, tplfile string) bool {
	if _, err := os.Stat(filename); err == nil {
		return true
	}

	src, err := os.Open(tplfile)
	if err != nil {
		return false
	}
	defer src.Close()

	if dir := filepath.Dir(filename); dir != "" {
		if err = os.MkdirAll(dir, 0755); err != nil {
			log.Errorf("create dir '%s' failed: %v", dir, err)
			return false
		}
	}
	dst, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		log.Errorf("create '%s' failed: %v", filename, err)
		return false
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		log.Errorf("copy '%s' to '%s' failed: %v", tplfile, filename, err)
		return false
	}
	log.Infof("copy template '%s' to '%s'", tplfile, filename)
	return true
}

// TempFilename is a fresh path in dir for a file ending in suffix,
// the file itself is removed so writers can create it.
func TempFilename(dir, suffix string) (string, error) {
	f, err := os.CreateTemp(dir, "gendict-*"+suffix)
	if err != nil {
		return "", err
	}
	name := f.Name()
	f.Close()
	return name, os.Remove(name)
}
