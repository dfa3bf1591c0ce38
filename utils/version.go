package utils

import (
	"encoding/json"
	"fmt"

	goversion "github.com/caarlos0/go-version"
)

// Global version infomation, overridden with -ldflags "-X gendict/utils.BUILD_TIME=..."
var (
	APP_VERSION = "1.0.0"

	// date +%FT%T%z
	BUILD_TIME = "2026-10-19T00:00:00+0800"
	GIT_COMMIT = ""
)

const (
	APP_WEBSITE = "https://github.com/someonelive/gendict"

	APP_BANNER = `
   ____ _____ _   _ ____  ___ ____ _____
  / ___| ____| \ | |  _ \|_ _/ ___|_   _|
 | |  _|  _| |  \| | | | || | |     | |
 | |_| | |___| |\  | |_| || | |___  | |
  \____|_____|_| \_|____/|___\____| |_|
`
)

// BuildVersion collects version, build and runtime details for app.
func BuildVersion(app, description string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(app, description, APP_WEBSITE),
		goversion.WithASCIIName(APP_BANNER),
		func(i *goversion.Info) {
			i.GitVersion = APP_VERSION
			i.BuildDate = BUILD_TIME
			if GIT_COMMIT != "" {
				i.GitCommit = GIT_COMMIT
			}
		},
	)
}

// versionDoc adds the app name, which goversion.Info leaves out of json.
type versionDoc struct {
	Name string `json:"name"`
	goversion.Info
}

// Version is the version info of app as a json document.
func Version(app string) string {
	b, err := json.MarshalIndent(versionDoc{Name: app, Info: BuildVersion(app, "")}, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"name": "%s", "gitVersion": "%s"}`, app, APP_VERSION)
	}
	return string(b)
}

func ShowBannerForApp(app, description string) {
	info := BuildVersion(app, description)
	fmt.Println(info.String())
}
