package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "dictsvc.toml")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestLoadConfigTemplate(t *testing.T) {
	tpl, err := os.ReadFile("etc/dictsvc.toml.tpl")
	require.NoError(t, err)

	// a missing config is created from its template
	filename := filepath.Join(t.TempDir(), "dictsvc.toml")
	require.NoError(t, os.WriteFile(filename+".tpl", tpl, 0644))

	myconfig, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.FileExists(t, filename)
	assert.Equal(t, uint(3000), myconfig.Port)
	assert.Equal(t, 100000, myconfig.MaxRecords)
	assert.False(t, myconfig.MysqlConfig.Enable)
	assert.Equal(t, "postgres", myconfig.PgConfig.Dbtype)
	assert.Equal(t, "person", myconfig.RedisConfig.KeyPrefix)
	assert.Equal(t, "gendict", myconfig.MinioConfig.Bucket)
	assert.Equal(t, 5*time.Minute, mustDuration(myconfig.CacheConfig.Expiration))
}

func TestLoadConfigDefaults(t *testing.T) {
	myconfig, err := LoadConfig(writeConfig(t, "port = 8080\n"))
	require.NoError(t, err)
	assert.Equal(t, uint(8080), myconfig.Port)
	assert.Equal(t, DEFAULT_MAX_RECORDS, myconfig.MaxRecords)
	assert.Equal(t, "mysql", myconfig.MysqlConfig.Dbtype)
	assert.Equal(t, "clickhouse", myconfig.CkConfig.Dbtype)
	assert.Equal(t, DEFAULT_TABLE, myconfig.CkConfig.Table)
	assert.Equal(t, uint(DEFAULT_TIMEOUT), myconfig.PgConfig.Timeout)
	assert.Equal(t, 3, myconfig.RedisConfig.Protocol)
	assert.Equal(t, "info", myconfig.LogConfig.Level)
	assert.Equal(t, "10m", myconfig.CacheConfig.Cleanup)
}

func TestLoadConfigInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"toml":      "port = \n",
		"no dsn":    "[mysql]\nenable = true\n",
		"table":     "[postgresql]\ntable = \"person; drop table x\"\n",
		"duration":  "[cache]\nexpiration = \"5 minutes\"\n",
		"port type": "port = \"http\"\n",
	} {
		_, err := LoadConfig(writeConfig(t, content))
		assert.Error(t, err, name)
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDumpHidesSecrets(t *testing.T) {
	myconfig, err := LoadConfig(writeConfig(t, `
[mysql]
enable = true
dsn = ["root:topsecret@tcp(127.0.0.1:3306)/test"]
[minio]
password = "miniosecret"
`))
	require.NoError(t, err)

	dump := string(myconfig.Dump())
	assert.NotContains(t, dump, "topsecret")
	assert.NotContains(t, dump, "miniosecret")
	assert.Contains(t, dump, `"enable": true`)
}

func TestLoadTimeout(t *testing.T) {
	myconfig := &MyConfig{}
	require.NoError(t, myconfig.setDefaults())
	myconfig.RedisConfig.Timeout = 90

	srv := &ApiServer{Myconfig: myconfig}
	assert.Equal(t, 90*time.Second, srv.loadTimeout())
}
