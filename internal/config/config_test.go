package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectEtc(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600))

	return dir + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectEtc(t))
	require.NoError(t, err)

	assert.Equal(t, "Data Store", cfg.Title)
	assert.Equal(t, 3000, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, 24*time.Hour, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, 720*time.Hour, cfg.Webserver.Session.RememberTTL)
	assert.Equal(t, "session-token", cfg.Webserver.Session.CookieName)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Minute, cfg.Webserver.RateLimit.Expiration)
	assert.Equal(t, "access.log", cfg.Log.File.AccessLog)
}

func TestReadConfig_Environment(t *testing.T) {
	t.Setenv("NEXTAUTH_SECRET", "from-env")
	t.Setenv("API_URL", "http://api.internal:4000")
	t.Setenv("INTERNAL_API_KEY", "internal-key")

	cfg, err := ReadConfig(projectEtc(t))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, "http://api.internal:4000", cfg.API.URL)
	assert.Equal(t, "internal-key", cfg.API.Key)
}

func TestReadConfig_JSONOverride(t *testing.T) {
	t.Setenv(JSONOverrideEnv, `{"Title":"Overridden","Webserver":{"Port":8080,"URL":"http://x"}}`)

	cfg, err := ReadConfig(projectEtc(t))
	require.NoError(t, err)

	assert.Equal(t, "Overridden", cfg.Title)
	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.Equal(t, "http://x", cfg.Webserver.URL)
	assert.Equal(t, 24*time.Hour, cfg.Webserver.Session.ExpiryTime, "untouched keys keep the file value")
}

func TestReadConfig_Errors(t *testing.T) {
	base := `
[Webserver]
Port = 3000
URL = "http://localhost:3000"
[Auth]
Secret = "s"
[API]
URL = "http://localhost:4000"
`

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"zero port", `
[Webserver]
URL = "http://localhost"
[Auth]
Secret = "s"
[API]
URL = "http://api"
`, ErrWebServerPortCanNotBeZero},
		{"missing url", `
[Webserver]
Port = 1
[Auth]
Secret = "s"
[API]
URL = "http://api"
`, ErrEmptyURL},
		{"missing secret", `
[Webserver]
Port = 1
URL = "http://localhost"
[API]
URL = "http://api"
`, ErrEmptySecret},
		{"missing api url", `
[Webserver]
Port = 1
URL = "http://localhost"
[Auth]
Secret = "s"
`, ErrEmptyAPIURL},
		{"unknown engine", base + `
[DB]
GormEngine = "oracle"
`, ErrUnknownEngine},
	}

	// empty variables count as unset
	for _, env := range envBindings {
		t.Setenv(env, "")
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadConfig(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadConfig_Defaults(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, `
[Webserver]
Port = 3000
URL = "http://localhost:3000"
[Auth]
Secret = "s"
[API]
URL = "http://localhost:4000"
`))
	require.NoError(t, err)

	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, defaultShutDownTime, cfg.Webserver.ShutDownTime)
	assert.Equal(t, defaultExpiryTime, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, defaultRememberTTL, cfg.Webserver.Session.RememberTTL)
	assert.Equal(t, defaultCookieName, cfg.Webserver.Session.CookieName)
	assert.Equal(t, defaultRateMax, cfg.Webserver.RateLimit.Max)
	assert.Equal(t, defaultRateWindow, cfg.Webserver.RateLimit.Expiration)
	assert.Equal(t, defaultAPITimeout, cfg.API.Timeout)
}

func TestReadConfig_MissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	assert.Error(t, err)
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{Title: "Data Store", Webserver: Webserver{Port: 3000}}

	out, err := DumpConfig(&cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Data Store")
	assert.Contains(t, out, "Port = 3000")

	out, err = DumpConfigJSON(&cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "Data Store"`)
}
