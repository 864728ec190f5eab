package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/domain"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Progress.Backend)
	assert.Equal(t, app.DefaultSessionLength, cfg.SessionLength())
	assert.Equal(t, app.DefaultScoringConfig(), cfg.Scoring())
	assert.Equal(t, domain.DefaultSubjects, cfg.Selector().Subjects)
	assert.Equal(t, app.DefaultSampleSize, cfg.Selector().SampleSize)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
app:
  name: wizkid
  timezone: Europe/Berlin
server:
  port: "9000"
challenge:
  sessionLength: 90s
  streakPolicy: increment
  subjects: [writing, math]
progress:
  backend: memory
`)
	t.Setenv("WIZKID_PORT", "9100")
	t.Setenv("WIZKID_BASE_POINTS", "20")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wizkid", cfg.App.Name)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 20, cfg.Challenge.BasePoints)
	assert.Equal(t, 0.5, cfg.Challenge.StreakBonusFactor)
	assert.Equal(t, 90*time.Second, cfg.SessionLength())
	assert.Equal(t, []domain.Subject{domain.SubjectWriting, domain.SubjectMath}, cfg.Selector().Subjects)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadRejectsBadSettings(t *testing.T) {
	cases := map[string]string{
		"backend":  "progress:\n  backend: floppy\n",
		"redis":    "progress:\n  backend: redis\n",
		"postgres": "progress:\n  backend: postgres\n",
		"policy":   "challenge:\n  streakPolicy: forever\n",
		"subject":  "challenge:\n  subjects: [art]\n",
		"timezone": "app:\n  timezone: Mars/Olympus\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDotEnvSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("WIZKID_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("WIZKID_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "loaded", os.Getenv("WIZKID_TEST_DOTENV"))
}

func TestTTLDuration(t *testing.T) {
	assert.Equal(t, time.Minute, TTLDuration("", time.Minute))
	assert.Equal(t, time.Minute, TTLDuration("soon", time.Minute))
	assert.Equal(t, 5*time.Second, TTLDuration("5s", time.Minute))
}
