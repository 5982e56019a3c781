package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, "/webapi", cfg.APIPrefix)
	assert.Equal(t, 30*time.Second, cfg.Backdoor.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Cache.CourseTTL)
	assert.True(t, cfg.Auth.DevLoginEnabled)
}

func TestDevLoginDisabledInProduction(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ENV", EnvProduction)
	v.Set("ENABLE_DEV_LOGIN", true)

	cfg := fromViper(v)
	assert.False(t, cfg.Auth.DevLoginEnabled)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("nonsense", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , ,b "))
}
