package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	var config Config
	err := env.Unmarshal(env.EnvSet{
		"BADGER_FILEPATH": "/tmp/presence",
		"LOG_LEVEL":       "DEBUG",
	}, &config)
	req.NoError(err)

	req.Equal(15*time.Second, config.SweepInterval)
	req.Equal(10*time.Second, config.ParticipantTimeout)
	req.Equal("0.0.0.0:5000", config.Address())
	req.Equal("chat.presence", config.NatsSubjectPrefix)
	req.Empty(config.NatsURL)
}

func TestConfig_Required(t *testing.T) {
	req := require.New(t)
	var config Config
	err := env.Unmarshal(env.EnvSet{"LOG_LEVEL": "INFO"}, &config)
	req.Error(err)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)
	r, err := CharacterRune("#")
	req.NoError(err)
	req.Equal('#', r)

	_, err = CharacterRune("**")
	req.Error(err)
	_, err = CharacterRune("")
	req.Error(err)
}
