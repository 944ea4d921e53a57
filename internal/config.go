package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BadgerFilepath     string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel           string        `env:"LOG_LEVEL,required=true"`
	Host               string        `env:"HOST,default=0.0.0.0"`
	Port               int           `env:"PORT,default=5000"`
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL,default=15s"`
	ParticipantTimeout time.Duration `env:"PARTICIPANT_TIMEOUT,default=10s"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	StatsInterval      time.Duration `env:"STATS_INTERVAL,default=1m"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	CensoredDir        string        `env:"CENSORED_DIR"`
	CharReplacement    string        `env:"CHARACTER_REPLACEMENT,default=*"`
	NatsURL            string        `env:"NATS_URL"`
	NatsSubjectPrefix  string        `env:"NATS_SUBJECT_PREFIX,default=chat.presence"`
	DebugPort          int           `env:"DEBUG_PORT,default=8081"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
