package testlog

import (
	"testing"

	"github.com/danmuck/ghoslerctl/internal/observability"
	"github.com/rs/zerolog/log"
)

func Start(t *testing.T) {
	t.Helper()
	observability.InitTestLogger()
	log.Debug().Str("test", t.Name()).Msg("start")
}
