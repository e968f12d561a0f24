package media

import (
	"context"

	"github.com/rs/zerolog"
)

// 商品削除後のメディア掃除。ベストエフォートで、失敗しても
// 呼び出し元の処理は失敗させない（孤児メディアが残り得る）。
type LogCleaner struct {
	log zerolog.Logger
}

func NewLogCleaner(log zerolog.Logger) *LogCleaner {
	return &LogCleaner{log: log}
}

func (c *LogCleaner) Cleanup(ctx context.Context, urls []string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		c.log.Info().Str("url", u).Msg("media cleanup requested")
	}
}
