package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSとパスワード再設定リンクで使う）

	// trueなら注文ステータス遷移を前進のみに制限する。
	// デフォルトはfalse（どのステータスからでも遷移できる）。
	OrderStrictFlow bool
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: os.Getenv("GO_ENV"),
		FEURL: os.Getenv("FE_URL"),

		OrderStrictFlow: getBool("ORDER_STRICT_FLOW", false),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}

	return cfg, nil
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
