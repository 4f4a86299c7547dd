package config

import (
	"os"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/core/stores/cache"
)

var config *Config

type Auth struct {
	SecretKey    string
	PublicKey    string
	AccessExpire int64
}

type Mongo struct {
	URL string
	DB  string
}

// Chat 聊天子系统配置
// SessionTimeoutMs为会话超时窗口, 0时取默认一小时
// BlockedWords为消息内容屏蔽词字典
type Chat struct {
	SessionTimeoutMs int64    `json:",default=3600000"`
	BlockedWords     []string `json:",optional"`
}

type Config struct {
	service.ServiceConf
	ListenOn string
	Auth     Auth
	Chat     Chat
	Cache    cache.CacheConf
	Mongo    Mongo
}

func NewConfig() (*Config, error) {
	c := new(Config)
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "etc/config.yaml"
	}
	err := conf.Load(path, c)
	if err != nil {
		return nil, err
	}
	err = c.SetUp()
	if err != nil {
		return nil, err
	}
	config = c
	return config, nil
}

func GetConfig() *Config {
	return config
}
