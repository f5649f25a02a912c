package config

import (
	"fmt"

	"dex-terminal/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config 定义整个配置的结构
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Eth       EthConfig       `mapstructure:"eth"`
	Contracts ContractsConfig `mapstructure:"contracts"`
	Account   AccountConfig   `mapstructure:"account"`
	Api       ApiConfig       `mapstructure:"api"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Backfill  BackfillConfig  `mapstructure:"backfill"`
}

// LogConfig Log 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// EthConfig 链端 RPC 配置
type EthConfig struct {
	RpcURL         string `mapstructure:"rpc_url"` // 需要 websocket 端点，订阅事件用
	ChainID        int64  `mapstructure:"chain_id"`
	RateLimit      int    `mapstructure:"rate_limit"`       // 每秒 RPC 调用数上限
	CallTimeoutSec int    `mapstructure:"call_timeout_sec"` // 单次调用超时
}

// ContractsConfig 合约部署地址
type ContractsConfig struct {
	Exchange string `mapstructure:"exchange"`
	Token    string `mapstructure:"token"`
}

// AccountConfig 交易签名账户
type AccountConfig struct {
	PrivateKey string `mapstructure:"private_key"`
}

type ApiConfig struct {
	Addr string `mapstructure:"addr"`
}

type MonitorConfig struct {
	Enable         bool   `mapstructure:"enable"`
	PrometheusAddr string `mapstructure:"prometheus_addr"`
}

// BackfillConfig 历史事件回补配置
type BackfillConfig struct {
	FromBlock  int64 `mapstructure:"from_block"`
	TimeoutSec int   `mapstructure:"timeout_sec"`
}

func InitConfig() Config {
	return InitConfigFrom("./config/")
}

func InitConfigFrom(path string) Config {
	var config Config

	viper.SetConfigName("config.terminal")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)

	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	if err := mapstructure.Decode(viper.AllSettings(), &config); err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	return config
}

func WatchConfig(config *Config) {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := InitConfig()
		*config = newConfig
		logger.SetLogLevel(config.Log.Level)
	})
}
