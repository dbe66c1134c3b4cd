package config

import (
	"github.com/bpolls/bpolls-bapp/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 链配置，默认指向 Citrea 测试网
type ChainConfig struct {
	ChainId     int64                     `mapstructure:"chain_id"`     // 链ID
	RpcUrl      string                    `mapstructure:"rpc_url"`      // RPC节点URL
	Currency    string                    `mapstructure:"currency"`     // 原生币符号
	ExplorerUrl string                    `mapstructure:"explorer_url"` // 区块浏览器
	PrivateKey  string                    `mapstructure:"private_key"`  // 服务端签名私钥
	Contracts   map[string]ContractConfig `mapstructure:"contracts"`    // 合约配置
}

// ContractConfig 单个合约配置
type ContractConfig struct {
	Address  string `mapstructure:"address"`   // 合约地址
	ABIPath  string `mapstructure:"abi_path"`  // ABI文件路径，为空时用内置ABI
	Enabled  bool   `mapstructure:"enabled"`   // 是否启用此合约
	BlockNum int64  `mapstructure:"block_num"` // 合约部署区块号
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 快照同步间隔，秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// PollsContract 取BPolls主合约配置
// 未启用或地址未配置时第二个返回值为 false，与链管理器注册合约的条件一致
func (c ChainConfig) PollsContract() (ContractConfig, bool) {
	cc, ok := c.Contracts["polls_dapp"]
	if !ok || !cc.Enabled || cc.Address == "" {
		return ContractConfig{}, false
	}
	return cc, true
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/bpolls")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "bpolls")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.chain_id", 5115)
	viper.SetDefault("chain.rpc_url", "https://rpc.testnet.citrea.xyz")
	viper.SetDefault("chain.currency", "cBTC")
	viper.SetDefault("chain.explorer_url", "https://explorer.testnet.citrea.xyz")
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
