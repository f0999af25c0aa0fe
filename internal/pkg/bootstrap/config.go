package bootstrap

import (
	"context"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"tavolo/internal/pkg/logger"
)

// Config 是平台所有服务共享的配置结构。
// 默认值面向本地 docker-compose 环境，线上通过配置文件 + 环境变量覆盖。
type Config struct {
	App struct {
		VendorNoticeTopic      string `yaml:"vendorNoticeTopic"`
		OrderStatusTopic       string `yaml:"orderStatusTopic"`
		CompletionRequestTopic string `yaml:"completionRequestTopic"`
		DeadLetterTopic        string `yaml:"deadLetterTopic"`
		DeliveryServiceName    string `yaml:"deliveryServiceName"`
		DeliveryBaseURL        string `yaml:"deliveryBaseURL"`
		PaymentRule            string `yaml:"paymentRule"`
	} `yaml:"app"`

	Infra struct {
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Kafka struct {
			Brokers []string `yaml:"brokers"`
		} `yaml:"kafka"`
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		Zookeeper struct {
			Servers []string `yaml:"servers"`
		} `yaml:"zookeeper"`
		Nacos struct {
			ServerAddrs string `yaml:"serverAddrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
	} `yaml:"infra"`
}

var currentConfig atomic.Value // *Config

// Init 加载配置并保存为进程级单例。必须在 StartService 之前调用。
func Init() {
	cfg := defaultConfig()

	if path := getEnv("CONFIG_PATH", "configs/config.yaml"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				logger.Ctx(context.Background()).Fatal().Err(err).Str("path", path).Msg("invalid config file")
			}
		}
	}

	applyEnvOverrides(cfg)
	currentConfig.Store(cfg)
}

// GetCurrentConfig 返回当前配置。Init 未调用时返回默认配置。
func GetCurrentConfig() *Config {
	if v := currentConfig.Load(); v != nil {
		return v.(*Config)
	}
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	currentConfig.Store(cfg)
	return cfg
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.VendorNoticeTopic = "vendor-notices"
	cfg.App.OrderStatusTopic = "order-status"
	cfg.App.CompletionRequestTopic = "order-completion-requests"
	cfg.App.DeadLetterTopic = "order-completion-dlt"
	cfg.App.DeliveryServiceName = "delivery-service"
	cfg.App.DeliveryBaseURL = "http://localhost:8086"
	cfg.App.PaymentRule = "customer_id > 0 && price > 0.0"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Infra.Mysql.DSN = "tavolo:tavolo@tcp(localhost:3306)/tavolo?charset=utf8mb4&parseTime=True&loc=Local"
	cfg.Infra.Redis.Addr = "localhost:6379"
	cfg.Infra.Zookeeper.Servers = []string{"localhost:2181"}
	cfg.Infra.Nacos.Group = "DEFAULT_GROUP"
	return cfg
}

// 环境变量优先级最高，方便容器环境下逐项覆盖。
func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("JAEGER_ENDPOINT"); ok {
		cfg.Infra.Jaeger.Endpoint = v
	}
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		cfg.Infra.Kafka.Brokers = strings.Split(v, ",")
	}
	if v, ok := os.LookupEnv("MYSQL_DSN"); ok {
		cfg.Infra.Mysql.DSN = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.Infra.Redis.Addr = v
	}
	if v, ok := os.LookupEnv("ZOOKEEPER_SERVERS"); ok {
		cfg.Infra.Zookeeper.Servers = strings.Split(v, ",")
	}
	if v, ok := os.LookupEnv("NACOS_SERVER_ADDRS"); ok {
		cfg.Infra.Nacos.ServerAddrs = v
	}
	if v, ok := os.LookupEnv("NACOS_NAMESPACE"); ok {
		cfg.Infra.Nacos.Namespace = v
	}
	if v, ok := os.LookupEnv("NACOS_GROUP"); ok {
		cfg.Infra.Nacos.Group = v
	}
	if v, ok := os.LookupEnv("DELIVERY_BASE_URL"); ok {
		cfg.App.DeliveryBaseURL = v
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
