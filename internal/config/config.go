package config

import (
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// BaseURL is the public origin of the storefront, used to build
	// confirmation/QR urls.
	BaseURL string `mapstructure:"baseUrl"`
}
type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}
type RabbitCfg struct {
	URL string `mapstructure:"url"`
}
type YodlCfg struct {
	ApiURL          string `mapstructure:"apiUrl"`
	MerchantAddress string `mapstructure:"merchantAddress"`
	MerchantENS     string `mapstructure:"merchantEns"`
}
type PaymentCfg struct {
	// TimeoutSec bounds both payment initiation and the confirmation wait.
	TimeoutSec int `mapstructure:"timeoutSec"`
	// DetailFetchTimeoutSec bounds the supplementary tx-detail lookup.
	DetailFetchTimeoutSec int `mapstructure:"detailFetchTimeoutSec"`
}
type AdminIdentity struct {
	ENS     string `mapstructure:"ens"`
	Address string `mapstructure:"address"`
}
type SecurityCfg struct {
	// Admins holds the address/ENS allow-list. The signed challenge is
	// accepted as presented by the wallet layer; only membership here is
	// checked server-side. Known trust boundary, kept deliberately.
	Admins         []AdminIdentity `mapstructure:"admins"`
	AllowedOrigins []string        `mapstructure:"allowedOrigins"`
	AuthStatement  string          `mapstructure:"authStatement"`
}

type Root struct {
	Server   ServerCfg   `mapstructure:"server"`
	Redis    RedisCfg    `mapstructure:"redis"`
	RabbitMQ RabbitCfg   `mapstructure:"rabbitmq"`
	Yodl     YodlCfg     `mapstructure:"yodl"`
	Payment  PaymentCfg  `mapstructure:"payment"`
	Security SecurityCfg `mapstructure:"security"`
}

var C Root

func Init() {
	env := flag.String("env", "dev", "config env: dev|prod")
	flag.Parse()

	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile("config/config." + *env + ".yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config file failed: %v", err)
	}
	if err := v.Unmarshal(&C); err != nil {
		log.Fatalf("unmarshal config failed: %v", err)
	}

	// sane defaults
	if strings.TrimSpace(C.Server.Port) == "" {
		C.Server.Port = "8080"
	}
	if strings.TrimSpace(C.Server.BaseURL) == "" {
		C.Server.BaseURL = "http://localhost:" + C.Server.Port
	}
	if C.Payment.TimeoutSec <= 0 {
		C.Payment.TimeoutSec = 300
	}
	if C.Payment.DetailFetchTimeoutSec <= 0 {
		C.Payment.DetailFetchTimeoutSec = 10
	}
	if strings.TrimSpace(C.Security.AuthStatement) == "" {
		C.Security.AuthStatement = "Sign in to Merchant Yapp admin"
	}
	if C.Yodl.MerchantAddress == "" && C.Yodl.MerchantENS == "" {
		log.Fatalf("no merchant address or ENS configured, payment requests would fail")
	}
}
