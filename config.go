package egress

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// validate is a package-level singleton; validators cache struct metadata.
var validate = validator.New()

// Config controls interceptor policy.
type Config struct {
	// SuccessMin and SuccessMax bound the inclusive success status range.
	// Statuses outside it pass through when no type is declared for them.
	SuccessMin int `mapstructure:"success_min" validate:"gte=100,lte=599"`
	SuccessMax int `mapstructure:"success_max" validate:"gtefield=SuccessMin,lte=599"`

	// RejectMessage is the only text a rejected response carries.
	RejectMessage string `mapstructure:"reject_message" validate:"required"`

	// Masking applies egress.mask and egress.redact tags on declared types.
	Masking bool `mapstructure:"masking"`
}

// DefaultConfig returns the default policy: 200-299 is success, masking on.
func DefaultConfig() Config {
	return Config{
		SuccessMin:    200,
		SuccessMax:    299,
		RejectMessage: "Handler metadata error.",
		Masking:       true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid egress config: %w", err)
	}
	return nil
}

// IsSuccess reports whether status lies in the success range.
func (c Config) IsSuccess(status int) bool {
	return c.SuccessMin <= status && status <= c.SuccessMax
}

// LoadConfig reads configuration from path (any format viper understands)
// layered over DefaultConfig. EGRESS_* environment variables override both.
// An empty path loads defaults and environment only.
func LoadConfig(path string) (Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("success_min", def.SuccessMin)
	v.SetDefault("success_max", def.SuccessMax)
	v.SetDefault("reject_message", def.RejectMessage)
	v.SetDefault("masking", def.Masking)

	v.SetEnvPrefix("EGRESS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
