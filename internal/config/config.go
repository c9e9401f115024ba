package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	SerpAPI struct {
		BaseURL           string  `yaml:"base_url"`
		HL                string  `yaml:"hl"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		KeyringAccount    string  `yaml:"keyring_account"`
	} `yaml:"serpapi"`

	Keywords struct {
		Path string `yaml:"path"`
	} `yaml:"keywords"`

	Scoring struct {
		// rank_reciprocal | ctr_table
		Policy string `yaml:"policy"`
	} `yaml:"scoring"`

	Run struct {
		// 0 or 1 = strictly sequential; >1 fans queries out with a limit
		Parallelism int `yaml:"parallelism"`
	} `yaml:"run"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
