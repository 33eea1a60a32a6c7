package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ListenAddr string `default:":8080"`

	// Trained head artifacts.
	HeadWeights  string `default:"data/multitask_head.json"`
	ScalersJSON  string `default:"data/regression_scalers.json"`
	ClassMapJSON string `default:"data/class_maps.json"`

	// Backbone checkpoint (ONNX export of Cnn14). If the file is missing and
	// CheckpointURL is set, it is fetched on first load.
	CheckpointPath string `default:"data/cnn14.onnx"`
	CheckpointURL  string

	// Path to the ONNX Runtime shared library. Empty means the platform
	// default baked into the bindings.
	OrtLibrary string

	// Frontend origins allowed by CORS.
	AllowedOrigins []string `default:"http://localhost:3000"`
}

func ProvideConfig() Config {
	var cfg Config
	err := envconfig.Process("cochlea", &cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

var Options = ProvideConfig
