package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ustar-rs/ustar-go"
)

// fileConfig is the on-disk shape of a stardump config file: a thin YAML
// projection of ustar.Config plus the CLI's own knobs. Fields are
// pointers so an absent key in the YAML file doesn't silently override a
// flag the user did pass.
type fileConfig struct {
	Encoding         *string `yaml:"encoding"`
	BOMDetection     *bool   `yaml:"bom_detection"`
	DecomposeStrings *bool   `yaml:"decompose_strings"`
	PreserveComments *bool   `yaml:"preserve_comments"`
	LogLevel         *string `yaml:"log_level"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, errors.Wrapf(err, "stardump: reading config file %q", path)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, errors.Wrapf(err, "stardump: parsing config file %q", path)
	}
	return fc, nil
}

// resolveEncoding maps a config/flag string to ustar.EncodingMode,
// defaulting to ASCII when unset or unrecognized.
func resolveEncoding(name string) ustar.EncodingMode {
	switch name {
	case "extended", "extended-ascii", "ExtendedASCII":
		return ustar.ExtendedASCII
	case "unicode", "Unicode":
		return ustar.Unicode
	default:
		return ustar.ASCII
	}
}

// mergeConfig builds an ustar.Config from the file config overlaid by
// whichever flags the user explicitly set (the *Set arguments report that).
func mergeConfig(fc fileConfig, encoding string, encodingSet bool, bom, bomSet, decompose, decomposeSet, comments, commentsSet bool) ustar.Config {
	cfg := ustar.DefaultConfig()

	if fc.Encoding != nil {
		cfg.EncodingMode = resolveEncoding(*fc.Encoding)
	}
	if encodingSet {
		cfg.EncodingMode = resolveEncoding(encoding)
	}

	if fc.BOMDetection != nil {
		cfg.BOMDetection = *fc.BOMDetection
	}
	if bomSet {
		cfg.BOMDetection = bom
	}

	if fc.DecomposeStrings != nil {
		cfg.DecomposeStrings = *fc.DecomposeStrings
	}
	if decomposeSet {
		cfg.DecomposeStrings = decompose
	}

	if fc.PreserveComments != nil {
		cfg.PreserveComments = *fc.PreserveComments
	}
	if commentsSet {
		cfg.PreserveComments = comments
	}

	return cfg
}
